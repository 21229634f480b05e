package eval

import (
	"errors"
	"testing"

	"github.com/dr-dahou-adrar/sacred/pkg/diag"
	"github.com/dr-dahou-adrar/sacred/pkg/eval/errs"
	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
)

var runtimeErrorTests = []struct {
	name string
	code string
	// Message of the reason.
	wantMsg string
	// Source text of the innermost stack frame.
	wantCulprit string
}{
	{"division by zero", "x = 1 / 0", "division by zero", "1 / 0"},
	{"modulo by zero", "x = 1 % 0.0", "division by zero", "1 % 0.0"},
	{"undefined name", "x = y", "name not found: y", "y"},
	{"index out of range", "x = [1][3]",
		"out of range: index must be from -1 to 0, but is 3", "[1][3]"},
	{"missing key", "m = {}\nx = m.k", `no such key: "k"`, "m.k"},
	{"condition not bool", "if 1 { }", "bad value: condition must be bool, but is int", "1"},
	{"operand not bool", "x = 1 && true", "bad value: operand of && must be bool, but is int", "1"},
	{"bad operands", `x = "a" - 1`, "unsupported operand types for -: string and int", `"a" - 1`},
	{"bad comparison", `x = [] < 1`, "cannot compare list and int", "[] < 1"},
	{"bad membership", `x = 1 in 2`, "unsupported operand types for in: int and int", "1 in 2"},
	{"arity", "x = len(1, 2)",
		"arity mismatch: arguments of len must be 1 value, but is 2 values", "len(1, 2)"},
	{"closure arity", "fn f(a) { }\nf()",
		"arity mismatch: arguments of f must be 1 value, but is 0 values", "f()"},
	{"not callable", "x = 1\nx()", "cannot call int", "x"},
	{"argument type", `x = sqrt("a")`,
		"bad value: argument 1 must be number, but is string", `sqrt("a")`},
	{"cannot iterate", "for x in 1 { }", "cannot iterate int", "1"},
	{"assign into scalar", "x = 1\nx.y = 2", "cannot assign to element of int", "x.y"},
	{"call depth", "fn f() { return f() }\nf()", "maximum call depth exceeded", "f()"},
	{"builtin error", "x = range(1, 2, 0)", "bad value: step must be non-zero, but is 0", "range(1, 2, 0)"},
}

func TestRuntimeErrors(t *testing.T) {
	for _, test := range runtimeErrorTests {
		t.Run(test.name, func(t *testing.T) {
			_, err := evalCode(test.code)
			exc, ok := err.(Exception)
			if !ok {
				t.Fatalf("got error %v (%T), want Exception", err, err)
			}
			if msg := exc.Reason().Error(); msg != test.wantMsg {
				t.Errorf("got reason %q, want %q", msg, test.wantMsg)
			}
			head := exc.StackTrace().Head
			if culprit := head.Source[head.From:head.To]; culprit != test.wantCulprit {
				t.Errorf("got culprit %q, want %q", culprit, test.wantCulprit)
			}
		})
	}
}

func TestExceptionUnwrapsToReason(t *testing.T) {
	_, err := evalCode("x = 1 / 0")
	if !errors.Is(err, ErrDivideByZero) {
		t.Errorf("errors.Is(%v, ErrDivideByZero) is false", err)
	}
	if Reason(err) != ErrDivideByZero {
		t.Errorf("Reason(err) = %v", Reason(err))
	}
	if got, want := err.Error(), "[test]:1:5: division by zero"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	_, err = evalCode("x = y")
	var notFound *NameNotFoundError
	if !errors.As(err, &notFound) || notFound.Name != "y" {
		t.Errorf("errors.As(%v, *NameNotFoundError) failed", err)
	}

	_, err = evalCode("x = [][0]")
	var outOfRange errs.OutOfRange
	if !errors.As(err, &outOfRange) {
		t.Errorf("errors.As(%v, errs.OutOfRange) failed", err)
	}
	_, err = evalCode("x = {}['a']")
	var noSuchKey vals.NoSuchKeyError
	if !errors.As(err, &noSuchKey) || noSuchKey.Key != "a" {
		t.Errorf("errors.As(%v, vals.NoSuchKeyError) failed", err)
	}
	if Reason(errors.New("plain")).Error() != "plain" {
		t.Errorf("Reason of a non-exception should be itself")
	}
}

func TestStackTrace(t *testing.T) {
	_, err := evalCode("fn f(x) {\n  return x / 0\n}\ny = f(1)")
	exc := err.(Exception)
	st := exc.StackTrace()
	if got := st.Head.Describe(); got != "[test]:2:10" {
		t.Errorf("innermost frame at %s", got)
	}
	if st.Next == nil {
		t.Fatal("want a frame for the call site")
	}
	if got := st.Next.Head.Describe(); got != "[test]:4:5" {
		t.Errorf("call site at %s", got)
	}
	if st.Next.Next != nil {
		t.Errorf("want exactly two frames")
	}
}

func TestExceptionShow(t *testing.T) {
	diag.UseColor(false)
	t.Cleanup(func() { diag.UseColor(true) })

	_, err := evalCode("x = 1 / 0")
	want := "Exception: division by zero\n  [test]:1:5: x = <1 / 0>"
	if got := err.(Exception).Show(""); got != want {
		t.Errorf("Show:\ngot  %q\nwant %q", got, want)
	}

	_, err = evalCode("fn f() { return 1 / 0 }\nf()")
	want = "Exception: division by zero\n" +
		"Traceback:\n" +
		"  [test]:1:17:\n    fn f() { return <1 / 0> }\n" +
		"  [test]:2:1:\n    <f()>"
	if got := err.(Exception).Show(""); got != want {
		t.Errorf("Show:\ngot  %q\nwant %q", got, want)
	}
}
