package eval

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/dr-dahou-adrar/sacred/pkg/parse"
)

// Ignores functions defined by the code under test.
var ignoreCallables = cmpopts.IgnoreMapEntries(func(_ string, v any) bool {
	_, ok := v.(Callable)
	return ok
})

func evalCode(code string) (MapNs, error) {
	ns := MapNs{}
	err := NewEvaler().Eval(parse.SourceForTest(code), ns)
	return ns, err
}

var evalTests = []struct {
	name string
	code string
	want MapNs
}{
	{
		name: "arithmetic",
		code: "a = 1 + 2 * 3; b = 7 / 2; c = 7 % 3; d = -7 % 3; e = 1.5 * 2; f = 7 - 10",
		want: MapNs{"a": 7, "b": 3.5, "c": 1, "d": 2, "e": 3.0, "f": -3},
	},
	{
		name: "float modulo",
		code: "x = -1.5 % 1",
		want: MapNs{"x": 0.5},
	},
	{
		name: "compound assignment",
		code: "x = 1; x += 2; x *= 3; x -= 1; x /= 4; s = 'a'; s += 'b'",
		want: MapNs{"x": 2.0, "s": "ab"},
	},
	{
		name: "strings and lists",
		code: `s = "a" + 'b'; l = [1] + [2, 3]; n = len(l); has_b = "b" in s; has_2 = 2.0 in l`,
		want: MapNs{"s": "ab", "l": []any{1, 2, 3}, "n": 3, "has_b": true, "has_2": true},
	},
	{
		name: "comparisons",
		code: `a = 1 < 2.5; b = "a" >= "b"; c = [1, {x: 2}] == [1.0, {x: 2}]; d = 1 != 1; e = "k" in {k: null}`,
		want: MapNs{"a": true, "b": false, "c": true, "d": false, "e": true},
	},
	{
		name: "short-circuit",
		code: "a = false && undefined_name; b = true || undefined_name; c = !false",
		want: MapNs{"a": false, "b": true, "c": true},
	},
	{
		name: "if chain",
		code: "x = 5\nif x < 3 { y = 'small' } else if x < 10 { y = 'medium' } else { y = 'large' }",
		want: MapNs{"x": 5, "y": "medium"},
	},
	{
		name: "for over list",
		code: "total = 0\nfor v in [1, 2, 3] { total += v }",
		want: MapNs{"total": 6, "v": 3},
	},
	{
		name: "for with index",
		code: "out = []\nfor i, v in ['a', 'b'] { out = append(out, format('{}={}', i, v)) }",
		want: MapNs{"out": []any{"0=a", "1=b"}, "i": 1, "v": "b"},
	},
	{
		name: "for over map",
		code: "m = {b: 2, a: 1}\nks = []\nfor k in m { ks = append(ks, k) }",
		want: MapNs{"m": map[string]any{"a": 1, "b": 2}, "ks": []any{"a", "b"}, "k": "b"},
	},
	{
		name: "for over string",
		code: "cs = []\nfor c in 'hé' { cs = append(cs, c) }",
		want: MapNs{"cs": []any{"h", "é"}, "c": "é"},
	},
	{
		name: "break and continue",
		code: "n = 0\nfor i in range(10) {\n  if i % 2 == 0 { continue }\n  if i > 6 { break }\n  n += i\n}",
		want: MapNs{"n": 9, "i": 7},
	},
	{
		name: "while",
		code: "i = 0\nwhile i < 3 { i += 1 }",
		want: MapNs{"i": 3},
	},
	{
		name: "nested assignment",
		code: "m = {a: {b: 1}}\nm.a.b = 2\nm['c'] = [0, 0]\nm.c[-1] = 5\nm.a.b += 1",
		want: MapNs{"m": map[string]any{"a": map[string]any{"b": 3}, "c": []any{0, 5}}},
	},
	{
		name: "assignment copies",
		code: "a = [1, [2]]\nb = a\nb[1][0] = 9\nc = {x: a}\nc.x[0] = 7",
		want: MapNs{
			"a": []any{1, []any{2}},
			"b": []any{1, []any{9}},
			"c": map[string]any{"x": []any{7, []any{2}}},
		},
	},
	{
		name: "functions",
		code: "fn sq(x) { return x * x }\na = sq(3)\n" +
			"fn fact(n) {\n  if n <= 1 { return 1 }\n  return n * fact(n - 1)\n}\nb = fact(5)",
		want: MapNs{"a": 9, "b": 120},
	},
	{
		name: "function locals",
		code: "y = 1\nfn f(x) { y = x + 10; z = y; return z }\nr = f(1)",
		want: MapNs{"y": 1, "r": 11},
	},
	{
		name: "function without return",
		code: "fn f() { for i in [1] { } }\nr = f()",
		want: MapNs{"r": nil},
	},
	{
		name: "closures capture locals",
		code: "fn make(n) {\n  fn add(x) { return x + n }\n  return add\n}\nadd2 = make(2)\nr = add2(3)",
		want: MapNs{"r": 5},
	},
	{
		name: "defined",
		code: "a = defined('a'); b = defined('len'); c = defined('nope')",
		want: MapNs{"a": false, "b": true, "c": false},
	},
	{
		name: "builtins",
		code: `a = int("0x10"); b = float("2.5"); c = str(1.5); d = type(1.0)
e = round(2.5); f = round(3.14159, 2); g = floor(-1.5); h = ceil(1.2)
i = sqrt(16); j = pow(2, 10); k = pow(2, -1); l = min(3, 1, 2); m = max([1, 5.5])
n = sum([1, 2.5]); o = range(1, 7, 2); p = abs(-3); q = bool([]); r = sorted(["b", "a"])
s = join("-", split("a,b", ",")); t = upper("x") + lower("Y"); u = replace("aXa", "X", "-")
v = keys({b: 1, a: 2}); w = values({b: 1, a: 2}); x = has({a: 1}, "a"); y = append([1], 2, 3)
z = repr({k: [1, "s"]})`,
		want: MapNs{
			"a": 16, "b": 2.5, "c": "1.5", "d": "float",
			"e": 2, "f": 3.14, "g": -2, "h": 2,
			"i": 4.0, "j": 1024, "k": 0.5, "l": 1, "m": 5.5,
			"n": 3.5, "o": []any{1, 3, 5}, "p": 3, "q": false, "r": []any{"a", "b"},
			"s": "a-b", "t": "Xy", "u": "a-a",
			"v": []any{"a", "b"}, "w": []any{2, 1}, "x": true, "y": []any{1, 2, 3},
			"z": `{k: [1, "s"]}`,
		},
	},
	{
		name: "int overflow promotes to float",
		code: `a = 9223372036854775807 + 1; b = 3037000500 * 3037000500
c = -9223372036854775808 - 1; d = -(-9223372036854775808); e = abs(-9223372036854775808)
f = sum([9223372036854775807, 1]); g = 9223372036854775807; g += 1`,
		want: MapNs{
			"a": float64(1 << 63), "b": 3037000500.0 * 3037000500.0,
			"c": -float64(1 << 63), "d": float64(1 << 63), "e": float64(1 << 63),
			"f": float64(1 << 63), "g": float64(1 << 63),
		},
	},
	{
		name: "int pow",
		code: "a = pow(2, 64); b = pow(-2, 63); c = pow(1, 100000000000000); d = pow(-1, 100000000000001)",
		want: MapNs{"a": float64(1 << 64), "b": -1 << 63, "c": 1, "d": -1},
	},
	{
		name: "format escapes",
		code: "s = format('{{{}}}', 1)",
		want: MapNs{"s": "{1}"},
	},
}

func TestEval(t *testing.T) {
	for _, test := range evalTests {
		t.Run(test.name, func(t *testing.T) {
			ns, err := evalCode(test.code)
			if err != nil {
				t.Fatalf("got error %v", err)
			}
			if diff := cmp.Diff(test.want, ns, ignoreCallables); diff != "" {
				t.Errorf("namespace (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProgramRunsRepeatedly(t *testing.T) {
	p, err := NewEvaler().Compile(parse.SourceForTest("n = n + 1"))
	if err != nil {
		t.Fatal(err)
	}
	for _, start := range []int{1, 10} {
		ns := MapNs{"n": start}
		if err := p.Run(ns); err != nil {
			t.Fatal(err)
		}
		if ns["n"] != start+1 {
			t.Errorf("got n = %v, want %v", ns["n"], start+1)
		}
	}
	if p.Source().Code != "n = n + 1" {
		t.Errorf("Source() = %v", p.Source())
	}
}

func TestNamespaceShadowsBuiltins(t *testing.T) {
	ns, err := evalCode("len = 3; x = len + 1")
	if err != nil {
		t.Fatal(err)
	}
	if ns["x"] != 4 {
		t.Errorf("got x = %v", ns["x"])
	}
}
