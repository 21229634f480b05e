package scope

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dr-dahou-adrar/sacred/pkg/diag"
	"github.com/dr-dahou-adrar/sacred/pkg/eval"
	"github.com/dr-dahou-adrar/sacred/pkg/parse"
	"github.com/dr-dahou-adrar/sacred/pkg/testutil"
)

var declsCode = testutil.Dedent(`
	# Base model.
	scope base() {
	    lr = 0.5
	    layers = [64, 64]
	}

	scope schedule(lr, layers) {
	    warmup = lr * 4
	    depth = len(layers)
	}
	`)

func TestLoad_Decls(t *testing.T) {
	scopes, err := Load(eval.NewEvaler(), parse.SourceForTest(declsCode))
	if err != nil {
		t.Fatal(err)
	}
	if len(scopes) != 2 {
		t.Fatalf("got %d scopes, want 2", len(scopes))
	}
	if scopes[0].Name() != "base" || scopes[1].Name() != "schedule" {
		t.Errorf("got scopes %s and %s", scopes[0].Name(), scopes[1].Name())
	}
	if diff := cmp.Diff([]string{"lr", "layers"}, scopes[1].Params()); diff != "" {
		t.Errorf("params (-want +got):\n%s", diff)
	}

	got, err := EvaluateChain(scopes, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"lr": 0.5, "layers": []any{64, 64}, "warmup": 2.0, "depth": 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merged (-want +got):\n%s", diff)
	}
}

func TestLoad_BareBody(t *testing.T) {
	src := parse.Source{Name: "/cfg/train.scope", Code: "a = 1; b = a + 1", IsFile: true}
	scopes, err := Load(eval.NewEvaler(), src)
	if err != nil {
		t.Fatal(err)
	}
	if len(scopes) != 1 {
		t.Fatalf("got %d scopes, want 1", len(scopes))
	}
	s := scopes[0]
	if s.Name() != "train" || len(s.Params()) != 0 {
		t.Errorf("got scope %s with params %v", s.Name(), s.Params())
	}
	snap := evaluate(t, s, nil, nil, nil)
	if diff := cmp.Diff(Snapshot{"a": 1, "b": 2}, snap); diff != "" {
		t.Errorf("snapshot (-want +got):\n%s", diff)
	}

	scopes, err = Load(eval.NewEvaler(), parse.SourceForTest(""))
	if err != nil || len(scopes) != 1 || scopes[0].Name() != "[test]" {
		t.Errorf("empty source: got %v, %v", scopes, err)
	}
}

func TestLoad_UsesBuiltinsOfEvaler(t *testing.T) {
	ev := eval.NewEvaler()
	ev.AddBuiltin("gpus", func() int { return 4 })
	scopes, err := Load(ev, parse.SourceForTest("n = gpus() * 2"))
	if err != nil {
		t.Fatal(err)
	}
	snap := evaluate(t, scopes[0], nil, nil, nil)
	if snap["n"] != 8 {
		t.Errorf("n = %v, want 8", snap["n"])
	}
}

func TestLoad_ConstructionErrors(t *testing.T) {
	tests := []struct {
		code     string
		wantMsg  string
		wantFrom int
	}{
		{"scope a(x, ...rest) { }", "variadic parameter ...rest not allowed", 11},
		{"scope a(**kw) { }", "keyword catch-all parameter **kw not allowed", 8},
		{"scope a(x=1) { }", "parameter x must not have a default value", 8},
		{"scope a(x, x) { }", "duplicate parameter x", 11},
	}
	for _, test := range tests {
		t.Run(test.code, func(t *testing.T) {
			_, err := Load(eval.NewEvaler(), parse.SourceForTest(test.code))
			var cerr *ConstructionError
			if !errors.As(err, &cerr) {
				t.Fatalf("got error %v, want *ConstructionError", err)
			}
			if cerr.Scope != "a" || cerr.Message != test.wantMsg {
				t.Errorf("got (%q, %q), want (a, %q)", cerr.Scope, cerr.Message, test.wantMsg)
			}
			if cerr.Context == nil || cerr.Context.From != test.wantFrom {
				t.Errorf("got context %v, want one from %d", cerr.Context, test.wantFrom)
			}
		})
	}
}

func TestLoad_CompilationErrors(t *testing.T) {
	tests := []struct {
		code     string
		wantMsg  string
		wantFrom int
	}{
		{"scope a() { x = 1 }\ny = 2", "statement outside of scope declarations", 20},
		{"scope a() { }\nscope a() { }", "duplicate scope a", 20},
		{"scope a() { break }", "break outside of loop", 12},
	}
	for _, test := range tests {
		t.Run(test.code, func(t *testing.T) {
			_, err := Load(eval.NewEvaler(), parse.SourceForTest(test.code))
			cerr := eval.GetCompilationError(err)
			if cerr == nil {
				t.Fatalf("got error %v, want a compilation error", err)
			}
			if cerr.Message != test.wantMsg || cerr.Context.From != test.wantFrom {
				t.Errorf("got (%q, %d), want (%q, %d)",
					cerr.Message, cerr.Context.From, test.wantMsg, test.wantFrom)
			}
		})
	}
}

func TestLoad_ParseErrors(t *testing.T) {
	_, err := Load(eval.NewEvaler(), parse.SourceForTest("a = )\nb = ("))
	if errs := diag.Unpack(err); len(errs) != 2 {
		t.Errorf("got errors %v, want 2 parse errors", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.scope")
	if err := os.WriteFile(path, []byte("hidden = 128\n"), 0600); err != nil {
		t.Fatal(err)
	}
	scopes, err := LoadFile(eval.NewEvaler(), path)
	if err != nil {
		t.Fatal(err)
	}
	if len(scopes) != 1 || scopes[0].Name() != "model" {
		t.Fatalf("got %v", scopes)
	}

	if _, err := LoadFile(eval.NewEvaler(), filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got error %v, want one wrapping os.ErrNotExist", err)
	}
}

func TestConstructionError_Show(t *testing.T) {
	diag.UseColor(false)
	t.Cleanup(func() { diag.UseColor(true) })

	_, err := Load(eval.NewEvaler(), parse.SourceForTest("scope a(x=1) { }"))
	var cerr *ConstructionError
	if !errors.As(err, &cerr) {
		t.Fatalf("got error %v", err)
	}
	want := "Cannot construct scope a: parameter x must not have a default value\n" +
		"  [test]:1:9: scope a(<x=1>) { }"
	if got := cerr.Show(""); got != want {
		t.Errorf("Show() = %q, want %q", got, want)
	}
	if got, want := cerr.Error(), "cannot construct scope a: [test]:1:9: parameter x must not have a default value"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
