package scopeval_test

import (
	"bytes"
	"testing"

	"github.com/dr-dahou-adrar/sacred/pkg/cfgfile"
	"github.com/dr-dahou-adrar/sacred/pkg/eval"
	"github.com/dr-dahou-adrar/sacred/pkg/must"
	. "github.com/dr-dahou-adrar/sacred/pkg/prog/progtest"
	"github.com/dr-dahou-adrar/sacred/pkg/scope"
	. "github.com/dr-dahou-adrar/sacred/pkg/scopeval"
	"github.com/dr-dahou-adrar/sacred/pkg/testutil"
)

func setupFiles(t *testing.T) {
	testutil.InTempDir(t)
	must.WriteFile("simple.scope", "a = 1\nb = a + 1\n")
	must.WriteFile("model.scope", testutil.Dedent(`
		scope base() {
		    lr = 0.5
		    layers = [64, 64]
		}

		scope schedule(lr, layers, device) {
		    warmup = lr * 4
		    depth = len(layers)
		    placement = device + ":0"
		}
		`))
	must.WriteFile("typed.scope", `epochs = "ten"`)
	must.WriteFile("preset.yaml", "epochs: 10\nextra: {kept: true}\n")
	must.WriteFile("fallback.json", `{"device": "cuda", /* not in the result */ "unused": 1}`)
	must.WriteFile("bad-parse.scope", "a = )")
	must.WriteFile("bad-compile.scope", "break")
	must.WriteFile("div.scope", "a = 1\nb = a / 0")
	must.WriteFile("host.scope", "n = gpus() * 2")
}

func encode(t *testing.T, v any, f cfgfile.Format) string {
	t.Helper()
	var buf bytes.Buffer
	if err := cfgfile.Encode(&buf, v, f); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestProgram(t *testing.T) {
	setupFiles(t)
	p := Program{}

	Test(t, p,
		ThatScopeval().
			ExitsWith(2).WritesStderrContaining("no scope file given\nUsage:"),
		ThatScopeval("simple.scope").
			WritesStdout("{\n  \"a\": 1,\n  \"b\": 2\n}\n"),
		ThatScopeval("--fixed", "a=99", "simple.scope").
			WritesStdout("{\n  \"a\": 99,\n  \"b\": 100\n}\n"),
		ThatScopeval("--format", "yaml", "simple.scope").
			WritesStdout("a: 1\nb: 2\n"),
		ThatScopeval("--fallback", "fallback.json", "model.scope").
			WritesStdout(encode(t, map[string]any{
				"lr": 0.5, "layers": []any{64, 64}, "warmup": 2.0, "depth": 2,
				"placement": "cuda:0"}, cfgfile.JSON)),
		ThatScopeval("--preset", "preset.yaml", "--fixed", "layers=[8]",
			"--fixed", "net.hidden=32", "--fallback", "fallback.json",
			"model.scope", "simple.scope").
			WritesStdout(encode(t, map[string]any{
				"epochs": 10, "extra": map[string]any{"kept": true},
				"lr": 0.5, "layers": []any{8}, "warmup": 2.0, "depth": 1,
				"placement": "cuda:0", "net": map[string]any{"hidden": 32},
				"a": 1, "b": 2}, cfgfile.JSON)),
		ThatScopeval("--compileonly", "model.scope", "simple.scope").DoesNothing(),
	)
}

func TestProgram_Audit(t *testing.T) {
	setupFiles(t)
	config := map[string]any{"epochs": "ten", "extra": map[string]any{"kept": true}}
	fp, err := scope.Snapshot(config).Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"config": config,
		"audit": []any{map[string]any{
			"scope":       "typed",
			"added":       []any{},
			"typechanges": map[string]any{"epochs": map[string]any{"from": "int", "to": "string"}},
			"dropped":     []any{},
		}},
		"fingerprint": fp,
	}

	Test(t, Program{},
		ThatScopeval("--audit", "--fingerprint", "--preset", "preset.yaml", "typed.scope").
			WritesStdout(encode(t, want, cfgfile.JSON)),
		ThatScopeval("--fingerprint", "--format", "yaml", "--preset", "preset.yaml", "typed.scope").
			WritesStdout(encode(t, map[string]any{"config": config, "fingerprint": fp}, cfgfile.YAML)),
	)
}

func TestProgram_Errors(t *testing.T) {
	setupFiles(t)

	Test(t, Program{},
		ThatScopeval("bad-parse.scope").
			ExitsWith(2).WritesStderrContaining("Parse error"),
		ThatScopeval("--compileonly", "bad-compile.scope").
			ExitsWith(2).WritesStderrContaining("break outside of loop"),
		ThatScopeval("missing.scope").
			ExitsWith(2).WritesStderrContaining("no such file or directory"),
		ThatScopeval("div.scope").
			ExitsWith(1).WritesStderrContaining("Exception: division by zero"),
		ThatScopeval("model.scope").
			ExitsWith(1).WritesStderrContaining("parameter device of scope schedule is not in the preset or the fallback"),
		ThatScopeval("--preset", "missing.yaml", "simple.scope").
			ExitsWith(2).WritesStderrContaining("reading missing.yaml"),
		ThatScopeval("--fallback", "simple.scope", "simple.scope").
			ExitsWith(2).WritesStderrContaining(`unknown file extension ".scope"`),
		ThatScopeval("--fixed", "novalue", "simple.scope").
			ExitsWith(2).WritesStderrContaining("should be key=value\nUsage:"),
		ThatScopeval("--format", "xml", "simple.scope").
			ExitsWith(2).WritesStderrContaining(`unknown format "xml"`),
		ThatScopeval("host.scope").
			ExitsWith(1).WritesStderrContaining("name not found: gpus"),
	)
}

func TestProgram_SetupEvaler(t *testing.T) {
	setupFiles(t)
	p := Program{SetupEvaler: func(ev *eval.Evaler) {
		ev.AddBuiltin("gpus", func() int { return 4 })
	}}
	Test(t, p,
		ThatScopeval("host.scope").WritesStdout("{\n  \"n\": 8\n}\n"),
	)
}
