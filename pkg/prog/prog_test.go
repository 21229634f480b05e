package prog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	. "github.com/dr-dahou-adrar/sacred/pkg/prog"
	"github.com/dr-dahou-adrar/sacred/pkg/prog/progtest"
)

var (
	Test         = progtest.Test
	ThatScopeval = progtest.ThatScopeval
)

func TestCommonFlagHandling(t *testing.T) {
	Test(t, testProgram{},
		ThatScopeval("--bad-flag").
			ExitsWith(2).
			WritesStderrContaining("unknown flag: --bad-flag\nUsage:"),
		ThatScopeval("--help").
			WritesStdoutContaining("Usage: scopeval [flags] file..."),
		ThatScopeval("-h").
			WritesStdoutContaining("--fixed stringArray"),
	)
}

func TestLogFlag(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "log")
	Test(t, testProgram{},
		ThatScopeval("--log", logFile).DoesNothing(),
		ThatScopeval("--log", filepath.Join(t.TempDir(), "no", "such", "dir", "log")).
			WritesStderrContaining("no such file or directory"),
	)
	if _, err := os.Stat(logFile); err != nil {
		t.Errorf("log file does not exist: %v", err)
	}
}

func TestFlagsArePassed(t *testing.T) {
	var got *Flags
	var gotArgs []string
	p := funcProgram(func(fds [3]*os.File, f *Flags, args []string) error {
		got, gotArgs = f, args
		return nil
	})
	Test(t, p,
		ThatScopeval("--fixed", "a=1", "--fixed", "b=[1, 2]", "--preset", "p.yaml",
			"--fallback", "f.json", "--format", "yaml", "--audit", "--fingerprint",
			"x.scope", "y.scope"),
	)
	want := &Flags{
		Fixed: []string{"a=1", "b=[1, 2]"}, Preset: "p.yaml", Fallback: "f.json",
		Format: "yaml", Audit: true, Fingerprint: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("flags (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x.scope", "y.scope"}, gotArgs); diff != "" {
		t.Errorf("args (-want +got):\n%s", diff)
	}
}

func TestNoSuitableSubprogram(t *testing.T) {
	Test(t, testProgram{notSuitable: true},
		ThatScopeval().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{writeOut: "program 2"}),
		ThatScopeval().WritesStdout("program 2"),
	)
}

func TestComposite_NoSuitableSubprogram(t *testing.T) {
	Test(t,
		Composite(testProgram{notSuitable: true}, testProgram{notSuitable: true}),
		ThatScopeval().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite_PreferEarlierSubprogram(t *testing.T) {
	Test(t,
		Composite(
			testProgram{writeOut: "program 1"}, testProgram{writeOut: "program 2"}),
		ThatScopeval().WritesStdout("program 1"),
	)
}

func TestComposite_NextProgram(t *testing.T) {
	cleanup := func(s string) func([3]*os.File) {
		return func(fds [3]*os.File) { fds[1].WriteString(s) }
	}
	Test(t,
		Composite(
			funcProgram(func([3]*os.File, *Flags, []string) error {
				return NextProgram(cleanup(" cleanup 2"), cleanup(" cleanup 1"))
			}),
			testProgram{writeOut: "program 2"}),
		ThatScopeval().WritesStdout("program 2 cleanup 1 cleanup 2"),
	)
}

func TestBadUsageError(t *testing.T) {
	Test(t,
		testProgram{returnErr: BadUsage("lorem ipsum")},
		ThatScopeval().ExitsWith(2).WritesStderrContaining("lorem ipsum\n"),
	)
}

func TestExitError(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(3)},
		ThatScopeval().ExitsWith(3),
	)
}

func TestExitError_0(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(0)},
		ThatScopeval().ExitsWith(0),
	)
}

type testProgram struct {
	notSuitable bool
	writeOut    string
	returnErr   error
}

func (p testProgram) Run(fds [3]*os.File, _ *Flags, args []string) error {
	if p.notSuitable {
		return ErrNotSuitable
	}
	fds[1].WriteString(p.writeOut)
	return p.returnErr
}

type funcProgram func(fds [3]*os.File, f *Flags, args []string) error

func (p funcProgram) Run(fds [3]*os.File, f *Flags, args []string) error {
	return p(fds, f, args)
}
