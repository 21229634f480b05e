// Package pprof adds CPU profiling support to scopeval.
package pprof

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/dr-dahou-adrar/sacred/pkg/prog"
)

// Program handles the --cpuprofile flag. It should come before the
// subprogram being profiled in a Composite.
type Program struct{}

func (Program) Run(fds [3]*os.File, f *prog.Flags, _ []string) error {
	if f.CPUProfile == "" {
		return prog.ErrNotSuitable
	}
	out, err := os.Create(f.CPUProfile)
	if err != nil {
		fmt.Fprintln(fds[2], "Warning: cannot create CPU profile:", err)
		fmt.Fprintln(fds[2], "Continuing without CPU profiling.")
		return prog.ErrNotSuitable
	}
	if err := pprof.StartCPUProfile(out); err != nil {
		fmt.Fprintln(fds[2], "Warning: cannot start CPU profiling:", err)
		out.Close()
		return prog.ErrNotSuitable
	}
	return prog.NextProgram(func([3]*os.File) {
		pprof.StopCPUProfile()
		out.Close()
	})
}
