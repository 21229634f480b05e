// Command scopeval evaluates configuration scopes and prints the merged
// configuration.
package main

import (
	"os"

	"github.com/dr-dahou-adrar/sacred/pkg/buildinfo"
	"github.com/dr-dahou-adrar/sacred/pkg/pprof"
	"github.com/dr-dahou-adrar/sacred/pkg/prog"
	"github.com/dr-dahou-adrar/sacred/pkg/scopeval"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			pprof.Program{}, buildinfo.Program{}, scopeval.Program{})))
}
