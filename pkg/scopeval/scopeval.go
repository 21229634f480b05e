// Package scopeval is the subprogram that evaluates scope files and writes the
// merged configuration.
package scopeval

import (
	"os"

	"github.com/dr-dahou-adrar/sacred/pkg/cfgfile"
	"github.com/dr-dahou-adrar/sacred/pkg/diag"
	"github.com/dr-dahou-adrar/sacred/pkg/eval"
	"github.com/dr-dahou-adrar/sacred/pkg/logutil"
	"github.com/dr-dahou-adrar/sacred/pkg/prog"
	"github.com/dr-dahou-adrar/sacred/pkg/scope"
	"github.com/dr-dahou-adrar/sacred/pkg/sys"
)

var logger = logutil.GetLogger("[scopeval] ")

// Program is the scopeval subprogram.
type Program struct {
	// Called with each new Evaler, to add host builtins. May be nil.
	SetupEvaler func(*eval.Evaler)
}

// Run evaluates the scopes in the files named by args, in order, as one
// chain.
func (p Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	diag.UseColor(sys.IsATTYFile(fds[2]))
	if len(args) == 0 {
		return prog.BadUsage("no scope file given")
	}
	format, err := cfgfile.ParseFormat(f.Format)
	if err != nil {
		return prog.BadUsage(err.Error())
	}
	fixed, err := parseFixed(f.Fixed)
	if err != nil {
		return prog.BadUsage(err.Error())
	}

	ev := eval.NewEvaler()
	if p.SetupEvaler != nil {
		p.SetupEvaler(ev)
	}
	var scopes []*scope.Scope
	for _, path := range args {
		s, err := scope.LoadFile(ev, path)
		if err != nil {
			diag.ShowError(fds[2], err)
			return prog.Exit(2)
		}
		logger.Printf("loaded %d scopes from %s", len(s), path)
		scopes = append(scopes, s...)
	}
	if f.CompileOnly {
		return nil
	}

	preset, err := loadOptional(f.Preset)
	if err != nil {
		diag.ShowError(fds[2], err)
		return prog.Exit(2)
	}
	fallback, err := loadOptional(f.Fallback)
	if err != nil {
		diag.ShowError(fds[2], err)
		return prog.Exit(2)
	}

	merged, err := scope.EvaluateChain(scopes, fixed, preset, fallback)
	if err != nil {
		diag.ShowError(fds[2], err)
		return prog.Exit(1)
	}

	var out any = merged
	if f.Audit || f.Fingerprint {
		doc := map[string]any{"config": merged}
		if f.Audit {
			doc["audit"] = audit(scopes)
		}
		if f.Fingerprint {
			fp, err := scope.Snapshot(merged).Fingerprint()
			if err != nil {
				diag.ShowError(fds[2], err)
				return prog.Exit(1)
			}
			doc["fingerprint"] = fp
		}
		out = doc
	}
	if err := cfgfile.Encode(fds[1], out, format); err != nil {
		diag.ShowError(fds[2], err)
		return prog.Exit(1)
	}
	return nil
}

func parseFixed(assignments []string) (map[string]any, error) {
	fixed := map[string]any{}
	for _, a := range assignments {
		key, value, err := cfgfile.ParseAssignment(a)
		if err != nil {
			return nil, err
		}
		cfgfile.Assign(fixed, key, value)
	}
	return fixed, nil
}

func loadOptional(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	return cfgfile.Load(path)
}

// Returns the audit entries of evaluated scopes, in order.
func audit(scopes []*scope.Scope) []any {
	entries := make([]any, len(scopes))
	for i, s := range scopes {
		changes := map[string]any{}
		for k, c := range s.TypeChanges() {
			changes[k] = map[string]any{"from": c.From, "to": c.To}
		}
		entries[i] = map[string]any{
			"scope":       s.Name(),
			"added":       toList(s.AddedValues()),
			"typechanges": changes,
			"dropped":     toList(s.Dropped()),
		}
	}
	return entries
}

func toList(ss []string) []any {
	l := make([]any, len(ss))
	for i, s := range ss {
		l[i] = s
	}
	return l
}
