// Package eval compiles and runs code of the scope language.
//
// Code is first compiled into a Program, a tree of operations that keeps the
// source ranges of the nodes it was compiled from. A Program runs against a
// Namespace, which is where names are read and assigned; names not defined
// there resolve to the builtins of the Evaler.
package eval

import (
	"sort"

	"github.com/dr-dahou-adrar/sacred/pkg/diag"
	"github.com/dr-dahou-adrar/sacred/pkg/parse"
)

// Evaler holds the builtin functions available to programs.
//
// Programs compiled by an Evaler read its builtins when they run, so the
// builtins should not be changed while a Program is running.
type Evaler struct {
	builtins map[string]Callable
}

// NewEvaler creates a new Evaler with the default builtin functions.
func NewEvaler() *Evaler {
	builtins := make(map[string]Callable, len(builtinFns))
	for name, fn := range builtinFns {
		builtins[name] = fn
	}
	return &Evaler{builtins}
}

// AddBuiltin adds or replaces a builtin function. If impl is not a Callable,
// it is wrapped with NewGoFn.
func (ev *Evaler) AddBuiltin(name string, impl any) {
	if c, ok := impl.(Callable); ok {
		ev.builtins[name] = c
		return
	}
	ev.builtins[name] = NewGoFn(name, impl)
}

// Builtins returns the sorted names of all builtin functions.
func (ev *Evaler) Builtins() []string {
	names := make([]string, 0, len(ev.builtins))
	for name := range ev.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compile parses and compiles a source. The error is a diag.MultiError of
// parse errors, or a *CompilationError.
func (ev *Evaler) Compile(src parse.Source) (*Program, error) {
	chunk, err := parse.Parse(src)
	if err != nil {
		return nil, err
	}
	return ev.CompileChunk(src, chunk)
}

// CompileChunk compiles a chunk parsed from a source.
func (ev *Evaler) CompileChunk(src parse.Source, chunk *parse.Chunk) (*Program, error) {
	op, err := compile(src, chunk)
	if err != nil {
		return nil, err
	}
	return &Program{ev, src, chunk.Range(), op}, nil
}

// Eval compiles and runs a source against ns.
func (ev *Evaler) Eval(src parse.Source, ns Namespace) error {
	p, err := ev.Compile(src)
	if err != nil {
		return err
	}
	return p.Run(ns)
}

// Program is compiled code. It has no mutable state and can be run any
// number of times, including concurrently against different namespaces.
type Program struct {
	ev  *Evaler
	src parse.Source
	rng diag.Ranging
	op  effectOp
}

// Source returns the source the program was compiled from.
func (p *Program) Source() parse.Source { return p.src }

// Range returns the range of the source the program was compiled from.
func (p *Program) Range() diag.Ranging { return p.rng }

// Run runs the program against ns. Errors raised by the program are returned
// as Exception values, which wrap the underlying error.
func (p *Program) Run(ns Namespace) error {
	fm := &Frame{Evaler: p.ev, ns: ns, src: p.src}
	return p.op.exec(fm)
}
