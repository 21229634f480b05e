package eval

import (
	"errors"
	"fmt"

	"github.com/dr-dahou-adrar/sacred/pkg/diag"
	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
	"github.com/dr-dahou-adrar/sacred/pkg/parse"
)

// MaxCallDepth is the maximum depth of nested function calls.
const MaxCallDepth = 1000

// ErrCallDepth is the reason of the exception thrown when MaxCallDepth is
// exceeded.
var ErrCallDepth = errors.New("maximum call depth exceeded")

// Frame is the runtime context of running a piece of scope code.
type Frame struct {
	Evaler *Evaler

	ns    Namespace
	src   parse.Source
	local *locals
	// Stack of call sites.
	traceback *StackTrace
	depth     int
}

// Local variables of a function call. Lookup continues in up, the locals of
// the enclosing function.
type locals struct {
	vars map[string]any
	up   *locals
}

// Namespace returns the namespace the frame runs against.
func (fm *Frame) Namespace() Namespace { return fm.ns }

// Resolve looks up a name: first in the local variables of enclosing
// functions, then in the namespace, and finally among the builtins.
func (fm *Frame) Resolve(name string) (any, error) {
	for l := fm.local; l != nil; l = l.up {
		if v, ok := l.vars[name]; ok {
			return v, nil
		}
	}
	v, err := fm.ns.Get(name)
	if err == nil {
		return v, nil
	}
	var notFound *NameNotFoundError
	if errors.As(err, &notFound) {
		if fn, ok := fm.Evaler.builtins[name]; ok {
			return fn, nil
		}
	}
	return nil, err
}

// Assigns a name. Inside a function this creates or updates a local
// variable; otherwise it goes to the namespace.
func (fm *Frame) assign(name string, v any) error {
	if fm.local != nil {
		fm.local.vars[name] = vals.Copy(v)
		return nil
	}
	return fm.ns.Set(name, v)
}

// Returns a frame for calling a function at the given call site.
func (fm *Frame) fork(r diag.Ranger) *Frame {
	newFm := *fm
	newFm.traceback = fm.addTraceback(r)
	newFm.depth++
	return &newFm
}

func (fm *Frame) addTraceback(r diag.Ranger) *StackTrace {
	return &StackTrace{
		Head: diag.NewContext(fm.src.Name, fm.src.Code, r.Range()),
		Next: fm.traceback,
	}
}

// Returns an Exception with the specified range and cause. Exceptions and
// control flow errors are returned as is.
func (fm *Frame) errorp(r diag.Ranger, e error) error {
	switch e := e.(type) {
	case nil:
		return nil
	case Exception, flow, *returnFlow:
		return e
	default:
		return &exception{e, fm.addTraceback(r)}
	}
}

// Returns an Exception with specified range and error text.
func (fm *Frame) errorpf(r diag.Ranger, format string, args ...any) error {
	return fm.errorp(r, fmt.Errorf(format, args...))
}

// Control flow errors. They never escape a compiled Program, since the
// compiler only accepts them inside loops and functions.
type flow uint8

const (
	breakFlow flow = iota
	continueFlow
)

func (f flow) Error() string {
	if f == breakFlow {
		return "break"
	}
	return "continue"
}

type returnFlow struct {
	value any
}

func (*returnFlow) Error() string { return "return" }
