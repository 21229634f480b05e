package eval

import (
	"github.com/dr-dahou-adrar/sacred/pkg/diag"
	"github.com/dr-dahou-adrar/sacred/pkg/eval/errs"
	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
	"github.com/dr-dahou-adrar/sacred/pkg/parse"
)

// Closure is a function defined with fn. Each Closure has its unique
// identity.
type Closure struct {
	Name     string
	Params   []string
	Src      parse.Source
	DefRange diag.Ranging
	op       effectOp
	captured *locals
}

var _ Callable = &Closure{}

// Kind returns "fn".
func (*Closure) Kind() string { return "fn" }

// Repr returns an opaque representation "<fn name>".
func (c *Closure) Repr() string { return "<fn " + c.Name + ">" }

// Equal compares by address.
func (c *Closure) Equal(rhs any) bool { return c == rhs }

// Call calls a closure. Parameters and variables assigned in the body are
// local to the call; other names are resolved in the captured locals, then
// the namespace of the frame.
func (c *Closure) Call(fm *Frame, args []any) (any, error) {
	if len(args) != len(c.Params) {
		return nil, errs.ArityMismatch{What: "arguments of " + c.Name,
			ValidLow: len(c.Params), ValidHigh: len(c.Params), Actual: len(args)}
	}
	local := &locals{make(map[string]any, len(args)), c.captured}
	for i, name := range c.Params {
		local.vars[name] = vals.Copy(args[i])
	}
	newFm := *fm
	newFm.src = c.Src
	newFm.local = local
	err := c.op.exec(&newFm)
	if ret, ok := err.(*returnFlow); ok {
		return ret.value, nil
	}
	return nil, err
}
