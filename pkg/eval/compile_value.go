package eval

import (
	"github.com/dr-dahou-adrar/sacred/pkg/diag"
	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
	"github.com/dr-dahou-adrar/sacred/pkg/parse"
)

// An operation that produces a value.
type valueOp interface {
	diag.Ranger
	eval(*Frame) (any, error)
}

func (cp *compiler) valueOp(n parse.Expr) valueOp {
	switch n := n.(type) {
	case *parse.Literal:
		return &literalOp{n.Range(), n.Value}
	case *parse.Ident:
		return &varOp{n.Range(), n.Name}
	case *parse.ListExpr:
		return &listOp{n.Range(), cp.valueOps(n.Elems)}
	case *parse.MapExpr:
		op := &mapOp{Ranging: n.Range()}
		seen := make(map[string]bool)
		for _, p := range n.Pairs {
			if seen[p.Key] {
				cp.errorpf(p, "duplicate key %s in map literal", parse.QuoteKey(p.Key))
			}
			seen[p.Key] = true
			op.keys = append(op.keys, p.Key)
			op.values = append(op.values, cp.valueOp(p.Value))
		}
		return op
	case *parse.IndexExpr:
		return &indexOp{n.Range(), cp.valueOp(n.X), cp.valueOp(n.Index)}
	case *parse.FieldExpr:
		return &indexOp{n.Range(), cp.valueOp(n.X), &literalOp{n.Range(), n.Name}}
	case *parse.CallExpr:
		return &callOp{n.Range(), cp.valueOp(n.Fn), cp.valueOps(n.Args)}
	case *parse.UnaryExpr:
		return &unaryOp{n.Range(), n.Op, cp.valueOp(n.X)}
	case *parse.BinaryExpr:
		x, y := cp.valueOp(n.X), cp.valueOp(n.Y)
		switch n.Op {
		case "&&", "||":
			return &logicOp{n.Range(), n.Op == "&&", x, y}
		}
		return &binaryOp{n.Range(), n.Op, x, y}
	}
	cp.errorpf(n, "unsupported expression %T", n)
	return nil
}

func (cp *compiler) valueOps(ns []parse.Expr) []valueOp {
	ops := make([]valueOp, len(ns))
	for i, n := range ns {
		ops[i] = cp.valueOp(n)
	}
	return ops
}

func evalAll(fm *Frame, ops []valueOp) ([]any, error) {
	values := make([]any, len(ops))
	for i, op := range ops {
		v, err := op.eval(fm)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

type literalOp struct {
	diag.Ranging
	value any
}

func (op *literalOp) eval(*Frame) (any, error) { return op.value, nil }

type varOp struct {
	diag.Ranging
	name string
}

func (op *varOp) eval(fm *Frame) (any, error) {
	v, err := fm.Resolve(op.name)
	return v, fm.errorp(op, err)
}

type listOp struct {
	diag.Ranging
	elems []valueOp
}

func (op *listOp) eval(fm *Frame) (any, error) {
	values, err := evalAll(fm, op.elems)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		values[i] = vals.Copy(v)
	}
	return values, nil
}

type mapOp struct {
	diag.Ranging
	keys   []string
	values []valueOp
}

func (op *mapOp) eval(fm *Frame) (any, error) {
	values, err := evalAll(fm, op.values)
	if err != nil {
		return nil, err
	}
	m := make(map[string]any, len(op.keys))
	for i, k := range op.keys {
		m[k] = vals.Copy(values[i])
	}
	return m, nil
}

type indexOp struct {
	diag.Ranging
	x     valueOp
	index valueOp
}

func (op *indexOp) eval(fm *Frame) (any, error) {
	x, err := op.x.eval(fm)
	if err != nil {
		return nil, err
	}
	k, err := op.index.eval(fm)
	if err != nil {
		return nil, err
	}
	v, err := vals.Index(x, k)
	return v, fm.errorp(op, err)
}

type callOp struct {
	diag.Ranging
	fn   valueOp
	args []valueOp
}

func (op *callOp) eval(fm *Frame) (any, error) {
	fn, err := op.fn.eval(fm)
	if err != nil {
		return nil, err
	}
	callable, ok := fn.(Callable)
	if !ok {
		return nil, fm.errorpf(op.fn, "cannot call %s", vals.TypeName(fn))
	}
	args, err := evalAll(fm, op.args)
	if err != nil {
		return nil, err
	}
	if fm.depth >= MaxCallDepth {
		return nil, fm.errorp(op, ErrCallDepth)
	}
	v, err := callable.Call(fm.fork(op), args)
	return v, fm.errorp(op, err)
}

type unaryOp struct {
	diag.Ranging
	op string
	x  valueOp
}

func (op *unaryOp) eval(fm *Frame) (any, error) {
	if op.op == "!" {
		b, err := evalCond(fm, op.x, "operand of !")
		if err != nil {
			return nil, err
		}
		return !b, nil
	}
	x, err := op.x.eval(fm)
	if err != nil {
		return nil, err
	}
	v, err := negate(x)
	return v, fm.errorp(op, err)
}

type logicOp struct {
	diag.Ranging
	and  bool
	x, y valueOp
}

func (op *logicOp) eval(fm *Frame) (any, error) {
	what := "operand of ||"
	if op.and {
		what = "operand of &&"
	}
	x, err := evalCond(fm, op.x, what)
	if err != nil {
		return nil, err
	}
	if x != op.and {
		// false && y is false; true || y is true.
		return x, nil
	}
	return evalCond(fm, op.y, what)
}

type binaryOp struct {
	diag.Ranging
	op   string
	x, y valueOp
}

func (op *binaryOp) eval(fm *Frame) (any, error) {
	x, err := op.x.eval(fm)
	if err != nil {
		return nil, err
	}
	y, err := op.y.eval(fm)
	if err != nil {
		return nil, err
	}
	v, err := binary(op.op, x, y)
	return v, fm.errorp(op, err)
}
