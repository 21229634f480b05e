package eval

import (
	"github.com/dr-dahou-adrar/sacred/pkg/diag"
	"github.com/dr-dahou-adrar/sacred/pkg/eval/errs"
	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
	"github.com/dr-dahou-adrar/sacred/pkg/parse"
)

// An operation that produces side effects.
type effectOp interface {
	exec(*Frame) error
}

func (cp *compiler) chunkOp(n *parse.Chunk) effectOp {
	ops := make([]effectOp, len(n.Stmts))
	for i, stmt := range n.Stmts {
		ops[i] = cp.stmtOp(stmt)
	}
	return chunkOp{ops}
}

type chunkOp struct {
	stmts []effectOp
}

func (op chunkOp) exec(fm *Frame) error {
	for _, stmt := range op.stmts {
		if err := stmt.exec(fm); err != nil {
			return err
		}
	}
	return nil
}

func (cp *compiler) stmtOp(n parse.Stmt) effectOp {
	switch n := n.(type) {
	case *parse.Assign:
		return cp.assignOp(n)
	case *parse.If:
		return cp.ifOp(n)
	case *parse.For:
		return cp.forOp(n)
	case *parse.While:
		return cp.whileOp(n)
	case *parse.Break:
		if cp.loops == 0 {
			cp.errorpf(n, "break outside of loop")
		}
		return flowOp{breakFlow}
	case *parse.Continue:
		if cp.loops == 0 {
			cp.errorpf(n, "continue outside of loop")
		}
		return flowOp{continueFlow}
	case *parse.Return:
		if cp.fns == 0 {
			cp.errorpf(n, "return outside of fn")
		}
		var v valueOp
		if n.Value != nil {
			v = cp.valueOp(n.Value)
		}
		return returnOp{v}
	case *parse.FnDecl:
		return cp.fnDeclOp(n)
	case *parse.ScopeDecl:
		cp.errorpf(n, "scope declaration only allowed at the top level of a file")
	case *parse.ExprStmt:
		return exprStmtOp{cp.valueOp(n.X)}
	}
	cp.errorpf(n, "unsupported statement %T", n)
	return nil
}

type exprStmtOp struct {
	value valueOp
}

func (op exprStmtOp) exec(fm *Frame) error {
	_, err := op.value.eval(fm)
	return err
}

func (cp *compiler) assignOp(n *parse.Assign) effectOp {
	return &assignOp{n.Range(), cp.lvalue(n.Target), n.Op, cp.valueOp(n.Value)}
}

type assignOp struct {
	diag.Ranging
	target *lvalue
	// "=", or the arithmetic operator of a compound assignment.
	op    string
	value valueOp
}

func (op *assignOp) exec(fm *Frame) error {
	keys, err := op.target.evalKeys(fm)
	if err != nil {
		return err
	}
	v, err := op.value.eval(fm)
	if err != nil {
		return err
	}
	if op.op != "=" {
		old, err := op.target.get(fm, keys)
		if err != nil {
			return err
		}
		v, err = arith(op.op, old, v)
		if err != nil {
			return fm.errorp(op, err)
		}
	}
	return fm.errorp(op.target, op.target.set(fm, keys, v))
}

func (cp *compiler) ifOp(n *parse.If) effectOp {
	op := &ifOp{}
	for _, b := range n.Branches {
		op.conds = append(op.conds, cp.valueOp(b.Cond))
		op.bodies = append(op.bodies, cp.chunkOp(b.Body))
	}
	if n.Else != nil {
		op.els = cp.chunkOp(n.Else)
	}
	return op
}

type ifOp struct {
	conds  []valueOp
	bodies []effectOp
	els    effectOp
}

func (op *ifOp) exec(fm *Frame) error {
	for i, cond := range op.conds {
		ok, err := evalCond(fm, cond, "condition")
		if err != nil {
			return err
		}
		if ok {
			return op.bodies[i].exec(fm)
		}
	}
	if op.els != nil {
		return op.els.exec(fm)
	}
	return nil
}

// Evaluates an operand that must be a bool.
func evalCond(fm *Frame, op valueOp, what string) (bool, error) {
	v, err := op.eval(fm)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fm.errorp(op, errs.BadValue{What: what, Valid: "bool", Actual: vals.TypeName(v)})
	}
	return b, nil
}

func (cp *compiler) forOp(n *parse.For) effectOp {
	op := &forOp{Ranging: n.Range(), key: n.Key.Name, iter: cp.valueOp(n.Iter)}
	if n.Value != nil {
		op.value = n.Value.Name
	}
	cp.loops++
	op.body = cp.chunkOp(n.Body)
	cp.loops--
	return op
}

type forOp struct {
	diag.Ranging
	key   string
	value string
	iter  valueOp
	body  effectOp
}

func (op *forOp) exec(fm *Frame) error {
	iterable, err := op.iter.eval(fm)
	if err != nil {
		return err
	}
	// Pairs of index or key and element. In the single-variable form, the
	// variable gets the element of lists and strings, and the key of maps.
	var pairs [][2]any
	single := 1
	switch v := iterable.(type) {
	case []any:
		for i, e := range vals.Copy(v).([]any) {
			pairs = append(pairs, [2]any{i, e})
		}
	case string:
		i := 0
		for _, r := range v {
			pairs = append(pairs, [2]any{i, string(r)})
			i++
		}
	default:
		keys, ok := vals.SortedKeys(v)
		if !ok {
			return fm.errorpf(op.iter, "cannot iterate %s", vals.TypeName(v))
		}
		for _, k := range keys {
			e, _ := vals.IndexKey(v, k)
			pairs = append(pairs, [2]any{k, vals.Copy(e)})
		}
		single = 0
	}
	for _, pair := range pairs {
		var err error
		if op.value == "" {
			err = fm.assign(op.key, pair[single])
		} else if err = fm.assign(op.key, pair[0]); err == nil {
			err = fm.assign(op.value, pair[1])
		}
		if err != nil {
			return fm.errorp(op, err)
		}
		err = op.body.exec(fm)
		switch err {
		case nil, continueFlow:
		case breakFlow:
			return nil
		default:
			return err
		}
	}
	return nil
}

func (cp *compiler) whileOp(n *parse.While) effectOp {
	op := &whileOp{cond: cp.valueOp(n.Cond)}
	cp.loops++
	op.body = cp.chunkOp(n.Body)
	cp.loops--
	return op
}

type whileOp struct {
	cond valueOp
	body effectOp
}

func (op *whileOp) exec(fm *Frame) error {
	for {
		ok, err := evalCond(fm, op.cond, "condition")
		if err != nil || !ok {
			return err
		}
		err = op.body.exec(fm)
		switch err {
		case nil, continueFlow:
		case breakFlow:
			return nil
		default:
			return err
		}
	}
}

type flowOp struct {
	flow flow
}

func (op flowOp) exec(*Frame) error { return op.flow }

type returnOp struct {
	value valueOp
}

func (op returnOp) exec(fm *Frame) error {
	if op.value == nil {
		return &returnFlow{nil}
	}
	v, err := op.value.eval(fm)
	if err != nil {
		return err
	}
	return &returnFlow{v}
}

func (cp *compiler) fnDeclOp(n *parse.FnDecl) effectOp {
	params := make([]string, len(n.Params))
	seen := make(map[string]bool)
	for i, p := range n.Params {
		if seen[p.Name] {
			cp.errorpf(p, "duplicate parameter %s", p.Name)
		}
		seen[p.Name] = true
		params[i] = p.Name
	}
	savedLoops := cp.loops
	cp.loops = 0
	cp.fns++
	body := cp.chunkOp(n.Body)
	cp.fns--
	cp.loops = savedLoops
	return &fnDeclOp{n.Range(), n.Name.Name, params, body}
}

type fnDeclOp struct {
	diag.Ranging
	name   string
	params []string
	body   effectOp
}

func (op *fnDeclOp) exec(fm *Frame) error {
	c := &Closure{
		Name: op.name, Params: op.params,
		Src: fm.src, DefRange: op.Ranging,
		op: op.body, captured: fm.local}
	return fm.errorp(op, fm.assign(op.name, c))
}
