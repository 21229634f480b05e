package eval

import (
	"fmt"

	"github.com/dr-dahou-adrar/sacred/pkg/diag"
	"github.com/dr-dahou-adrar/sacred/pkg/eval/errs"
	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
	"github.com/dr-dahou-adrar/sacred/pkg/parse"
)

// An assignment target: a name followed by zero or more keys, like a,
// a.b or a[0].b.
type lvalue struct {
	diag.Ranging
	root string
	keys []valueOp
}

func (cp *compiler) lvalue(n parse.Expr) *lvalue {
	lv := &lvalue{Ranging: n.Range()}
	var keys []valueOp
	for {
		switch m := n.(type) {
		case *parse.Ident:
			lv.root = m.Name
			// Keys were collected from the outermost.
			for i := len(keys) - 1; i >= 0; i-- {
				lv.keys = append(lv.keys, keys[i])
			}
			return lv
		case *parse.FieldExpr:
			keys = append(keys, &literalOp{m.Range(), m.Name})
			n = m.X
		case *parse.IndexExpr:
			keys = append(keys, cp.valueOp(m.Index))
			n = m.X
		default:
			cp.errorpf(lv, "invalid assignment target")
		}
	}
}

func (lv *lvalue) evalKeys(fm *Frame) ([]any, error) {
	return evalAll(fm, lv.keys)
}

// Returns the current value of the target.
func (lv *lvalue) get(fm *Frame, keys []any) (any, error) {
	v, err := fm.Resolve(lv.root)
	if err != nil {
		return nil, fm.errorp(lv, err)
	}
	for i, k := range keys {
		v, err = vals.Index(v, k)
		if err != nil {
			return nil, fm.errorp(lv.keys[i], err)
		}
	}
	return v, nil
}

func (lv *lvalue) set(fm *Frame, keys []any, v any) error {
	if len(keys) == 0 {
		return fm.assign(lv.root, v)
	}
	root, err := fm.Resolve(lv.root)
	if err != nil {
		return err
	}
	newRoot, replaced, err := setPath(root, keys, vals.Copy(v))
	if err != nil {
		return err
	}
	if replaced {
		return fm.assign(lv.root, newRoot)
	}
	return nil
}

// Assigns v at the path of keys inside a container. Maps are modified in
// place, and lists are copied. The returned bool is true when the container
// was copied, in which case the caller must store the new one.
func setPath(container any, keys []any, v any) (any, bool, error) {
	k := keys[0]
	switch c := container.(type) {
	case []any:
		i, err := vals.ListIndex(k, len(c))
		if err != nil {
			return nil, false, err
		}
		newList := make([]any, len(c))
		copy(newList, c)
		if len(keys) == 1 {
			newList[i] = v
		} else {
			elem, _, err := setPath(vals.Copy(c[i]), keys[1:], v)
			if err != nil {
				return nil, false, err
			}
			newList[i] = elem
		}
		return newList, true, nil
	case vals.Dict, map[string]any:
		ks, ok := k.(string)
		if !ok {
			return nil, false, errs.BadValue{What: "map key", Valid: "string", Actual: vals.TypeName(k)}
		}
		if len(keys) == 1 {
			setKey(c, ks, v)
			return c, false, nil
		}
		child, ok := vals.IndexKey(c, ks)
		if !ok {
			return nil, false, vals.NoSuchKeyError{Key: ks}
		}
		newChild, replaced, err := setPath(child, keys[1:], v)
		if err != nil {
			return nil, false, err
		}
		if replaced {
			setKey(c, ks, newChild)
		}
		return c, false, nil
	}
	return nil, false, fmt.Errorf("cannot assign to element of %s", vals.TypeName(container))
}

func setKey(m any, k string, v any) {
	switch m := m.(type) {
	case vals.Dict:
		m.SetKey(k, v)
	case map[string]any:
		m[k] = v
	}
}
