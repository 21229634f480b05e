package parse

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump returns a compact s-expression form of a node, for debugging and
// testing. Ranges are not included.
func Dump(n Node) string {
	var sb strings.Builder
	dump(&sb, n)
	return sb.String()
}

func dump(sb *strings.Builder, n Node) {
	w := func(format string, args ...any) { fmt.Fprintf(sb, format, args...) }
	switch n := n.(type) {
	case nil:
		w("<nil>")
	case *Chunk:
		w("(chunk")
		for _, s := range n.Stmts {
			w(" ")
			dump(sb, s)
		}
		w(")")
	case *ScopeDecl:
		w("(scope %s (", n.Name.Name)
		for i, p := range n.Params {
			if i > 0 {
				w(" ")
			}
			dump(sb, p)
		}
		w(") ")
		dump(sb, n.Body)
		w(")")
	case *Param:
		switch {
		case n.Variadic:
			w("...%s", n.Name)
		case n.Keyword:
			w("**%s", n.Name)
		default:
			w("%s", n.Name)
		}
		if n.Default != nil {
			w("=")
			dump(sb, n.Default)
		}
	case *Assign:
		op := "="
		if n.Op != "=" {
			op = n.Op + "="
		}
		w("(%s ", op)
		dump(sb, n.Target)
		w(" ")
		dump(sb, n.Value)
		w(")")
	case *If:
		w("(if")
		for _, b := range n.Branches {
			w(" ")
			dump(sb, b.Cond)
			w(" ")
			dump(sb, b.Body)
		}
		if n.Else != nil {
			w(" else ")
			dump(sb, n.Else)
		}
		w(")")
	case *For:
		w("(for %s", n.Key.Name)
		if n.Value != nil {
			w(",%s", n.Value.Name)
		}
		w(" ")
		dump(sb, n.Iter)
		w(" ")
		dump(sb, n.Body)
		w(")")
	case *While:
		w("(while ")
		dump(sb, n.Cond)
		w(" ")
		dump(sb, n.Body)
		w(")")
	case *Break:
		w("(break)")
	case *Continue:
		w("(continue)")
	case *Return:
		w("(return")
		if n.Value != nil {
			w(" ")
			dump(sb, n.Value)
		}
		w(")")
	case *FnDecl:
		w("(fn %s (", n.Name.Name)
		for i, p := range n.Params {
			if i > 0 {
				w(" ")
			}
			w("%s", p.Name)
		}
		w(") ")
		dump(sb, n.Body)
		w(")")
	case *ExprStmt:
		dump(sb, n.X)
	case *Ident:
		w("%s", n.Name)
	case *Literal:
		switch v := n.Value.(type) {
		case nil:
			w("null")
		case string:
			w("%s", Quote(v))
		case float64:
			w("%s", strconv.FormatFloat(v, 'g', -1, 64))
		default:
			w("%v", v)
		}
	case *ListExpr:
		w("[")
		for i, e := range n.Elems {
			if i > 0 {
				w(" ")
			}
			dump(sb, e)
		}
		w("]")
	case *MapExpr:
		w("{")
		for i, p := range n.Pairs {
			if i > 0 {
				w(" ")
			}
			w("%s:", QuoteKey(p.Key))
			dump(sb, p.Value)
		}
		w("}")
	case *IndexExpr:
		w("(index ")
		dump(sb, n.X)
		w(" ")
		dump(sb, n.Index)
		w(")")
	case *FieldExpr:
		w("(. ")
		dump(sb, n.X)
		w(" %s)", n.Name)
	case *CallExpr:
		w("(call ")
		dump(sb, n.Fn)
		for _, a := range n.Args {
			w(" ")
			dump(sb, a)
		}
		w(")")
	case *UnaryExpr:
		w("(%s ", n.Op)
		dump(sb, n.X)
		w(")")
	case *BinaryExpr:
		w("(%s ", n.Op)
		dump(sb, n.X)
		w(" ")
		dump(sb, n.Y)
		w(")")
	default:
		w("<%T>", n)
	}
}
