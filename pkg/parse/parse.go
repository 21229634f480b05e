// Package parse implements the parser of the scope language.
//
// Source code is first split into tokens, which are then parsed into a tree of
// nodes by recursive descent. Every node records the range of source text it
// was parsed from, so that later errors can point back to the source.
//
// Parse errors do not stop parsing: the parser skips to the end of the
// offending statement and continues, so that all errors of a source are
// reported at once.
package parse

import (
	"math"

	"github.com/dr-dahou-adrar/sacred/pkg/diag"
)

// Node is implemented by all nodes.
type Node interface {
	diag.Ranger
}

// Stmt is a statement node.
type Stmt interface {
	Node
	isStmt()
}

// Expr is an expression node.
type Expr interface {
	Node
	isExpr()
}

// Chunk is a sequence of statements: a whole source, or a block.
type Chunk struct {
	diag.Ranging
	Stmts []Stmt
}

// ScopeDecl = 'scope' Ident '(' [ Param { ',' Param } ] ')' Block
type ScopeDecl struct {
	diag.Ranging
	Name   *Ident
	Params []*Param
	Body   *Chunk
}

// Param is a parameter of a scope declaration. The parser accepts variadic,
// keyword catch-all and default-valued parameters so that they can be rejected
// with a precise message when the scope is constructed.
type Param struct {
	diag.Ranging
	Name string
	// Declared as ...name.
	Variadic bool
	// Declared as **name.
	Keyword bool
	// Declared as name = expr.
	Default Expr
}

// Assign = Expr ( '=' | '+=' | '-=' | '*=' | '/=' | '%=' ) Expr
type Assign struct {
	diag.Ranging
	Target Expr
	// Op is "=" for plain assignments, or the arithmetic operator for
	// compound assignments, like "+" for "+=".
	Op    string
	Value Expr
}

// If = 'if' Expr Block { 'else' 'if' Expr Block } [ 'else' Block ]
type If struct {
	diag.Ranging
	Branches []*Branch
	Else     *Chunk
}

// Branch is a conditional branch of an If.
type Branch struct {
	diag.Ranging
	Cond Expr
	Body *Chunk
}

// For = 'for' Ident [ ',' Ident ] 'in' Expr Block
type For struct {
	diag.Ranging
	Key *Ident
	// Value is nil in the single-variable form.
	Value *Ident
	Iter  Expr
	Body  *Chunk
}

// While = 'while' Expr Block
type While struct {
	diag.Ranging
	Cond Expr
	Body *Chunk
}

// Break = 'break'
type Break struct{ diag.Ranging }

// Continue = 'continue'
type Continue struct{ diag.Ranging }

// Return = 'return' [ Expr ]
type Return struct {
	diag.Ranging
	Value Expr
}

// FnDecl = 'fn' Ident '(' [ Ident { ',' Ident } ] ')' Block
type FnDecl struct {
	diag.Ranging
	Name   *Ident
	Params []*Ident
	Body   *Chunk
}

// ExprStmt is an expression evaluated for its effect, usually a call.
type ExprStmt struct {
	diag.Ranging
	X Expr
}

// Ident is a name.
type Ident struct {
	diag.Ranging
	Name string
}

// Literal is a null, bool, int, float64 or string constant.
type Literal struct {
	diag.Ranging
	Value any
}

// ListExpr = '[' [ Expr { ',' Expr } [ ',' ] ] ']'
type ListExpr struct {
	diag.Ranging
	Elems []Expr
}

// MapExpr = '{' [ Pair { ',' Pair } [ ',' ] ] '}'
type MapExpr struct {
	diag.Ranging
	Pairs []*Pair
}

// Pair = ( Ident | String ) ':' Expr
type Pair struct {
	diag.Ranging
	Key   string
	Value Expr
}

// IndexExpr = Expr '[' Expr ']'
type IndexExpr struct {
	diag.Ranging
	X     Expr
	Index Expr
}

// FieldExpr = Expr '.' Ident
type FieldExpr struct {
	diag.Ranging
	X    Expr
	Name string
}

// CallExpr = Expr '(' [ Expr { ',' Expr } [ ',' ] ] ')'
type CallExpr struct {
	diag.Ranging
	Fn   Expr
	Args []Expr
}

// UnaryExpr = ( '-' | '!' ) Expr
type UnaryExpr struct {
	diag.Ranging
	Op string
	X  Expr
}

// BinaryExpr = Expr Op Expr
type BinaryExpr struct {
	diag.Ranging
	Op string
	X  Expr
	Y  Expr
}

func (*ScopeDecl) isStmt() {}
func (*Assign) isStmt()    {}
func (*If) isStmt()        {}
func (*For) isStmt()       {}
func (*While) isStmt()     {}
func (*Break) isStmt()     {}
func (*Continue) isStmt()  {}
func (*Return) isStmt()    {}
func (*FnDecl) isStmt()    {}
func (*ExprStmt) isStmt()  {}

func (*Ident) isExpr()      {}
func (*Literal) isExpr()    {}
func (*ListExpr) isExpr()   {}
func (*MapExpr) isExpr()    {}
func (*IndexExpr) isExpr()  {}
func (*FieldExpr) isExpr()  {}
func (*CallExpr) isExpr()   {}
func (*UnaryExpr) isExpr()  {}
func (*BinaryExpr) isExpr() {}

// Errors.
var (
	errShouldBeStmtEnd      = newError("", "newline", "';'")
	errShouldBeIdent        = newError("", "identifier")
	errShouldBeParam        = newError("", "parameter name")
	errShouldBePrimary      = newError("", "literal", "identifier", "'('", "'['", "'{'")
	errShouldBeMapKey       = newError("", "identifier", "string")
	errShouldBeBlock        = newError("", "'{'")
	errShouldBeIn           = newError("", "'in'")
	errChainedComparison    = newError("comparison operators cannot be chained")
	errMapInHeader          = newError("map literal must be parenthesized here")
	errUnexpectedCloseBrace = newError("unexpected '}'")
)

// Parse parses the given source. The returned error, if not nil, is a
// diag.MultiError of parse errors. The returned Chunk is never nil, even when
// there are errors.
func Parse(src Source) (*Chunk, error) {
	ps := &parser{src: src}
	ps.tokens = lex(src.Code, ps.errorp)
	chunk := ps.chunk(true)
	return chunk, ps.assembleError()
}

// chunk parses statements until EOF, or '}' when top is false.
func (ps *parser) chunk(top bool) *Chunk {
	c := &Chunk{Ranging: diag.PointRanging(ps.peek().From)}
	for {
		ps.skipNewlines()
		t := ps.peek()
		if t.Type == EOF {
			break
		}
		if t.is(Op, "}") {
			if !top {
				break
			}
			ps.errorp(t, errUnexpectedCloseBrace)
			ps.next()
			continue
		}
		nerr, start := len(ps.errors), ps.pos
		stmt := ps.stmt()
		if stmt != nil {
			c.Stmts = append(c.Stmts, stmt)
		}
		if len(ps.errors) > nerr {
			ps.sync()
			if ps.pos == start {
				// Make progress on a token that no statement can start with.
				ps.next()
			}
			continue
		}
		if t := ps.peek(); t.Type != Newline && t.Type != EOF && !(t.is(Op, "}") && !top) {
			ps.errorAtPeek(errShouldBeStmtEnd)
			ps.sync()
		}
	}
	c.To = ps.prev().To
	if c.To < c.From {
		c.To = c.From
	}
	return c
}

// block parses a '{' chunk '}' sequence.
func (ps *parser) block() *Chunk {
	if !ps.isOp("{") {
		ps.errorAtPeek(errShouldBeBlock)
		return &Chunk{Ranging: diag.PointRanging(ps.peek().From)}
	}
	begin := ps.next().From
	c := ps.chunk(false)
	ps.expectOp("}")
	c.Ranging = diag.Ranging{From: begin, To: ps.prev().To}
	return c
}

func (ps *parser) stmt() Stmt {
	t := ps.peek()
	if t.Type == Keyword {
		switch t.Text {
		case "scope":
			return ps.scopeDecl()
		case "fn":
			return ps.fnDecl()
		case "if":
			return ps.ifStmt()
		case "for":
			return ps.forStmt()
		case "while":
			return ps.whileStmt()
		case "break":
			return &Break{ps.next().Ranging}
		case "continue":
			return &Continue{ps.next().Ranging}
		case "return":
			r := &Return{Ranging: ps.next().Ranging}
			if u := ps.peek(); u.Type != Newline && u.Type != EOF && !u.is(Op, "}") {
				r.Value = ps.expr()
				r.To = r.Value.Range().To
			}
			return r
		}
	}

	x := ps.expr()
	if u := ps.peek(); u.Type == Op {
		switch u.Text {
		case "=", "+=", "-=", "*=", "/=", "%=":
			ps.next()
			ps.skipNewlines()
			op := "="
			if u.Text != "=" {
				op = u.Text[:len(u.Text)-1]
			}
			value := ps.expr()
			return &Assign{diag.MixedRanging(x, value), x, op, value}
		}
	}
	return &ExprStmt{x.Range(), x}
}

func (ps *parser) ident() *Ident {
	t := ps.peek()
	if t.Type != IdentToken {
		ps.errorAtPeek(errShouldBeIdent)
		return &Ident{Ranging: diag.PointRanging(t.From)}
	}
	ps.next()
	return &Ident{t.Ranging, t.Text}
}

func (ps *parser) scopeDecl() Stmt {
	begin := ps.next().From
	d := &ScopeDecl{Name: ps.ident()}
	if ps.expectOp("(") {
		ps.commaList(")", func() {
			d.Params = append(d.Params, ps.param())
		})
	}
	d.Body = ps.block()
	d.Ranging = diag.Ranging{From: begin, To: ps.prev().To}
	return d
}

func (ps *parser) param() *Param {
	begin := ps.peek().From
	p := &Param{}
	if ps.acceptOp("...") {
		p.Variadic = true
	} else if ps.acceptOp("**") {
		p.Keyword = true
	}
	if t := ps.peek(); t.Type == IdentToken {
		p.Name = ps.next().Text
	} else {
		ps.errorAtPeek(errShouldBeParam)
	}
	if ps.acceptOp("=") {
		p.Default = ps.expr()
	}
	p.Ranging = diag.Ranging{From: begin, To: ps.prev().To}
	return p
}

func (ps *parser) fnDecl() Stmt {
	begin := ps.next().From
	d := &FnDecl{Name: ps.ident()}
	if ps.expectOp("(") {
		ps.commaList(")", func() {
			d.Params = append(d.Params, ps.ident())
		})
	}
	d.Body = ps.block()
	d.Ranging = diag.Ranging{From: begin, To: ps.prev().To}
	return d
}

func (ps *parser) ifStmt() Stmt {
	begin := ps.peek().From
	n := &If{}
	for {
		branchBegin := ps.next().From // 'if'
		b := &Branch{}
		if !ps.headerExpr(&b.Cond) {
			return n
		}
		b.Body = ps.block()
		b.Ranging = diag.Ranging{From: branchBegin, To: ps.prev().To}
		n.Branches = append(n.Branches, b)
		if !ps.isKeyword("else") {
			break
		}
		ps.next()
		if !ps.isKeyword("if") {
			n.Else = ps.block()
			break
		}
	}
	n.Ranging = diag.Ranging{From: begin, To: ps.prev().To}
	return n
}

func (ps *parser) forStmt() Stmt {
	begin := ps.next().From
	n := &For{Key: ps.ident()}
	if ps.acceptOp(",") {
		n.Value = ps.ident()
	}
	if ps.isKeyword("in") {
		ps.next()
	} else {
		ps.errorAtPeek(errShouldBeIn)
	}
	if !ps.headerExpr(&n.Iter) {
		return n
	}
	n.Body = ps.block()
	n.Ranging = diag.Ranging{From: begin, To: ps.prev().To}
	return n
}

func (ps *parser) whileStmt() Stmt {
	begin := ps.next().From
	n := &While{}
	if !ps.headerExpr(&n.Cond) {
		return n
	}
	n.Body = ps.block()
	n.Ranging = diag.Ranging{From: begin, To: ps.prev().To}
	return n
}

// headerExpr parses an expression followed by a block. It returns false if
// the expression had errors, in which case the block is not parsed.
func (ps *parser) headerExpr(x *Expr) bool {
	nerr := len(ps.errors)
	ps.noMap++
	*x = ps.expr()
	ps.noMap--
	return len(ps.errors) == nerr
}

// nested parses with map literals allowed again, as inside brackets.
func (ps *parser) nested(f func()) {
	saved := ps.noMap
	ps.noMap = 0
	defer func() { ps.noMap = saved }()
	f()
}

// commaList parses a comma-separated list terminated by the closer, calling
// item for each element. Newlines are allowed anywhere inside the list, and a
// trailing comma is allowed.
func (ps *parser) commaList(closer string, item func()) {
	failed := false
	ps.nested(func() {
		ps.skipNewlines()
		for !ps.isOp(closer) && ps.peek().Type != EOF {
			nerr := len(ps.errors)
			item()
			if len(ps.errors) > nerr {
				failed = true
				return
			}
			ps.skipNewlines()
			if !ps.acceptOp(",") {
				break
			}
			ps.skipNewlines()
		}
	})
	if !failed {
		ps.expectOp(closer)
	}
}

// nestedExpr parses an expression inside brackets, where newlines are
// insignificant. It returns false if the expression had errors.
func (ps *parser) nestedExpr(x *Expr) bool {
	nerr := len(ps.errors)
	ps.nested(func() {
		ps.skipNewlines()
		*x = ps.expr()
		ps.skipNewlines()
	})
	return len(ps.errors) == nerr
}

func (ps *parser) expr() Expr { return ps.orExpr() }

func (ps *parser) binaryLevel(ops []string, operand func() Expr) Expr {
	x := operand()
	for {
		t := ps.peek()
		if t.Type != Op || !contains(ops, t.Text) {
			return x
		}
		ps.next()
		ps.skipNewlines()
		y := operand()
		x = &BinaryExpr{diag.MixedRanging(x, y), t.Text, x, y}
	}
}

func (ps *parser) orExpr() Expr {
	return ps.binaryLevel([]string{"||"}, ps.andExpr)
}

func (ps *parser) andExpr() Expr {
	return ps.binaryLevel([]string{"&&"}, ps.notExpr)
}

func (ps *parser) notExpr() Expr {
	if t := ps.peek(); t.is(Op, "!") {
		ps.next()
		x := ps.notExpr()
		return &UnaryExpr{diag.MixedRanging(t, x), "!", x}
	}
	return ps.cmpExpr()
}

var cmpOps = []string{"==", "!=", "<", "<=", ">", ">="}

func (ps *parser) isCmpOp(t Token) bool {
	return (t.Type == Op && contains(cmpOps, t.Text)) || t.is(Keyword, "in")
}

func (ps *parser) cmpExpr() Expr {
	x := ps.addExpr()
	t := ps.peek()
	if !ps.isCmpOp(t) {
		return x
	}
	ps.next()
	ps.skipNewlines()
	y := ps.addExpr()
	if u := ps.peek(); ps.isCmpOp(u) {
		ps.errorp(u, errChainedComparison)
	}
	return &BinaryExpr{diag.MixedRanging(x, y), t.Text, x, y}
}

func (ps *parser) addExpr() Expr {
	return ps.binaryLevel([]string{"+", "-"}, ps.mulExpr)
}

func (ps *parser) mulExpr() Expr {
	return ps.binaryLevel([]string{"*", "/", "%"}, ps.unaryExpr)
}

func (ps *parser) unaryExpr() Expr {
	if t := ps.peek(); t.is(Op, "-") {
		ps.next()
		if n := ps.peek(); n.Type == Int && n.Value == minIntMagnitude {
			ps.next()
			return &Literal{diag.MixedRanging(t, n), math.MinInt}
		}
		x := ps.unaryExpr()
		if lit, ok := x.(*Literal); ok {
			// Fold negative number literals.
			switch v := lit.Value.(type) {
			case int:
				if v == math.MinInt {
					break
				}
				return &Literal{diag.MixedRanging(t, x), -v}
			case float64:
				return &Literal{diag.MixedRanging(t, x), -v}
			}
		}
		return &UnaryExpr{diag.MixedRanging(t, x), "-", x}
	}
	return ps.postfixExpr()
}

func (ps *parser) postfixExpr() Expr {
	x := ps.primary()
	for {
		switch {
		case ps.isOp("."):
			ps.next()
			t := ps.peek()
			if t.Type != IdentToken && t.Type != Keyword {
				ps.errorAtPeek(errShouldBeIdent)
				return x
			}
			ps.next()
			x = &FieldExpr{diag.MixedRanging(x, t), x, t.Text}
		case ps.isOp("["):
			ps.next()
			var index Expr
			if !ps.nestedExpr(&index) {
				return x
			}
			ps.expectOp("]")
			x = &IndexExpr{diag.MixedRanging(x, ps.prev()), x, index}
		case ps.isOp("("):
			ps.next()
			call := &CallExpr{Fn: x}
			ps.commaList(")", func() {
				call.Args = append(call.Args, ps.expr())
			})
			call.Ranging = diag.MixedRanging(x, ps.prev())
			x = call
		default:
			return x
		}
	}
}

func (ps *parser) primary() Expr {
	t := ps.peek()
	switch t.Type {
	case Int, Float, String:
		ps.next()
		if t.Value == minIntMagnitude {
			ps.errorp(t, errIntOutOfRange)
			return &Literal{t.Ranging, 0}
		}
		return &Literal{t.Ranging, t.Value}
	case IdentToken:
		ps.next()
		return &Ident{t.Ranging, t.Text}
	case Keyword:
		switch t.Text {
		case "true", "false":
			ps.next()
			return &Literal{t.Ranging, t.Text == "true"}
		case "null":
			ps.next()
			return &Literal{t.Ranging, nil}
		}
	case Op:
		switch t.Text {
		case "(":
			ps.next()
			var x Expr
			if ps.nestedExpr(&x) {
				ps.expectOp(")")
			}
			return x
		case "[":
			ps.next()
			l := &ListExpr{}
			ps.commaList("]", func() {
				l.Elems = append(l.Elems, ps.expr())
			})
			l.Ranging = diag.MixedRanging(t, ps.prev())
			return l
		case "{":
			if ps.noMap > 0 {
				ps.errorp(t, errMapInHeader)
				return &Literal{Ranging: t.Ranging}
			}
			ps.next()
			m := &MapExpr{}
			ps.commaList("}", func() {
				m.Pairs = append(m.Pairs, ps.pair())
			})
			m.Ranging = diag.MixedRanging(t, ps.prev())
			return m
		}
	}
	ps.errorAtPeek(errShouldBePrimary)
	return &Literal{Ranging: diag.PointRanging(t.From)}
}

func (ps *parser) pair() *Pair {
	t := ps.peek()
	p := &Pair{}
	switch t.Type {
	case IdentToken, Keyword:
		p.Key = t.Text
	case String:
		p.Key = t.Value.(string)
	default:
		ps.errorAtPeek(errShouldBeMapKey)
		return p
	}
	ps.next()
	ps.expectOp(":")
	ps.skipNewlines()
	p.Value = ps.expr()
	p.Ranging = diag.MixedRanging(t, p.Value)
	return p
}

func contains(ss []string, s string) bool {
	for _, t := range ss {
		if s == t {
			return true
		}
	}
	return false
}
