package parse

import (
	"errors"
	"strings"

	"github.com/dr-dahou-adrar/sacred/pkg/diag"
)

// Error is a parse error.
type Error = diag.Error

// ErrorType is the Type of all parse errors.
const ErrorType = "parse error"

// parser maintains the mutable state of parsing.
type parser struct {
	src    Source
	tokens []Token
	pos    int
	errors diag.MultiError
	// When positive, a '{' does not start a map literal. This is set when
	// parsing the header of if, for and while, where '{' starts the body.
	noMap int
}

func (ps *parser) peek() Token { return ps.tokens[ps.pos] }

func (ps *parser) next() Token {
	t := ps.tokens[ps.pos]
	if t.Type != EOF {
		ps.pos++
	}
	return t
}

// prev returns the last consumed token.
func (ps *parser) prev() Token {
	if ps.pos == 0 {
		return Token{Ranging: diag.PointRanging(0)}
	}
	return ps.tokens[ps.pos-1]
}

func (ps *parser) isOp(text string) bool      { return ps.peek().is(Op, text) }
func (ps *parser) isKeyword(text string) bool { return ps.peek().is(Keyword, text) }

// acceptOp consumes the next token if it is the given operator.
func (ps *parser) acceptOp(text string) bool {
	if ps.isOp(text) {
		ps.next()
		return true
	}
	return false
}

// expectOp consumes the given operator, or records an error.
func (ps *parser) expectOp(text string) bool {
	if ps.acceptOp(text) {
		return true
	}
	ps.errorAtPeek(newError("", "'"+text+"'"))
	return false
}

func (ps *parser) skipNewlines() {
	for ps.peek().Type == Newline {
		ps.next()
	}
}

func (ps *parser) errorp(r diag.Ranger, e error) {
	ps.errors = append(ps.errors, &Error{
		Type:    ErrorType,
		Message: e.Error(),
		Context: *diag.NewContext(ps.src.Name, ps.src.Code, r),
	})
}

func (ps *parser) errorAtPeek(e error) {
	t := ps.peek()
	ps.errorp(t, errors.New(e.Error()+", got "+t.describe()))
}

// sync skips tokens until the end of the current statement, so that parsing
// can resume after an error.
func (ps *parser) sync() {
	depth := 0
	for {
		t := ps.peek()
		switch {
		case t.Type == EOF:
			return
		case t.Type == Newline && depth == 0:
			return
		case t.is(Op, "{") || t.is(Op, "(") || t.is(Op, "["):
			depth++
		case t.is(Op, "}"):
			// A '}' at depth 0 closes the enclosing block.
			if depth == 0 {
				return
			}
			depth--
		case t.is(Op, ")") || t.is(Op, "]"):
			if depth > 0 {
				depth--
			}
		}
		ps.next()
	}
}

func (ps *parser) assembleError() error {
	if len(ps.errors) == 0 {
		return nil
	}
	return ps.errors
}

func newError(text string, shouldbe ...string) error {
	if len(shouldbe) == 0 {
		return errors.New(text)
	}
	var sb strings.Builder
	if len(text) > 0 {
		sb.WriteString(text + ", ")
	}
	sb.WriteString("should be " + shouldbe[0])
	for i, opt := range shouldbe[1:] {
		if i == len(shouldbe)-2 {
			sb.WriteString(" or ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(opt)
	}
	return errors.New(sb.String())
}
