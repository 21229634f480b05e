package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dr-dahou-adrar/sacred/pkg/diag"
)

// TokenType is the type of a Token.
type TokenType uint8

// Token types.
const (
	EOF TokenType = iota
	// Newline is a statement separator, either a newline or a semicolon.
	Newline
	IdentToken
	Keyword
	Int
	Float
	String
	// Op is an operator or punctuation.
	Op
)

var tokenTypeNames = [...]string{
	EOF: "end of code", Newline: "newline", IdentToken: "identifier", Keyword: "keyword",
	Int: "integer", Float: "float", String: "string", Op: "operator",
}

func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// Token is a lexical token.
type Token struct {
	diag.Ranging
	Type TokenType
	// Text is the source text of the token.
	Text string
	// Value is the value of Int, Float and String tokens.
	Value any
}

func (t Token) is(typ TokenType, text string) bool {
	return t.Type == typ && t.Text == text
}

func (t Token) describe() string {
	switch t.Type {
	case EOF, Newline:
		return t.Type.String()
	case Op, Keyword:
		return "'" + t.Text + "'"
	default:
		return t.Type.String() + " " + t.Text
	}
}

var keywords = map[string]bool{
	"scope": true, "fn": true, "if": true, "else": true, "for": true, "in": true,
	"while": true, "break": true, "continue": true, "return": true,
	"true": true, "false": true, "null": true,
}

// IsKeyword returns whether s is a reserved word.
func IsKeyword(s string) bool { return keywords[s] }

// Operators, longest first so that the first match wins.
var operators = []string{
	"...", "**", "==", "!=", "<=", ">=", "&&", "||", "+=", "-=", "*=", "/=", "%=",
	"+", "-", "*", "/", "%", "<", ">", "=", "!", "(", ")", "[", "]", "{", "}",
	",", ":", ".",
}

var (
	errStringUnterminated = errors.New("string not terminated")
	errInvalidEscape      = errors.New("invalid escape sequence")
	errIntOutOfRange      = errors.New("integer literal out of range")
	errBadNumber          = errors.New("malformed number literal")
)

type lexer struct {
	src    string
	pos    int
	tokens []Token
	report func(diag.Ranger, error)
}

// lex splits src into tokens. Errors are passed to report; the returned
// tokens always end with an EOF token.
func lex(src string, report func(diag.Ranger, error)) []Token {
	lx := &lexer{src: src, report: report}
	for lx.pos < len(src) {
		lx.scan()
	}
	lx.tokens = append(lx.tokens, Token{Ranging: diag.PointRanging(len(src)), Type: EOF})
	return lx.tokens
}

func (lx *lexer) emit(typ TokenType, begin int, value any) {
	lx.tokens = append(lx.tokens, Token{
		Ranging: diag.Ranging{From: begin, To: lx.pos},
		Type:    typ, Text: lx.src[begin:lx.pos], Value: value})
}

func (lx *lexer) scan() {
	begin := lx.pos
	r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
	switch {
	case r == ' ' || r == '\t' || r == '\r':
		lx.pos += size
	case r == '\\' && strings.HasPrefix(lx.src[lx.pos+1:], "\n"):
		// Line continuation.
		lx.pos += 2
	case r == '#':
		for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
			lx.pos++
		}
	case r == '\n' || r == ';':
		lx.pos += size
		lx.emit(Newline, begin, nil)
	case isDigit(r):
		lx.scanNumber()
	case r == '_' || unicode.IsLetter(r):
		for lx.pos < len(lx.src) {
			r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
			if !isIdentRune(r) {
				break
			}
			lx.pos += size
		}
		if keywords[lx.src[begin:lx.pos]] {
			lx.emit(Keyword, begin, nil)
		} else {
			lx.emit(IdentToken, begin, nil)
		}
	case r == '"':
		lx.scanDoubleQuoted()
	case r == '\'':
		lx.scanSingleQuoted()
	default:
		for _, op := range operators {
			if strings.HasPrefix(lx.src[lx.pos:], op) {
				lx.pos += len(op)
				lx.emit(Op, begin, nil)
				return
			}
		}
		lx.pos += size
		lx.report(diag.Ranging{From: begin, To: lx.pos}, fmt.Errorf("unexpected rune %q", r))
	}
}

func (lx *lexer) scanNumber() {
	begin := lx.pos
	if lx.hasPrefixFold("0x", "0o", "0b") {
		lx.pos += 2
		for lx.pos < len(lx.src) && (isHexDigit(rune(lx.src[lx.pos])) || lx.src[lx.pos] == '_') {
			lx.pos++
		}
		lx.emitInt(begin, lx.src[begin:lx.pos], 0)
		return
	}

	isFloat := false
	lx.skipDigits()
	if lx.pos+1 < len(lx.src) && lx.src[lx.pos] == '.' && isDigit(rune(lx.src[lx.pos+1])) {
		isFloat = true
		lx.pos++
		lx.skipDigits()
	}
	if lx.pos < len(lx.src) && (lx.src[lx.pos] == 'e' || lx.src[lx.pos] == 'E') {
		save := lx.pos
		lx.pos++
		if lx.pos < len(lx.src) && (lx.src[lx.pos] == '+' || lx.src[lx.pos] == '-') {
			lx.pos++
		}
		if lx.pos < len(lx.src) && isDigit(rune(lx.src[lx.pos])) {
			isFloat = true
			lx.skipDigits()
		} else {
			lx.pos = save
		}
	}

	text := strings.ReplaceAll(lx.src[begin:lx.pos], "_", "")
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			lx.emit(Float, begin, 0.0)
			lx.report(lx.lastToken(), errBadNumber)
			return
		}
		lx.emit(Float, begin, f)
		return
	}
	lx.emitInt(begin, text, 10)
}

// The magnitude of math.MinInt. It is emitted as a uint64 value, which the
// parser only accepts as the operand of a unary minus.
const minIntMagnitude = uint64(1) << 63

func (lx *lexer) emitInt(begin int, text string, base int) {
	i, err := strconv.ParseInt(text, base, 0)
	if err != nil {
		if u, uerr := strconv.ParseUint(text, base, 0); uerr == nil && u == minIntMagnitude {
			lx.emit(Int, begin, u)
			return
		}
	}
	lx.emit(Int, begin, int(i))
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			lx.report(lx.lastToken(), errIntOutOfRange)
		} else {
			lx.report(lx.lastToken(), errBadNumber)
		}
	}
}

func (lx *lexer) lastToken() Token { return lx.tokens[len(lx.tokens)-1] }

func (lx *lexer) skipDigits() {
	for lx.pos < len(lx.src) && (isDigit(rune(lx.src[lx.pos])) || lx.src[lx.pos] == '_') {
		lx.pos++
	}
}

func (lx *lexer) hasPrefixFold(prefixes ...string) bool {
	for _, p := range prefixes {
		if len(lx.src)-lx.pos >= len(p) && strings.EqualFold(lx.src[lx.pos:lx.pos+len(p)], p) {
			return true
		}
	}
	return false
}

func (lx *lexer) scanSingleQuoted() {
	begin := lx.pos
	lx.pos++
	var sb strings.Builder
	for {
		i := strings.IndexByte(lx.src[lx.pos:], '\'')
		if i == -1 {
			sb.WriteString(lx.src[lx.pos:])
			lx.pos = len(lx.src)
			lx.emit(String, begin, sb.String())
			lx.report(lx.lastToken(), errStringUnterminated)
			return
		}
		sb.WriteString(lx.src[lx.pos : lx.pos+i])
		lx.pos += i + 1
		if strings.HasPrefix(lx.src[lx.pos:], "'") {
			// Two consecutive single quotes stand for one.
			sb.WriteByte('\'')
			lx.pos++
			continue
		}
		lx.emit(String, begin, sb.String())
		return
	}
}

func (lx *lexer) scanDoubleQuoted() {
	begin := lx.pos
	lx.pos++
	var sb strings.Builder
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if r == '"' {
			lx.pos += size
			lx.emit(String, begin, sb.String())
			return
		}
		if r != '\\' {
			sb.WriteRune(r)
			lx.pos += size
			continue
		}
		escBegin := lx.pos
		lx.pos++
		if lx.pos == len(lx.src) {
			break
		}
		c := lx.src[lx.pos]
		lx.pos++
		switch c {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '0':
			sb.WriteByte(0)
		case '\\', '"', '\'':
			sb.WriteByte(c)
		case 'x', 'u', 'U':
			n := map[byte]int{'x': 2, 'u': 4, 'U': 8}[c]
			if lx.pos+n > len(lx.src) {
				lx.pos = len(lx.src)
				lx.report(diag.Ranging{From: escBegin, To: lx.pos}, errInvalidEscape)
				continue
			}
			code, err := strconv.ParseUint(lx.src[lx.pos:lx.pos+n], 16, 32)
			lx.pos += n
			if err != nil {
				lx.report(diag.Ranging{From: escBegin, To: lx.pos}, errInvalidEscape)
				continue
			}
			if c == 'x' {
				sb.WriteByte(byte(code))
			} else {
				sb.WriteRune(rune(code))
			}
		default:
			lx.report(diag.Ranging{From: escBegin, To: lx.pos}, errInvalidEscape)
		}
	}
	lx.emit(String, begin, sb.String())
	lx.report(lx.lastToken(), errStringUnterminated)
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
