package parse

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Quote returns a double-quoted representation of s that the lexer parses
// back into s.
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			fmt.Fprintf(&sb, `\x%02x`, s[i])
		case r == '"' || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r < 0x80 && !unicode.IsPrint(r):
			fmt.Fprintf(&sb, `\x%02x`, r)
		case !unicode.IsPrint(r) && r > 0xffff:
			fmt.Fprintf(&sb, `\U%08x`, r)
		case !unicode.IsPrint(r):
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			sb.WriteRune(r)
		}
		i += size
	}
	sb.WriteByte('"')
	return sb.String()
}

// IsIdent returns whether s can be written as a bare identifier: a non-empty
// run of letters, digits and underscores not starting with a digit, and not a
// keyword.
func IsIdent(s string) bool {
	if s == "" || keywords[s] {
		return false
	}
	for i, r := range s {
		if !isIdentRune(r) || (i == 0 && isDigit(r)) {
			return false
		}
	}
	return true
}

// QuoteKey returns s as written in a map literal: bare when it is an
// identifier, quoted otherwise.
func QuoteKey(s string) string {
	if IsIdent(s) {
		return s
	}
	return Quote(s)
}
