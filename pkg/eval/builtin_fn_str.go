package eval

import (
	"errors"
	"strings"

	"github.com/dr-dahou-adrar/sacred/pkg/eval/errs"
	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
)

// String operations.

func init() {
	addBuiltinFns(map[string]any{
		"str":     vals.ToString,
		"repr":    vals.Repr,
		"upper":   strings.ToUpper,
		"lower":   strings.ToLower,
		"replace": replace,
		"split":   split,
		"join":    join,
		"format":  format,
	})
}

func replace(s, old, replacement string) string {
	return strings.ReplaceAll(s, old, replacement)
}

func split(s, sep string) []string {
	return strings.Split(s, sep)
}

func join(sep string, l []any) (string, error) {
	ss := make([]string, len(l))
	for i, v := range l {
		s, ok := v.(string)
		if !ok {
			return "", errs.BadValue{What: "element of list", Valid: "string", Actual: vals.TypeName(v)}
		}
		ss[i] = s
	}
	return strings.Join(ss, sep), nil
}

var (
	errFormatArgs     = errors.New("not enough arguments for format string")
	errFormatUnclosed = errors.New("unmatched { in format string")
)

// format replaces each {} in the format string with the next argument,
// converted with str. {{ and }} stand for literal braces.
func format(f string, args ...any) (string, error) {
	var sb strings.Builder
	next := 0
	for i := 0; i < len(f); i++ {
		switch {
		case strings.HasPrefix(f[i:], "{{"):
			sb.WriteByte('{')
			i++
		case strings.HasPrefix(f[i:], "}}"):
			sb.WriteByte('}')
			i++
		case strings.HasPrefix(f[i:], "{}"):
			if next >= len(args) {
				return "", errFormatArgs
			}
			sb.WriteString(vals.ToString(args[next]))
			next++
			i++
		case f[i] == '{':
			return "", errFormatUnclosed
		default:
			sb.WriteByte(f[i])
		}
	}
	if next < len(args) {
		return "", errs.ArityMismatch{What: "arguments of format",
			ValidLow: next + 1, ValidHigh: next + 1, Actual: len(args) + 1}
	}
	return sb.String(), nil
}
