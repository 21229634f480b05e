package vals

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dr-dahou-adrar/sacred/pkg/parse"
)

// Reprer wraps the Repr method.
type Reprer interface {
	// Repr returns a string that represents the value. It is a literal of
	// the value when one exists, or a string enclosed in "<>" describing the
	// value otherwise.
	Repr() string
}

// Repr returns the representation of a value, which is a literal in the scope
// language for values in the closed domain. Map entries are written in key
// order. Host values are shown as "<!!type value>".
func Repr(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return formatFloat64(v)
	case string:
		return parse.Quote(v)
	case []any:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(Repr(e))
		}
		sb.WriteByte(']')
		return sb.String()
	case map[string]any, Dict:
		keys, _ := SortedKeys(v)
		var sb strings.Builder
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			e, _ := IndexKey(v, k)
			sb.WriteString(parse.QuoteKey(k) + ": " + Repr(e))
		}
		sb.WriteByte('}')
		return sb.String()
	case Reprer:
		return v.Repr()
	default:
		return fmt.Sprintf("<%s %v>", Kind(v), v)
	}
}

// ToString converts a value to a string. Strings are returned as is, and
// other values are converted with Repr.
func ToString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return Repr(v)
}

// formatFloat64 formats a float64 so that it always reads back as a float.
func formatFloat64(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return `float("inf")`
	case math.IsInf(f, -1):
		return `float("-inf")`
	case math.IsNaN(f):
		return `float("nan")`
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
