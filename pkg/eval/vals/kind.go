// Package vals contains basic facilities for manipulating values of the scope
// language.
//
// The value domain is closed: nil, bool, int, float64, string, []any for
// lists, map[string]any or Dict for maps, and callables, which implement
// Kinder. Any other value is an opaque host value; it can be passed around by
// scope code but is never serializable.
package vals

import (
	"fmt"
)

// Kinder wraps the Kind method.
type Kinder interface {
	Kind() string
}

// Kind returns the kind of the value, a coarser notion than TypeName that
// does not distinguish between int and float64. It is "nil", "bool",
// "number", "string", "list", "map", the result of the Kind method for
// types satisfying Kinder, and the Go type name preceded by "!!" for all
// other types.
func Kind(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		return "bool"
	case int, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "list"
	case map[string]any, Dict:
		return "map"
	case Kinder:
		return v.Kind()
	default:
		return fmt.Sprintf("!!%T", v)
	}
}

// TypeName returns the runtime type of the value, as recorded by type change
// auditing and returned by the type builtin. It is "null", "bool", "int",
// "float", "string", "list", "map", the result of the Kind method for types
// satisfying Kinder, and the Go type name preceded by "!!" for all other
// types.
func TypeName(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case int:
		return "int"
	case float64:
		return "float"
	case Kinder:
		return v.Kind()
	default:
		return Kind(v)
	}
}
