package vals

import (
	"math"
	"reflect"
)

// Serializable returns whether a value can be represented in JSON: nil,
// bools, ints, finite floats, strings, and lists and maps of serializable
// values.
func Serializable(v any) bool {
	switch v := v.(type) {
	case nil, bool, int, string:
		return true
	case float64:
		return !math.IsInf(v, 0) && !math.IsNaN(v)
	case []any:
		for _, e := range v {
			if !Serializable(e) {
				return false
			}
		}
		return true
	case map[string]any, Dict:
		keys, _ := SortedKeys(v)
		for _, k := range keys {
			e, _ := IndexKey(v, k)
			if !Serializable(e) {
				return false
			}
		}
		return true
	}
	return false
}

// CoerceBool converts values whose underlying type is bool, like the boolean
// scalars of numeric libraries, to plain bools. Lists and maps are converted
// recursively into fresh containers; other values are returned as is.
func CoerceBool(v any) any {
	switch v := v.(type) {
	case nil, bool, int, float64, string:
		return v
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = CoerceBool(e)
		}
		return out
	case map[string]any, Dict:
		keys, _ := SortedKeys(v)
		out := make(map[string]any, len(keys))
		for _, k := range keys {
			e, _ := IndexKey(v, k)
			out[k] = CoerceBool(e)
		}
		return out
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Bool {
		return rv.Bool()
	}
	return v
}
