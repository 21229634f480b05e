package vals

import (
	"encoding/json"
	"math"
	"reflect"
)

// Normalize converts a value supplied by Go code into the closed value
// domain:
//
//   - All integer types become int, or float64 if the value does not fit.
//   - float32 becomes float64, and json.Number becomes int or float64.
//   - Types whose underlying type is bool or string are converted to their
//     underlying type. This covers boolean-like wrappers of numeric
//     libraries.
//   - Slices and arrays become []any, and maps with string keys become
//     map[string]any, converting elements recursively. A map[any]any whose
//     keys are all strings also becomes a map[string]any.
//
// Lists and maps are always rebuilt, so the result never shares structure
// with the argument. Dict values, callables and other host values are
// returned as is.
func Normalize(v any) any {
	switch v := v.(type) {
	case nil, bool, int, float64, string, Dict, Kinder:
		return v
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return normalizeInt64(i)
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = Normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			ks, ok := k.(string)
			if !ok {
				return v
			}
			out[ks] = Normalize(e)
		}
		return out
	}
	return normalizeReflect(v)
}

func normalizeReflect(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return normalizeInt64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt {
			return float64(u)
		}
		return int(u)
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Normalize(iter.Value().Interface())
		}
		return out
	}
	return v
}

func normalizeInt64(i int64) any {
	if i > math.MaxInt || i < math.MinInt {
		return float64(i)
	}
	return int(i)
}
