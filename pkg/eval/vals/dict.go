package vals

import (
	"sort"
)

// Dict is a map that controls its own writes. It is implemented by the
// tracked maps of a scope environment, which pin some keys and record the
// writes to others.
type Dict interface {
	// Len returns the number of entries.
	Len() int
	// Keys returns the keys in sorted order.
	Keys() []string
	// Index returns the value for the key, and whether it exists.
	Index(key string) (any, bool)
	// SetKey sets the value for the key. Implementations may ignore the write.
	SetKey(key string, v any)
}

// SortedKeys returns the keys of a map value in sorted order, and false if v
// is not a map.
func SortedKeys(v any) ([]string, bool) {
	switch v := v.(type) {
	case Dict:
		return v.Keys(), true
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys, true
	}
	return nil, false
}

// IndexKey looks up a key in a map value. The second return value is false if
// v is not a map or does not have the key.
func IndexKey(v any, key string) (any, bool) {
	switch v := v.(type) {
	case Dict:
		return v.Index(key)
	case map[string]any:
		e, ok := v[key]
		return e, ok
	}
	return nil, false
}

// IsMap returns whether v is a map value.
func IsMap(v any) bool {
	switch v.(type) {
	case Dict, map[string]any:
		return true
	}
	return false
}
