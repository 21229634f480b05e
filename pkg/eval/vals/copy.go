package vals

// Copy returns a deep copy of a value. Lists and maps are copied
// recursively, and Dict values are copied into plain maps, so the result
// contains no tracked structure. Other values are returned as is.
func Copy(v any) any {
	switch v := v.(type) {
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Copy(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = Copy(e)
		}
		return out
	case Dict:
		out := make(map[string]any, v.Len())
		for _, k := range v.Keys() {
			e, _ := v.Index(k)
			out[k] = Copy(e)
		}
		return out
	}
	return v
}

// CopyMap is like Copy, but for maps. It returns an empty map if m is nil.
func CopyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return Copy(m).(map[string]any)
}
