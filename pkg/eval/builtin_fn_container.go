package eval

import (
	"fmt"
	"sort"

	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
)

// Lists and maps.

func init() {
	addBuiltinFns(map[string]any{
		"len":    length,
		"keys":   keys,
		"values": values,
		"has":    has,
		"append": appendFn,
		"sorted": sorted,
	})
}

func length(v any) (int, error) {
	n, ok := vals.Len(v)
	if !ok {
		return 0, fmt.Errorf("%s has no length", vals.TypeName(v))
	}
	return n, nil
}

func keys(m any) ([]string, error) {
	ks, ok := vals.SortedKeys(m)
	if !ok {
		return nil, fmt.Errorf("cannot get keys of %s", vals.TypeName(m))
	}
	return ks, nil
}

// values returns the values of a map in key order.
func values(m any) ([]any, error) {
	ks, ok := vals.SortedKeys(m)
	if !ok {
		return nil, fmt.Errorf("cannot get values of %s", vals.TypeName(m))
	}
	vs := make([]any, len(ks))
	for i, k := range ks {
		vs[i], _ = vals.IndexKey(m, k)
	}
	return vs, nil
}

func has(m any, k string) (bool, error) {
	if !vals.IsMap(m) {
		return false, fmt.Errorf("cannot look up keys of %s", vals.TypeName(m))
	}
	_, ok := vals.IndexKey(m, k)
	return ok, nil
}

func appendFn(l []any, elems ...any) []any {
	out := make([]any, 0, len(l)+len(elems))
	return append(append(out, l...), elems...)
}

// sorted returns a sorted copy of a list of numbers or strings.
func sorted(l []any) ([]any, error) {
	out := append([]any(nil), l...)
	var err error
	sort.SliceStable(out, func(i, j int) bool {
		c, e := vals.Compare(out[i], out[j])
		if e != nil && err == nil {
			err = e
		}
		return c < 0
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
