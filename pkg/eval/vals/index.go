package vals

import (
	"fmt"
	"unicode/utf8"

	"github.com/dr-dahou-adrar/sacred/pkg/eval/errs"
	"github.com/dr-dahou-adrar/sacred/pkg/parse"
)

// NoSuchKeyError is returned when indexing a map with an absent key.
type NoSuchKeyError struct {
	Key string
}

func (e NoSuchKeyError) Error() string {
	return "no such key: " + parse.Quote(e.Key)
}

// Index indexes a value. Lists are indexed by ints, where negative indices
// count from the end, strings are indexed by ints to get a single-character
// string, and maps are indexed by strings.
func Index(v, k any) (any, error) {
	switch v := v.(type) {
	case []any:
		i, err := ListIndex(k, len(v))
		if err != nil {
			return nil, err
		}
		return v[i], nil
	case string:
		runes := []rune(v)
		i, err := ListIndex(k, len(runes))
		if err != nil {
			return nil, err
		}
		return string(runes[i]), nil
	case map[string]any, Dict:
		ks, ok := k.(string)
		if !ok {
			return nil, errs.BadValue{What: "map key", Valid: "string", Actual: TypeName(k)}
		}
		e, ok := IndexKey(v, ks)
		if !ok {
			return nil, NoSuchKeyError{ks}
		}
		return e, nil
	}
	return nil, fmt.Errorf("cannot index %s", TypeName(v))
}

// ListIndex checks that k is a valid index of a sequence of length n, and
// returns the index with negative values resolved.
func ListIndex(k any, n int) (int, error) {
	i, ok := k.(int)
	if !ok {
		return 0, errs.BadValue{What: "index", Valid: "int", Actual: TypeName(k)}
	}
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, errs.OutOfRange{What: "index", ValidLow: -n, ValidHigh: n - 1,
			Actual: fmt.Sprint(k)}
	}
	return i, nil
}

// Len returns the length of a string (in characters), list or map, and false
// for other values.
func Len(v any) (int, bool) {
	switch v := v.(type) {
	case string:
		return utf8.RuneCountInString(v), true
	case []any:
		return len(v), true
	case map[string]any:
		return len(v), true
	case Dict:
		return v.Len(), true
	}
	return 0, false
}
