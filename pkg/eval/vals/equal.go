package vals

// Equaler wraps the Equal method.
type Equaler interface {
	// Equal compares the receiver to another value.
	Equal(other any) bool
}

// Equal returns whether two values are equal. Numbers compare by value, so
// that 1 and 1.0 are equal. Lists and maps are compared deeply, and a Dict is
// equal to a plain map with the same entries. Types satisfying Equaler use
// their Equal method; other values are compared with ==, and are never equal
// when they are not comparable.
func Equal(x, y any) bool {
	switch x := x.(type) {
	case nil:
		return y == nil
	case int:
		switch y := y.(type) {
		case int:
			return x == y
		case float64:
			return float64(x) == y
		}
		return false
	case float64:
		switch y := y.(type) {
		case int:
			return x == float64(y)
		case float64:
			return x == y
		}
		return false
	case []any:
		yy, ok := y.([]any)
		if !ok || len(x) != len(yy) {
			return false
		}
		for i := range x {
			if !Equal(x[i], yy[i]) {
				return false
			}
		}
		return true
	case map[string]any, Dict:
		return equalMap(x, y)
	case Equaler:
		return x.Equal(y)
	}
	return equalComparable(x, y)
}

// equalComparable compares with ==, treating a panic caused by incomparable
// dynamic types as inequality.
func equalComparable(x, y any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return x == y
}

func equalMap(x, y any) bool {
	xkeys, _ := SortedKeys(x)
	ykeys, ok := SortedKeys(y)
	if !ok || len(xkeys) != len(ykeys) {
		return false
	}
	for i, k := range xkeys {
		if ykeys[i] != k {
			return false
		}
		xv, _ := IndexKey(x, k)
		yv, _ := IndexKey(y, k)
		if !Equal(xv, yv) {
			return false
		}
	}
	return true
}
