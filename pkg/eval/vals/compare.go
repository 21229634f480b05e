package vals

import (
	"fmt"
	"strings"
)

// Compare compares two numbers or two strings, returning -1, 0 or 1. Ints
// and floats can be compared with each other. Comparing values of other
// kinds is an error.
func Compare(x, y any) (int, error) {
	switch x := x.(type) {
	case int:
		switch y := y.(type) {
		case int:
			return compareInt(x, y), nil
		case float64:
			return compareFloat(float64(x), y), nil
		}
	case float64:
		switch y := y.(type) {
		case int:
			return compareFloat(x, float64(y)), nil
		case float64:
			return compareFloat(x, y), nil
		}
	case string:
		if y, ok := y.(string); ok {
			return strings.Compare(x, y), nil
		}
	}
	return 0, fmt.Errorf("cannot compare %s and %s", TypeName(x), TypeName(y))
}

func compareInt(x, y int) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func compareFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
