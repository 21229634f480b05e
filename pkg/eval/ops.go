package eval

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
)

// ErrDivideByZero is the reason of exceptions thrown when dividing by zero.
var ErrDivideByZero = errors.New("division by zero")

func binary(op string, x, y any) (any, error) {
	switch op {
	case "+", "-", "*", "/", "%":
		return arith(op, x, y)
	case "==":
		return vals.Equal(x, y), nil
	case "!=":
		return !vals.Equal(x, y), nil
	case "<", "<=", ">", ">=":
		c, err := vals.Compare(x, y)
		if err != nil {
			return nil, err
		}
		switch op {
		case "<":
			return c < 0, nil
		case "<=":
			return c <= 0, nil
		case ">":
			return c > 0, nil
		default:
			return c >= 0, nil
		}
	case "in":
		return contains(y, x)
	}
	return nil, fmt.Errorf("unknown operator %s", op)
}

// Implements the in operator.
func contains(container, x any) (bool, error) {
	switch c := container.(type) {
	case []any:
		for _, e := range c {
			if vals.Equal(e, x) {
				return true, nil
			}
		}
		return false, nil
	case string:
		if s, ok := x.(string); ok {
			return strings.Contains(c, s), nil
		}
	default:
		if vals.IsMap(c) {
			k, ok := x.(string)
			if !ok {
				return false, nil
			}
			_, has := vals.IndexKey(c, k)
			return has, nil
		}
	}
	return false, fmt.Errorf("unsupported operand types for in: %s and %s",
		vals.TypeName(x), vals.TypeName(container))
}

// Implements the arithmetic operators. Ints stay ints except for /, which
// always produces a float; an int mixed with a float is promoted.
func arith(op string, x, y any) (any, error) {
	switch x := x.(type) {
	case int:
		if y, ok := y.(int); ok {
			return arithInt(op, x, y)
		}
		if y, ok := y.(float64); ok {
			return arithFloat(op, float64(x), y)
		}
	case float64:
		switch y := y.(type) {
		case int:
			return arithFloat(op, x, float64(y))
		case float64:
			return arithFloat(op, x, y)
		}
	case string:
		if y, ok := y.(string); ok && op == "+" {
			return x + y, nil
		}
	case []any:
		if y, ok := y.([]any); ok && op == "+" {
			l := make([]any, 0, len(x)+len(y))
			return append(append(l, x...), y...), nil
		}
	}
	return nil, fmt.Errorf("unsupported operand types for %s: %s and %s",
		op, vals.TypeName(x), vals.TypeName(y))
}

// An int result that overflows is promoted to float, as vals.Normalize does
// with out-of-range host integers.
func arithInt(op string, x, y int) (any, error) {
	switch op {
	case "+":
		if r, ok := addInt(x, y); ok {
			return r, nil
		}
		return float64(x) + float64(y), nil
	case "-":
		if r, ok := subInt(x, y); ok {
			return r, nil
		}
		return float64(x) - float64(y), nil
	case "*":
		if r, ok := mulInt(x, y); ok {
			return r, nil
		}
		return float64(x) * float64(y), nil
	case "/":
		if y == 0 {
			return nil, ErrDivideByZero
		}
		return float64(x) / float64(y), nil
	default:
		if y == 0 {
			return nil, ErrDivideByZero
		}
		// The result has the sign of the divisor.
		r := x % y
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
		return r, nil
	}
}

func addInt(x, y int) (int, bool) {
	r := x + y
	return r, (r > x) == (y > 0)
}

func subInt(x, y int) (int, bool) {
	r := x - y
	return r, (r < x) == (y > 0)
}

func mulInt(x, y int) (int, bool) {
	if x == 0 || y == 0 {
		return 0, true
	}
	if (x == -1 && y == math.MinInt) || (y == -1 && x == math.MinInt) {
		return 0, false
	}
	r := x * y
	return r, r/y == x
}

// Computes x**n for n >= 0 by squaring.
func powInt(x, n int) (int, bool) {
	r := 1
	for {
		if n&1 == 1 {
			var ok bool
			if r, ok = mulInt(r, x); !ok {
				return 0, false
			}
		}
		n >>= 1
		if n == 0 {
			return r, true
		}
		var ok bool
		if x, ok = mulInt(x, x); !ok {
			return 0, false
		}
	}
}

func arithFloat(op string, x, y float64) (any, error) {
	switch op {
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "/":
		if y == 0 {
			return nil, ErrDivideByZero
		}
		return x / y, nil
	default:
		if y == 0 {
			return nil, ErrDivideByZero
		}
		r := math.Mod(x, y)
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
		return r, nil
	}
}

func negate(x any) (any, error) {
	switch x := x.(type) {
	case int:
		if x == math.MinInt {
			return -float64(x), nil
		}
		return -x, nil
	case float64:
		return -x, nil
	}
	return nil, fmt.Errorf("unsupported operand type for -: %s", vals.TypeName(x))
}
