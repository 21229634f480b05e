package eval

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dr-dahou-adrar/sacred/pkg/eval/errs"
	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
)

// Numerical operations.

func init() {
	addBuiltinFns(map[string]any{
		"int":   toInt,
		"float": toFloat,
		"abs":   abs,
		"round": round,
		"floor": floor,
		"ceil":  ceil,
		"sqrt":  sqrt,
		"pow":   pow,
		"min":   minimum,
		"max":   maximum,
		"sum":   sum,
		"range": rangeFn,
	})
}

func badNumber(what string, v any) error {
	return errs.BadValue{What: what, Valid: "number", Actual: vals.TypeName(v)}
}

func toInt(v any) (int, error) {
	switch v := v.(type) {
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case int:
		return v, nil
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) || v >= math.MaxInt || v < math.MinInt {
			return 0, errs.BadValue{What: "argument", Valid: "finite float in int range",
				Actual: vals.Repr(v)}
		}
		return int(v), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 0, 0)
		if err != nil {
			return 0, fmt.Errorf("cannot parse as int: %s", vals.Repr(v))
		}
		return int(i), nil
	}
	return 0, errs.BadValue{What: "argument", Valid: "bool, number or string", Actual: vals.TypeName(v)}
}

func toFloat(v any) (float64, error) {
	switch v := v.(type) {
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case int:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse as float: %s", vals.Repr(v))
		}
		return f, nil
	}
	return 0, errs.BadValue{What: "argument", Valid: "bool, number or string", Actual: vals.TypeName(v)}
}

func abs(v any) (any, error) {
	switch v := v.(type) {
	case int:
		if v == math.MinInt {
			return -float64(v), nil
		}
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case float64:
		return math.Abs(v), nil
	}
	return nil, badNumber("argument", v)
}

// round rounds half to even. Without ndigits it returns an int; with ndigits
// it returns a value of the same type as x.
func round(x any, ndigits ...int) (any, error) {
	if len(ndigits) > 1 {
		return nil, errs.ArityMismatch{What: "arguments of round",
			ValidLow: 1, ValidHigh: 2, Actual: 1 + len(ndigits)}
	}
	switch x := x.(type) {
	case int:
		if len(ndigits) == 0 || ndigits[0] >= 0 {
			return x, nil
		}
		p := math.Pow10(-ndigits[0])
		return int(math.RoundToEven(float64(x)/p) * p), nil
	case float64:
		if len(ndigits) == 0 {
			return toInt(math.RoundToEven(x))
		}
		p := math.Pow10(ndigits[0])
		return math.RoundToEven(x*p) / p, nil
	}
	return nil, badNumber("argument", x)
}

func floor(x any) (any, error) {
	switch x := x.(type) {
	case int:
		return x, nil
	case float64:
		return toInt(math.Floor(x))
	}
	return nil, badNumber("argument", x)
}

func ceil(x any) (any, error) {
	switch x := x.(type) {
	case int:
		return x, nil
	case float64:
		return toInt(math.Ceil(x))
	}
	return nil, badNumber("argument", x)
}

func sqrt(x float64) (float64, error) {
	if x < 0 {
		return 0, errs.BadValue{What: "argument", Valid: "non-negative", Actual: vals.Repr(x)}
	}
	return math.Sqrt(x), nil
}

// pow returns an int when both arguments are ints and the exponent is
// non-negative, and a float otherwise.
func pow(x, y any) (any, error) {
	if xi, ok := x.(int); ok {
		if yi, ok := y.(int); ok && yi >= 0 {
			if r, ok := powInt(xi, yi); ok {
				return r, nil
			}
			return math.Pow(float64(xi), float64(yi)), nil
		}
	}
	var xf, yf float64
	if err := vals.ScanToGo(x, &xf); err != nil {
		return nil, vals.ErrorWithArg(err, 1)
	}
	if err := vals.ScanToGo(y, &yf); err != nil {
		return nil, vals.ErrorWithArg(err, 2)
	}
	return math.Pow(xf, yf), nil
}

// Arguments of min and max: either several values, or a single list.
func extremeArgs(name string, args []any) ([]any, error) {
	if len(args) == 1 {
		if l, ok := args[0].([]any); ok {
			args = l
		}
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%s of empty sequence", name)
	}
	return args, nil
}

func minimum(args ...any) (any, error) {
	return extreme("min", args, -1)
}

func maximum(args ...any) (any, error) {
	return extreme("max", args, 1)
}

func extreme(name string, args []any, sign int) (any, error) {
	args, err := extremeArgs(name, args)
	if err != nil {
		return nil, err
	}
	best := args[0]
	for _, v := range args[1:] {
		c, err := vals.Compare(v, best)
		if err != nil {
			return nil, err
		}
		if c*sign > 0 {
			best = v
		}
	}
	return best, nil
}

func sum(l []any) (any, error) {
	var total any = 0
	for _, v := range l {
		switch v.(type) {
		case int, float64:
		default:
			return nil, badNumber("element of list", v)
		}
		var err error
		total, err = arith("+", total, v)
		if err != nil {
			return nil, err
		}
	}
	return total, nil
}

// rangeFn implements range(stop), range(start, stop) and range(start, stop,
// step), returning a list of ints.
func rangeFn(args ...int) ([]any, error) {
	start, step := 0, 1
	var stop int
	switch len(args) {
	case 1:
		stop = args[0]
	case 2:
		start, stop = args[0], args[1]
	case 3:
		start, stop, step = args[0], args[1], args[2]
	default:
		return nil, errs.ArityMismatch{What: "arguments of range",
			ValidLow: 1, ValidHigh: 3, Actual: len(args)}
	}
	if step == 0 {
		return nil, errs.BadValue{What: "step", Valid: "non-zero", Actual: "0"}
	}
	// Count the elements first, so that i += step may wrap after the last one.
	var span, stride uint64
	if step > 0 && start < stop {
		span, stride = uint64(stop)-uint64(start), uint64(step)
	} else if step < 0 && start > stop {
		span, stride = uint64(start)-uint64(stop), -uint64(step)
	}
	l := []any{}
	if span == 0 {
		return l, nil
	}
	n := (span-1)/stride + 1
	for i, k := start, uint64(0); k < n; i, k = i+step, k+1 {
		l = append(l, i)
	}
	return l, nil
}
