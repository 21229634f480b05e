package vals

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/dr-dahou-adrar/sacred/pkg/eval/errs"
)

var errMustBePtr = errors.New("internal bug: need pointer to scan to")

// ScanToGo converts a value to a Go value and stores it in the variable ptr
// points to. Conversions are strict, except that an int can be stored in a
// float64 and a Dict is copied into a map[string]any. A variable of an
// interface type gets the value as is, and variables of other types get the
// value only if it is assignable.
func ScanToGo(src any, ptr any) error {
	dst := reflect.ValueOf(ptr)
	if dst.Kind() != reflect.Ptr {
		return errMustBePtr
	}
	dst = dst.Elem()
	switch p := ptr.(type) {
	case *int:
		i, ok := src.(int)
		if !ok {
			return wrongType("int", src)
		}
		*p = i
	case *float64:
		switch v := src.(type) {
		case int:
			*p = float64(v)
		case float64:
			*p = v
		default:
			return wrongType("number", src)
		}
	case *string:
		s, ok := src.(string)
		if !ok {
			return wrongType("string", src)
		}
		*p = s
	case *bool:
		b, ok := src.(bool)
		if !ok {
			return wrongType("bool", src)
		}
		*p = b
	case *[]any:
		l, ok := src.([]any)
		if !ok {
			return wrongType("list", src)
		}
		*p = l
	case *map[string]any:
		switch v := src.(type) {
		case map[string]any:
			*p = v
		case Dict:
			*p = Copy(v).(map[string]any)
		default:
			return wrongType("map", src)
		}
	default:
		if src == nil {
			if dst.Kind() == reflect.Interface {
				dst.Set(reflect.Zero(dst.Type()))
				return nil
			}
			return wrongType(dst.Type().String(), src)
		}
		v := reflect.ValueOf(src)
		if !v.Type().AssignableTo(dst.Type()) {
			return wrongType(dst.Type().String(), src)
		}
		dst.Set(v)
	}
	return nil
}

func wrongType(want string, v any) error {
	return errs.BadValue{What: "argument", Valid: want, Actual: TypeName(v)}
}

// ErrorWithArg adds the position of an argument to an error returned by
// ScanToGo.
func ErrorWithArg(err error, i int) error {
	var bad errs.BadValue
	if errors.As(err, &bad) && bad.What == "argument" {
		bad.What = fmt.Sprintf("argument %d", i)
		return bad
	}
	return err
}
