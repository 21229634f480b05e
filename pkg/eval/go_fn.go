package eval

import (
	"reflect"

	"github.com/dr-dahou-adrar/sacred/pkg/eval/errs"
	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
)

type goFn struct {
	name string
	impl any

	// Type information of impl.

	// If true, pass the frame as a *Frame argument.
	frame bool
	// Type of "normal" (non-frame, non-variadic) arguments.
	normalArgs []reflect.Type
	// If not nil, type of variadic arguments.
	variadicArg reflect.Type
}

var frameType = reflect.TypeOf((*Frame)(nil))

// NewGoFn wraps a Go function into a Callable using reflection.
//
// If the first parameter of the function has type *Frame, it gets the frame
// of the call. Other parameters are converted using vals.ScanToGo; the
// function may be variadic.
//
// The function may return nothing, one value, an error, or one value and an
// error. The value is converted with vals.Normalize, so Go functions may
// return any integer types, typed slices and maps.
func NewGoFn(name string, impl any) Callable {
	implType := reflect.TypeOf(impl)
	if implType.Kind() != reflect.Func {
		panic("NewGoFn called with a non-function")
	}
	b := &goFn{name: name, impl: impl}

	i := 0
	if i < implType.NumIn() && implType.In(i) == frameType {
		b.frame = true
		i++
	}
	for ; i < implType.NumIn(); i++ {
		paramType := implType.In(i)
		if i == implType.NumIn()-1 && implType.IsVariadic() {
			b.variadicArg = paramType.Elem()
			break
		}
		b.normalArgs = append(b.normalArgs, paramType)
	}
	return b
}

// Kind returns "fn".
func (*goFn) Kind() string { return "fn" }

// Equal compares identity.
func (b *goFn) Equal(rhs any) bool { return b == rhs }

// Repr returns an opaque representation "<builtin name>".
func (b *goFn) Repr() string { return "<builtin " + b.name + ">" }

// error(nil) is treated as nil by reflect.TypeOf, so we first get the type of
// *error and use Elem to obtain type of error.
var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Call calls the implementation using reflection.
func (b *goFn) Call(fm *Frame, args []any) (any, error) {
	if b.variadicArg != nil {
		if len(args) < len(b.normalArgs) {
			return nil, errs.ArityMismatch{What: "arguments of " + b.name,
				ValidLow: len(b.normalArgs), ValidHigh: -1, Actual: len(args)}
		}
	} else if len(args) != len(b.normalArgs) {
		return nil, errs.ArityMismatch{What: "arguments of " + b.name,
			ValidLow: len(b.normalArgs), ValidHigh: len(b.normalArgs), Actual: len(args)}
	}

	var in []reflect.Value
	if b.frame {
		in = append(in, reflect.ValueOf(fm))
	}
	for i, arg := range args {
		var typ reflect.Type
		if i < len(b.normalArgs) {
			typ = b.normalArgs[i]
		} else {
			typ = b.variadicArg
		}
		ptr := reflect.New(typ)
		err := vals.ScanToGo(arg, ptr.Interface())
		if err != nil {
			return nil, vals.ErrorWithArg(err, i+1)
		}
		in = append(in, ptr.Elem())
	}

	outs := reflect.ValueOf(b.impl).Call(in)

	if len(outs) > 0 && outs[len(outs)-1].Type() == errorType {
		err := outs[len(outs)-1].Interface()
		if err != nil {
			return nil, err.(error)
		}
		outs = outs[:len(outs)-1]
	}
	if len(outs) == 0 {
		return nil, nil
	}
	return vals.Normalize(outs[0].Interface()), nil
}
