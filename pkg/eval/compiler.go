package eval

import (
	"fmt"

	"github.com/dr-dahou-adrar/sacred/pkg/diag"
	"github.com/dr-dahou-adrar/sacred/pkg/parse"
)

// CompilationError is the type of errors found when compiling scope code.
type CompilationError = diag.Error

// CompilationErrorType is the Type of all compilation errors.
const CompilationErrorType = "compilation error"

// compiler maintains the set of states needed when compiling a single chunk.
type compiler struct {
	// Information about the source.
	srcMeta parse.Source
	// Number of enclosing loops in the current function.
	loops int
	// Number of enclosing functions.
	fns int
}

func compile(src parse.Source, chunk *parse.Chunk) (op effectOp, err error) {
	cp := &compiler{srcMeta: src}
	defer func() {
		r := recover()
		if r == nil {
			return
		} else if e := GetCompilationError(r); e != nil {
			// Save the compilation error and stop the panic.
			err = e
		} else {
			// Resume the panic; it is not supposed to be handled here.
			panic(r)
		}
	}()
	return cp.chunkOp(chunk), nil
}

func (cp *compiler) errorpf(r diag.Ranger, format string, args ...any) {
	// The panic is caught by the recover in compile above.
	panic(&CompilationError{
		Type:    CompilationErrorType,
		Message: fmt.Sprintf(format, args...),
		Context: *diag.NewContext(cp.srcMeta.Name, cp.srcMeta.Code, r)})
}

// GetCompilationError returns a *CompilationError if the given value is a
// compilation error. Otherwise it returns nil.
func GetCompilationError(e any) *CompilationError {
	if e, ok := e.(*CompilationError); ok && e.Type == CompilationErrorType {
		return e
	}
	return nil
}
