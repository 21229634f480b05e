package eval

// Callable wraps the Call method.
type Callable interface {
	// Call calls the receiver in a frame with the given arguments, and returns
	// its result.
	Call(fm *Frame, args []any) (any, error)
}
