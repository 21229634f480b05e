package eval

var builtinFns = map[string]Callable{}

func addBuiltinFns(fns map[string]any) {
	for name, impl := range fns {
		builtinFns[name] = NewGoFn(name, impl)
	}
}
