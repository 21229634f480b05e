package eval

import (
	"errors"

	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
)

// Miscellaneous builtins.

func init() {
	addBuiltinFns(map[string]any{
		"type":    vals.TypeName,
		"bool":    truthy,
		"defined": defined,
	})
}

// truthy converts a value to a bool: null, false, zero, and empty strings,
// lists and maps are false; everything else is true.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case int:
		return v != 0
	case float64:
		return v != 0
	}
	if n, ok := vals.Len(v); ok {
		return n > 0
	}
	return true
}

// defined returns whether a name resolves in the frame, without triggering
// an error when it does not.
func defined(fm *Frame, name string) (bool, error) {
	_, err := fm.Resolve(name)
	if err == nil {
		return true, nil
	}
	var notFound *NameNotFoundError
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, err
}
