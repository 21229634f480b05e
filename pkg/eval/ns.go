package eval

import (
	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
)

// Namespace is the store that scope code reads and assigns names in.
type Namespace interface {
	// Get returns the value of a name. It returns a *NameNotFoundError if the
	// name is not defined.
	Get(name string) (any, error)
	// Set assigns a value to a name.
	Set(name string, v any) error
}

// NameNotFoundError is returned by Namespace.Get when a name is not defined.
type NameNotFoundError struct {
	Name string
}

func (e *NameNotFoundError) Error() string {
	return "name not found: " + e.Name
}

// MapNs is a Namespace backed by a plain map. Assigned values are copied.
type MapNs map[string]any

// Get implements Namespace.
func (ns MapNs) Get(name string) (any, error) {
	if v, ok := ns[name]; ok {
		return v, nil
	}
	return nil, &NameNotFoundError{name}
}

// Set implements Namespace.
func (ns MapNs) Set(name string, v any) error {
	ns[name] = vals.Copy(vals.Normalize(v))
	return nil
}
