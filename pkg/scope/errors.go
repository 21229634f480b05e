package scope

import (
	"fmt"
	"strings"

	"github.com/dr-dahou-adrar/sacred/pkg/diag"
	"github.com/dr-dahou-adrar/sacred/pkg/eval"
)

// NameNotFoundError is returned by Env.Get for names that are not defined.
type NameNotFoundError = eval.NameNotFoundError

// ConstructionError is returned when a scope cannot be constructed from its
// declaration.
type ConstructionError struct {
	Scope   string
	Message string
	// The offending part of the declaration, when the scope was loaded from
	// source. Nil otherwise.
	Context *diag.Context
}

func (e *ConstructionError) Error() string {
	if e.Context != nil {
		return fmt.Sprintf("cannot construct scope %s: %s: %s", e.Scope, e.Context.Describe(), e.Message)
	}
	return fmt.Sprintf("cannot construct scope %s: %s", e.Scope, e.Message)
}

// Show shows the error, with the declaration it is about when known.
func (e *ConstructionError) Show(indent string) string {
	header := "Cannot construct scope " + e.Scope + ": " + diag.Message(e.Message)
	if e.Context == nil {
		return header
	}
	return header + "\n" + indent + "  " + e.Context.ShowCompact(indent+"  ")
}

// MissingBindingError is returned by Scope.Evaluate when a declared parameter
// is found in neither the preset nor the fallback.
type MissingBindingError struct {
	Scope string
	Param string
	// Sorted keys of the preset and the fallback.
	Available []string
}

func (e *MissingBindingError) Error() string {
	return fmt.Sprintf("parameter %s of scope %s is not in the preset or the fallback; available entries: [%s]",
		e.Param, e.Scope, strings.Join(e.Available, ", "))
}

// AccessBeforeEvaluationError is returned when the result of a scope is
// accessed before the scope has been evaluated successfully.
type AccessBeforeEvaluationError struct {
	Scope string
}

func (e *AccessBeforeEvaluationError) Error() string {
	return "scope " + e.Scope + " has not been evaluated"
}

// NoSuchKeyError is returned by Scope.Get for keys that are not in the
// snapshot.
type NoSuchKeyError struct {
	Scope string
	Key   string
}

func (e *NoSuchKeyError) Error() string {
	return fmt.Sprintf("scope %s has no key %s", e.Scope, e.Key)
}
