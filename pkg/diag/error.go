package diag

import (
	"fmt"
	"strings"
)

// Error represents an error with context that can be showed.
type Error struct {
	Type    string
	Message string
	Context Context
}

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Type, e.Context.Describe(), e.Message)
}

// Range returns the range of the error.
func (e *Error) Range() Ranging {
	return e.Context.Range()
}

// Show shows the error.
func (e *Error) Show(indent string) string {
	header := title(e.Type) + ": " + messageStart + e.Message + messageEnd + "\n"
	return header + indent + "  " + e.Context.ShowCompact(indent+"  ")
}

// MultiError groups several errors of the same pass, such as all the parse
// errors of one source.
type MultiError []*Error

// Error returns all the messages, separated by "; ".
func (es MultiError) Error() string {
	switch len(es) {
	case 0:
		return "no error"
	case 1:
		return es[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "multiple %ss in %s: ", es[0].Type, es[0].Context.Name)
	for i, e := range es {
		if i > 0 {
			sb.WriteString("; ")
		}
		line, col := e.Context.Position()
		fmt.Fprintf(&sb, "%d:%d: %s", line, col, e.Message)
	}
	return sb.String()
}

// Show shows each error on its own lines.
func (es MultiError) Show(indent string) string {
	if len(es) == 1 {
		return es[0].Show(indent)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Multiple %ss in %s:", es[0].Type, es[0].Context.Name)
	for _, e := range es {
		sb.WriteString("\n" + indent + "  ")
		sb.WriteString(messageStart + e.Message + messageEnd + "\n")
		sb.WriteString(indent + "    " + e.Context.ShowCompact(indent+"    "))
	}
	return sb.String()
}

// Unpack returns the errors in err if it is an *Error or a MultiError.
// Otherwise it returns nil.
func Unpack(err error) []*Error {
	switch err := err.(type) {
	case *Error:
		return []*Error{err}
	case MultiError:
		return err
	}
	return nil
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
