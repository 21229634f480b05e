package eval

import (
	"bytes"
	"fmt"

	"github.com/dr-dahou-adrar/sacred/pkg/diag"
)

// Exception is the error returned when running scope code fails. It carries
// the underlying error, which Unwrap returns, together with the stack trace
// of where it happened.
type Exception interface {
	error
	diag.Shower
	Reason() error
	StackTrace() *StackTrace
	Unwrap() error
	// This makes sure that there is only one implementation of Exception.
	isException()
}

// NewException creates a new Exception.
func NewException(reason error, stackTrace *StackTrace) Exception {
	return &exception{reason, stackTrace}
}

// Implementation of the Exception interface.
type exception struct {
	reason     error
	stackTrace *StackTrace
}

// StackTrace represents a stack trace as a linked list of diag.Context. The
// head is the innermost stack.
type StackTrace struct {
	Head *diag.Context
	Next *StackTrace
}

// Reason returns the reason of the exception if err is an Exception.
// Otherwise it returns err itself.
func Reason(err error) error {
	if exc, ok := err.(*exception); ok {
		return exc.reason
	}
	return err
}

func (exc *exception) isException() {}

func (exc *exception) Reason() error { return exc.reason }

func (exc *exception) StackTrace() *StackTrace { return exc.stackTrace }

func (exc *exception) Unwrap() error { return exc.reason }

// Error returns the message of the reason, prefixed with the innermost
// position.
func (exc *exception) Error() string {
	if exc.stackTrace == nil {
		return exc.reason.Error()
	}
	return exc.stackTrace.Head.Describe() + ": " + exc.reason.Error()
}

// Show shows the exception.
func (exc *exception) Show(indent string) string {
	buf := new(bytes.Buffer)

	var causeDescription string
	if shower, ok := exc.reason.(diag.Shower); ok {
		causeDescription = shower.Show(indent)
	} else {
		causeDescription = diag.Message(exc.reason.Error())
	}
	fmt.Fprintf(buf, "Exception: %s", causeDescription)

	if exc.stackTrace != nil {
		buf.WriteString("\n")
		if exc.stackTrace.Next == nil {
			buf.WriteString(indent + "  " + exc.stackTrace.Head.ShowCompact(indent+"  "))
		} else {
			buf.WriteString(indent + "Traceback:")
			for tb := exc.stackTrace; tb != nil; tb = tb.Next {
				buf.WriteString("\n" + indent + "  ")
				buf.WriteString(tb.Head.Show(indent + "    "))
			}
		}
	}
	return buf.String()
}
