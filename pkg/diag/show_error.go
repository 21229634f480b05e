package diag

import (
	"fmt"
	"io"
)

// Markers wrapped around the culprit and the message when showing errors.
// They default to ANSI styles; see UseColor.
var (
	culpritStart       = "\033[1;4m"
	culpritEnd         = "\033[m"
	culpritPlaceHolder = "^"
	messageStart       = "\033[31;1m"
	messageEnd         = "\033[m"
)

// UseColor controls whether Show methods emit ANSI styles. When disabled, the
// culprit is wrapped in "<" and ">" instead.
func UseColor(enabled bool) {
	if enabled {
		culpritStart, culpritEnd = "\033[1;4m", "\033[m"
		messageStart, messageEnd = "\033[31;1m", "\033[m"
	} else {
		culpritStart, culpritEnd = "<", ">"
		messageStart, messageEnd = "", ""
	}
}

// ShowError shows an error to w. It uses the Show method if the error
// implements Shower, and uses Complain to print the error message otherwise.
func ShowError(w io.Writer, err error) {
	if shower, ok := err.(Shower); ok {
		fmt.Fprintln(w, shower.Show(""))
	} else {
		Complain(w, err.Error())
	}
}

// Message wraps msg in the message style.
func Message(msg string) string {
	return messageStart + msg + messageEnd
}

// Complain prints a message to w in the message style, adding a trailing
// newline.
func Complain(w io.Writer, msg string) {
	fmt.Fprintln(w, Message(msg))
}

// Complainf is like Complain, but accepts a format string and arguments.
func Complainf(w io.Writer, format string, args ...any) {
	Complain(w, fmt.Sprintf(format, args...))
}
