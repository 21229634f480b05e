package testutil

import "strings"

// Dedent removes the longest common run of leading spaces and tabs from every
// non-blank line of text. An initial newline is removed, and lines containing
// only whitespace become empty.
//
// This lets multi-line raw strings be indented along with the surrounding
// code:
//
//	src := Dedent(`
//		a = 1
//		b = a + 1`)
func Dedent(text string) string {
	text = strings.TrimPrefix(text, "\n")
	lines := strings.Split(text, "\n")

	margin := ""
	first := true
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			lines[i] = ""
			continue
		}
		indent := line[:len(line)-len(trimmed)]
		if first {
			margin, first = indent, false
		} else {
			margin = commonPrefix(margin, indent)
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
