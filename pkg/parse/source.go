package parse

import (
	"os"
	"path/filepath"
)

// Source describes a piece of source code.
type Source struct {
	Name   string
	Code   string
	IsFile bool
}

// SourceForTest returns a Source used for testing.
func SourceForTest(code string) Source {
	return Source{Name: "[test]", Code: code}
}

// ReadFile reads a Source from a file. The name of the Source is the absolute
// path of the file when it can be determined.
func ReadFile(path string) (Source, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return Source{}, err
	}
	name := path
	if abs, err := filepath.Abs(path); err == nil {
		name = abs
	}
	return Source{Name: name, Code: string(code), IsFile: true}, nil
}
