package logutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggersShareOutput(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })

	l1 := GetLogger("[one] ")
	var buf bytes.Buffer
	SetOutput(&buf)
	l2 := GetLogger("[two] ")

	l1.Print("foo")
	l2.Print("bar")

	got := buf.String()
	for _, want := range []string{"[one] ", "foo\n", "[two] ", "bar\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q does not contain %q", got, want)
		}
	}
}

func TestOutputIsDiscardedByDefault(t *testing.T) {
	// Must not panic or write anywhere visible.
	GetLogger("[discard] ").Print("nothing")
	Discard.Print("nothing")
}

func TestSetOutputFile(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })

	logger := GetLogger("[file] ")
	fname := filepath.Join(t.TempDir(), "log")
	if err := SetOutputFile(fname); err != nil {
		t.Fatalf("SetOutputFile: %v", err)
	}
	logger.Print("to the file")
	// Closes the file.
	if err := SetOutputFile(""); err != nil {
		t.Fatalf("SetOutputFile(\"\"): %v", err)
	}
	logger.Print("dropped")

	content, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "[file] ") || !strings.Contains(string(content), "to the file\n") {
		t.Errorf("log file content = %q", content)
	}
	if strings.Contains(string(content), "dropped") {
		t.Errorf("log file has output written after it was replaced: %q", content)
	}
}

func TestSetOutputFile_BadPath(t *testing.T) {
	err := SetOutputFile(filepath.Join(t.TempDir(), "no", "such", "dir", "log"))
	if err == nil {
		t.Errorf("SetOutputFile with a bad path returned no error")
	}
}
