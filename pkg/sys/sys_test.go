package sys

import (
	"os"
	"testing"
)

func TestIsATTY_Pipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	if IsATTY(r.Fd()) || IsATTYFile(w) {
		t.Errorf("a pipe is reported as a terminal")
	}
}

func TestIsATTYFile_Nil(t *testing.T) {
	if IsATTYFile(nil) {
		t.Errorf("IsATTYFile(nil) = true")
	}
}

func TestIsATTY_RegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "file")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsATTYFile(f) {
		t.Errorf("a regular file is reported as a terminal")
	}
}
