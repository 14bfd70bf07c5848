package mapfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	cases := map[string][]byte{
		"empty.mid": {},
		"head.mid":  []byte("MThd\x00\x00\x00\x06\x00\x00\x00\x01\x00\x60"),
	}
	for name, content := range cases {
		fname := filepath.Join(dir, name)
		if err := os.WriteFile(fname, content, 0666); err != nil {
			t.Fatal(err)
		}
		f, err := Open(fname)
		if err != nil {
			t.Errorf("Open(%q): %v", name, err)
			continue
		}
		if !bytes.Equal(f.Data(), content) {
			t.Errorf("Open(%q): got %q, want %q", name, f.Data(), content)
		}
		if err := f.Close(); err != nil {
			t.Errorf("Close(%q): %v", name, err)
		}
		if f.Data() != nil || f.Mapped() {
			t.Errorf("Close(%q): data still present", name)
		}
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.mid")); !os.IsNotExist(err) {
		t.Errorf("Open(missing): got %v, want not exist", err)
	}
}
