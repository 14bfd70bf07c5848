package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

var testFile = []byte{
	'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 1, 0, 1, 0, 96,
	'M', 'T', 'r', 'k', 0, 0, 0, 11,
	0, 0x90, 60, 100,
	0x60, 60, 0,
	0, 0xff, 0x2f, 0,
	// Extra byte after the final track.
	0,
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	fname := filepath.Join(dir, name)
	if err := os.WriteFile(fname, data, 0666); err != nil {
		t.Fatal(err)
	}
	return fname
}

func run(t *testing.T, args ...string) (string, error) {
	// Keep the user's configuration out of the test.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDump(t *testing.T) {
	name := writeFile(t, t.TempDir(), "a.mid", testFile)
	out, err := run(t, "dump", name)
	if err != nil {
		t.Fatal("dump:", err)
	}
	for _, want := range []string{
		"header\n  size: 6\n  format: 1 [multiple tracks]\n",
		"track-midi\n  time: 96\n  status: 9 [Note On]\n  channel: 0\n  param1: 60 [C4]\n  param2: 0\n",
		"eob\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump: missing %q in:\n%s", want, out)
		}
	}
}

func TestDefaultCommand(t *testing.T) {
	name := writeFile(t, t.TempDir(), "a.mid", testFile)
	out, err := run(t, "--format=json", name)
	if err != nil {
		t.Fatal("mididump:", err)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	// header, track, 3 events, eob
	if len(lines) != 6 {
		t.Errorf("got %d lines, want 6:\n%s", len(lines), out)
	}
}

func TestDumpOutput(t *testing.T) {
	dir := t.TempDir()
	name := writeFile(t, dir, "a.mid", testFile)
	oname := filepath.Join(dir, "out.bin")
	if _, err := run(t, "dump", "--format=proto", "--output="+oname, name); err != nil {
		t.Fatal("dump:", err)
	}
	data, err := os.ReadFile(oname)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("empty output file")
	}
}

func TestDumpMalformed(t *testing.T) {
	data := append([]byte(nil), testFile...)
	data[23] = 0xf3
	name := writeFile(t, t.TempDir(), "bad.mid", data)
	if _, err := run(t, "dump", name); err == nil {
		t.Error("dump: got no error for malformed file")
	}
}

func TestInfo(t *testing.T) {
	name := writeFile(t, t.TempDir(), "a.mid", testFile)
	out, err := run(t, "info", "--format=json", name)
	if err != nil {
		t.Fatal("info:", err)
	}
	var fi fileInfo
	if err := json.Unmarshal([]byte(out), &fi); err != nil {
		t.Fatalf("Unmarshal(%q): %v", out, err)
	}
	s := fi.Summary
	if s.Tracks != 1 || s.Channel != 2 || s.Meta != 1 || s.Size != len(testFile) || s.Bytes != len(testFile)-1 {
		t.Errorf("info: got %+v", s)
	}
}

func TestConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	name := writeFile(t, dir, "a.mid", testFile)
	cname := writeFile(t, dir, "config.yaml", []byte("format: json\n"))
	out, err := run(t, "info", "--config="+cname, name)
	if err != nil {
		t.Fatal("info:", err)
	}
	if !strings.HasPrefix(out, "{") {
		t.Errorf("config format not applied: %q", out)
	}
	out, err = run(t, "info", "--config="+cname, "--format=text", name)
	if err != nil {
		t.Fatal("info:", err)
	}
	if !strings.Contains(out, "  channel events: 2\n") {
		t.Errorf("flag did not override config: %q", out)
	}
}
