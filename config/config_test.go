package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	type testcase struct {
		text string
		want Config
	}
	cases := []testcase{
		{"", Config{}},
		{"format: json\nencoding: sjis\npayloads: true\n", Config{Format: "json", Encoding: "sjis", Payloads: true}},
		{"log_level: debug\nhost: '*'\nport: 8080\n", Config{LogLevel: "debug", Host: "*", Port: 8080}},
		{"format: xml\n", Config{}},
		{"encoding: ebcdic\nport: 70000\n", Config{}},
		{"log_level: loud\n", Config{}},
	}
	for _, c := range cases {
		cfg, err := Parse([]byte(c.text), "test.yaml")
		if err != nil {
			t.Errorf("Parse(%q): %v", c.text, err)
			continue
		}
		if *cfg != c.want {
			t.Errorf("Parse(%q): got %+v, want %+v", c.text, *cfg, c.want)
		}
	}
}

func TestParseUnknownField(t *testing.T) {
	if _, err := Parse([]byte("colour: blue\n"), "test.yaml"); err == nil {
		t.Error("Parse: got ok, want error")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.yaml")
	if _, err := Load(name); !os.IsNotExist(err) {
		t.Errorf("Load(missing): got %v, want not exist", err)
	}
	if err := os.WriteFile(name, []byte("format: proto\n"), 0666); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(name)
	if err != nil {
		t.Fatal("Load:", err)
	}
	if cfg.Format != "proto" {
		t.Errorf("Load: got format %q, want proto", cfg.Format)
	}
}

func TestLoadDefaultMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatal("Load:", err)
	}
	if *cfg != (Config{}) {
		t.Errorf("Load: got %+v, want empty", *cfg)
	}
}
