// Package config loads the mididump configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"moria.us/smf/dump"
)

// A Config contains defaults for command-line flags. Empty fields are unset.
type Config struct {
	Format   string `yaml:"format"`
	Encoding string `yaml:"encoding"`
	Payloads bool   `yaml:"payloads"`
	LogLevel string `yaml:"log_level"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
}

// DefaultPath returns the path to the default configuration file, or "" if
// there is no configuration directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mididump", "config.yaml")
}

// Load loads a configuration file. If name is empty, the default file is
// loaded, and a missing default file gives an empty configuration.
func Load(name string) (*Config, error) {
	explicit := name != ""
	if !explicit {
		name = DefaultPath()
		if name == "" {
			return &Config{}, nil
		}
	}
	data, err := os.ReadFile(name)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return Parse(data, name)
}

// Parse parses the contents of a configuration file. Invalid values are
// logged and cleared.
func Parse(data []byte, name string) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("invalid config %q: %v", name, err)
	}
	log := logrus.StandardLogger().WithField("config", name)
	if c.Format != "" && !validFormat(c.Format) {
		log.Warnf("invalid format: %q", c.Format)
		c.Format = ""
	}
	if c.Encoding != "" {
		if _, err := dump.LookupEncoding(c.Encoding); err != nil {
			log.Warn(err)
			c.Encoding = ""
		}
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			log.Warn(err)
			c.LogLevel = ""
		}
	}
	if c.Port < 0 || c.Port > 65535 {
		log.Warnf("invalid port: %d", c.Port)
		c.Port = 0
	}
	return &c, nil
}

func validFormat(name string) bool {
	for _, f := range dump.Formats {
		if f == name {
			return true
		}
	}
	return false
}
