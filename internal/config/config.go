// Package config loads nodeedit settings from YAML or TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/kevinwang15/nodeedit"
)

// Config holds the user-tunable settings.
type Config struct {
	// Indent is the number of spaces per level for inserted structure.
	Indent int `yaml:"indent" toml:"indent"`
	// Tabs indents inserted structure with tabs instead of spaces.
	Tabs bool `yaml:"tabs" toml:"tabs"`
	// DetectIndent copies the indentation of the edited document,
	// overriding Indent and Tabs.
	DetectIndent bool `yaml:"detect_indent" toml:"detect_indent"`
	// Verify checks every patched document against the intended change.
	Verify bool `yaml:"verify" toml:"verify"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" toml:"log_level"`
	// Color is one of auto, always, never.
	Color string `yaml:"color" toml:"color"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Indent:   2,
		Verify:   true,
		LogLevel: "info",
		Color:    "auto",
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// The format is chosen by extension: .yaml/.yml or .toml.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return cfg, fmt.Errorf("config: unknown key %q in %s", undec[0].String(), path)
		}
	default:
		return cfg, fmt.Errorf("config: unsupported format %q", filepath.Ext(path))
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Indent < 1 || c.Indent > 8 {
		return fmt.Errorf("config: indent must be between 1 and 8, got %d", c.Indent)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config: color must be auto, always or never, got %q", c.Color)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (log.Level, error) {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("config: %w", err)
	}
	return lvl, nil
}

// PatchOptions maps the settings onto nodeedit.PatchOptions.
func (c Config) PatchOptions() *nodeedit.PatchOptions {
	indent := strings.Repeat(" ", c.Indent)
	if c.Tabs {
		indent = "\t"
	}
	return &nodeedit.PatchOptions{Indent: indent, DetectIndent: c.DetectIndent, SkipVerify: !c.Verify}
}
