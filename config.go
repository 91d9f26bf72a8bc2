package pdfstruct

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/pdfstruct/layout"
	"github.com/tsawler/pdfstruct/tables"
	"github.com/tsawler/pdfstruct/text"
)

// Config gathers the thresholds of every stage. Zero fields take their
// defaults.
type Config struct {
	Layout layout.Config `yaml:"layout"`
	Tables tables.Config `yaml:"tables"`
	Text   text.Config   `yaml:"text"`
}

// DefaultConfig returns the default thresholds of every stage
func DefaultConfig() Config {
	return Config{
		Layout: layout.DefaultConfig(),
		Tables: tables.DefaultConfig(),
		Text:   text.DefaultConfig(),
	}
}

// withDefaults fills zero fields. The text extractor applies its own.
func (c Config) withDefaults() Config {
	c.Layout = c.Layout.WithDefaults()
	c.Tables = c.Tables.WithDefaults()
	return c
}

// LoadConfig reads a YAML configuration file
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML configuration over the defaults. Unknown keys
// are rejected; empty input yields the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg.withDefaults(), nil
}
