// Package config loads the runtime configuration for the triage chat loop.
// Configuration is a single YAML file; every field has a working default so
// a missing file is not an error.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes everything the chat loop needs to assemble a session.
type Config struct {
	// DatabasePath is the SQLite transcript file.
	DatabasePath string `yaml:"database_path"`

	// SpecsDir holds the CUE agent profile files.
	SpecsDir string `yaml:"specs_dir"`

	// Model is the model identifier passed to the decision-maker and the
	// LLM responders.
	Model string `yaml:"model"`

	// HistoryWindow is how many recent transcript entries contextualize
	// each turn.
	HistoryWindow int `yaml:"history_window"`

	// Index configures the document store behind the retrieval responder.
	Index IndexConfig `yaml:"index"`
}

// IndexConfig locates the persistent vector index used for document
// retrieval.
type IndexConfig struct {
	// Path is the on-disk index directory.
	Path string `yaml:"path"`

	// Collection names the document collection inside the index.
	Collection string `yaml:"collection"`

	// TopK is how many documents a retrieval query returns.
	TopK int `yaml:"top_k"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DatabasePath:  "triage.db",
		SpecsDir:      "specs",
		Model:         "claude-sonnet-4-20250514",
		HistoryWindow: 3,
		Index: IndexConfig{
			Path:       "index",
			Collection: "documents",
			TopK:       3,
		},
	}
}

// Load reads a YAML config file and overlays it on the defaults. A missing
// file returns the defaults; a malformed file or one with unknown fields
// (typos) is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func validate(c *Config) error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.HistoryWindow < 0 {
		return fmt.Errorf("history_window must not be negative")
	}
	if c.Index.TopK < 0 {
		return fmt.Errorf("index.top_k must not be negative")
	}
	return nil
}
