package config

import (
	"fmt"
	"os"
	"slices"
)

// Adapter kinds selectable through adapter.kind.
const (
	AdapterMemory   = "memory"
	AdapterFile     = "file"
	AdapterSQLite   = "sqlite"
	AdapterPostgres = "postgres"
	AdapterBlob     = "blob"
)

var adapterKinds = []string{AdapterMemory, AdapterFile, AdapterSQLite, AdapterPostgres, AdapterBlob}

const (
	EnvAdapterKind    = "PROMPTER_ADAPTER_KIND"
	EnvAdapterFileDir = "PROMPTER_ADAPTER_FILE_DIR"
)

// AdapterConfig selects the prompt storage backend.
type AdapterConfig struct {
	Kind string            `toml:"kind"`
	File FileAdapterConfig `toml:"file"`
}

// FileAdapterConfig configures the directory-backed adapter.
type FileAdapterConfig struct {
	Dir string `toml:"dir"`
}

// UsesDatabase reports whether the selected adapter needs pkg/database.
func (c *AdapterConfig) UsesDatabase() bool {
	return c.Kind == AdapterSQLite || c.Kind == AdapterPostgres
}

// UsesStorage reports whether the selected adapter needs pkg/storage.
func (c *AdapterConfig) UsesStorage() bool {
	return c.Kind == AdapterBlob
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AdapterConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AdapterConfig) Merge(overlay *AdapterConfig) {
	if overlay.Kind != "" {
		c.Kind = overlay.Kind
	}
	if overlay.File.Dir != "" {
		c.File.Dir = overlay.File.Dir
	}
}

func (c *AdapterConfig) loadDefaults() {
	if c.Kind == "" {
		c.Kind = AdapterFile
	}
	if c.File.Dir == "" {
		c.File.Dir = "prompts"
	}
}

func (c *AdapterConfig) loadEnv() {
	if v := os.Getenv(EnvAdapterKind); v != "" {
		c.Kind = v
	}
	if v := os.Getenv(EnvAdapterFileDir); v != "" {
		c.File.Dir = v
	}
}

func (c *AdapterConfig) validate() error {
	if !slices.Contains(adapterKinds, c.Kind) {
		return fmt.Errorf("unsupported kind %q", c.Kind)
	}
	return nil
}
