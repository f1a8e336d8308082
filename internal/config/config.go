// Package config loads the service configuration from TOML files, a .env
// file, and PROMPTER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/prompter/pkg/database"
	"github.com/JaimeStill/prompter/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvPrompterEnv             = "PROMPTER_ENV"
	EnvPrompterShutdownTimeout = "PROMPTER_SHUTDOWN_TIMEOUT"
	EnvPrompterVersion         = "PROMPTER_VERSION"
)

var databaseEnv = &database.Env{
	Driver:          "PROMPTER_DB_DRIVER",
	Host:            "PROMPTER_DB_HOST",
	Port:            "PROMPTER_DB_PORT",
	Name:            "PROMPTER_DB_NAME",
	User:            "PROMPTER_DB_USER",
	Password:        "PROMPTER_DB_PASSWORD",
	SSLMode:         "PROMPTER_DB_SSL_MODE",
	Path:            "PROMPTER_DB_PATH",
	MaxOpenConns:    "PROMPTER_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "PROMPTER_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "PROMPTER_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "PROMPTER_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "PROMPTER_STORAGE_CONTAINER_NAME",
	ConnectionString: "PROMPTER_STORAGE_CONNECTION_STRING",
	ServiceURL:       "PROMPTER_STORAGE_SERVICE_URL",
	Prefix:           "PROMPTER_STORAGE_PREFIX",
	MaxListSize:      "PROMPTER_STORAGE_MAX_LIST_SIZE",
	Concurrency:      "PROMPTER_STORAGE_CONCURRENCY",
}

// Config is the root configuration for the prompter service and CLI.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	API             APIConfig       `toml:"api"`
	Adapter         AdapterConfig   `toml:"adapter"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the PROMPTER_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvPrompterEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads .env (if present), the base config (if present), applies any
// environment overlay, and finalizes all values. If no config.toml exists,
// defaults and environment variables provide all configuration.
//
// Variables already set in the process environment win over .env values.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Parse decodes TOML data into a Config without finalizing it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Adapter.Merge(&overlay.Adapter)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
}

// Finalize applies defaults, environment overrides, and validation to every
// section. Database and storage are only finalized when the selected adapter
// uses them.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Adapter.Finalize(); err != nil {
		return fmt.Errorf("adapter: %w", err)
	}
	if c.Adapter.UsesDatabase() {
		c.alignDriver()
		if err := c.Database.Finalize(databaseEnv); err != nil {
			return fmt.Errorf("database: %w", err)
		}
		if want := c.adapterDriver(); c.Database.Driver != want {
			return fmt.Errorf("adapter %s requires database driver %s, got %s", c.Adapter.Kind, want, c.Database.Driver)
		}
	}
	if c.Adapter.UsesStorage() {
		if err := c.Storage.Finalize(storageEnv); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	}
	return nil
}

// alignDriver selects the database driver implied by the adapter kind
// unless one was configured explicitly.
func (c *Config) alignDriver() {
	if c.Database.Driver != "" || os.Getenv(databaseEnv.Driver) != "" {
		return
	}
	c.Database.Driver = c.adapterDriver()
}

func (c *Config) adapterDriver() string {
	if c.Adapter.Kind == AdapterSQLite {
		return database.DriverSQLite
	}
	return database.DriverPostgres
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvPrompterShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvPrompterVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func overlayPath() string {
	if env := os.Getenv(EnvPrompterEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
