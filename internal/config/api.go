package config

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/JaimeStill/prompter/pkg/middleware"
	"github.com/JaimeStill/prompter/pkg/openapi"
	"github.com/JaimeStill/prompter/pkg/pagination"
)

const (
	EnvAPIBasePath    = "PROMPTER_API_BASE_PATH"
	EnvAPIMaxBodySize = "PROMPTER_API_MAX_BODY_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "PROMPTER_CORS_ENABLED",
	Origins:          "PROMPTER_CORS_ORIGINS",
	AllowedMethods:   "PROMPTER_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "PROMPTER_CORS_ALLOWED_HEADERS",
	AllowCredentials: "PROMPTER_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "PROMPTER_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "PROMPTER_OPENAPI_TITLE",
	Description: "PROMPTER_OPENAPI_DESCRIPTION",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "PROMPTER_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "PROMPTER_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, request limits, CORS, pagination, and
// OpenAPI document settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Pagination  pagination.Config     `toml:"pagination"`
	OpenAPI     openapi.Config        `toml:"openapi"`
}

// MaxBodySizeBytes returns MaxBodySize parsed as a byte count ("1MB", "512 KiB").
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := humanize.ParseBytes(c.MaxBodySize)
	if err != nil {
		return 1 << 20
	}
	return int64(size)
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if _, err := humanize.ParseBytes(c.MaxBodySize); err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxBodySize); v != "" {
		c.MaxBodySize = v
	}
}
