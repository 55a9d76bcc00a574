package config

import (
	"fmt"
	"os"

	"github.com/skinatlas/skinrest/pkg/formatting"
	"github.com/skinatlas/skinrest/pkg/middleware"
	"github.com/skinatlas/skinrest/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "SKINREST_CORS_ENABLED",
	Origins:          "SKINREST_CORS_ORIGINS",
	AllowedMethods:   "SKINREST_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "SKINREST_CORS_ALLOWED_HEADERS",
	AllowCredentials: "SKINREST_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "SKINREST_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "SKINREST_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "SKINREST_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds upload limits, CORS, and pagination settings.
type APIConfig struct {
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
}

// MaxUploadSizeBytes returns the upload limit as a byte count.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 32 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("max_upload_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "32MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("SKINREST_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}
