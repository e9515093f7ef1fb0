// Package config loads service configuration from environment variables.
// The engine packages take no configuration; everything here belongs to the
// hosting service.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig
	Admin    AdminConfig
	Database DatabaseConfig
	Limits   LimitsConfig
}

// ServerConfig holds the API server settings.
type ServerConfig struct {
	Port    string
	GinMode string
}

// AdminConfig holds the ops/admin server settings.
type AdminConfig struct {
	Port    string
	Enabled bool
}

// DatabaseConfig holds optional persistence settings. An empty URL selects
// the in-memory session store.
type DatabaseConfig struct {
	URL string
}

// LimitsConfig bounds upload and preview sizes.
type LimitsConfig struct {
	MaxUploadBytes int64
	PreviewRows    int
}

// Load reads configuration from the environment, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    envOr("PORT", "8080"),
			GinMode: envOr("GIN_MODE", "release"),
		},
		Admin: AdminConfig{
			Port:    envOr("ADMIN_PORT", "8081"),
			Enabled: envOr("ADMIN_ENABLED", "true") == "true",
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
	}

	maxUpload, err := envInt64("MAX_UPLOAD_BYTES", 64<<20)
	if err != nil {
		return nil, err
	}
	previewRows, err := envInt64("PREVIEW_ROWS", 50)
	if err != nil {
		return nil, err
	}
	cfg.Limits = LimitsConfig{MaxUploadBytes: maxUpload, PreviewRows: int(previewRows)}

	if cfg.Server.Port == cfg.Admin.Port && cfg.Admin.Enabled {
		return nil, fmt.Errorf("PORT and ADMIN_PORT must differ, both are %s", cfg.Server.Port)
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
