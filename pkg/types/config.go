// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared settings for outbound HTTP requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "nutrilabel/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// CatalogConfig locates the SQLite food catalog.
type CatalogConfig struct {
	// DBPath is the SQLite database file (default data/nutrition.db).
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// MaxResults limits name and advanced searches (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ImportConfig holds settings for loading source tables into the catalog.
type ImportConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxRetries bounds retries on HTTP 429 while downloading sources.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `json:"addr" yaml:"addr" mapstructure:"addr"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Development switches to the human-readable console encoder.
	Development bool `json:"development" yaml:"development" mapstructure:"development"`
}

// Config groups all settings read from nutrilabel.yaml and the environment.
type Config struct {
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Import  ImportConfig  `json:"import" yaml:"import" mapstructure:"import"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Catalog: CatalogConfig{DBPath: "data/nutrition.db", MaxResults: 50},
		Import: ImportConfig{
			HTTPConfig: HTTPConfig{Timeout: 60 * time.Second, UserAgent: "nutrilabel/0.1"},
			MaxRetries: 3,
		},
		Server: ServerConfig{Addr: ":8080", AllowedOrigins: []string{"*"}},
		Log:    LogConfig{Level: "info"},
	}
}
