// Package config loads the application configuration from flags,
// environment and config files, in that precedence order.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Session SessionConfig `mapstructure:"session"`
	Agent   AgentConfig   `mapstructure:"agent"`
	UI      UIConfig      `mapstructure:"ui"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// CatalogConfig configures the catalog backend. Source selects the
// backend: "http" uses BaseURL, "file" serves and watches File.
type CatalogConfig struct {
	Source        string        `mapstructure:"source"`
	BaseURL       string        `mapstructure:"base_url"`
	File          string        `mapstructure:"file"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond int           `mapstructure:"rate_per_second"`
	MaxRetries    int           `mapstructure:"max_retries"`
}

// SessionConfig configures the session service.
type SessionConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AgentConfig configures the recommendation agent service.
type AgentConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// UIConfig configures TUI behavior.
type UIConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
	ToastTTL time.Duration `mapstructure:"toast_ttl"`
	Stats    bool          `mapstructure:"stats"`
}
