package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v:         viper.New(),
		envPrefix: "BOOKSCOUT",
	}
}

// NewLoaderWithViper creates a loader using an existing viper instance,
// which allows integration with CLI flag bindings.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{
		v:         v,
		envPrefix: "BOOKSCOUT",
	}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (BOOKSCOUT_*)
// 3. Project config (.bookscout.yaml in current directory)
// 4. User config (~/.config/bookscout/config.yaml)
// 5. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName(".bookscout")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "bookscout"))
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values.
func (l *Loader) setDefaults() {
	l.v.SetDefault("log.level", "info")
	l.v.SetDefault("log.format", "auto")
	l.v.SetDefault("log.file", "")

	l.v.SetDefault("catalog.source", "http")
	l.v.SetDefault("catalog.base_url", "http://localhost:4100")
	l.v.SetDefault("catalog.file", "")
	l.v.SetDefault("catalog.timeout", "15s")
	l.v.SetDefault("catalog.rate_per_second", 5)
	l.v.SetDefault("catalog.max_retries", 2)

	l.v.SetDefault("session.base_url", "http://localhost:4200")
	l.v.SetDefault("session.timeout", "10s")

	l.v.SetDefault("agent.base_url", "http://localhost:4300")
	l.v.SetDefault("agent.timeout", "60s")

	l.v.SetDefault("ui.debounce", "300ms")
	l.v.SetDefault("ui.toast_ttl", "4s")
	l.v.SetDefault("ui.stats", false)
}
