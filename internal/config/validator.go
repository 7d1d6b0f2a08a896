package config

import (
	"fmt"
	"strings"

	"bookscout/internal/core"
)

// Validate checks a loaded configuration for inconsistencies that
// would only surface as confusing runtime failures.
func Validate(cfg *Config) error {
	var problems []string

	switch cfg.Catalog.Source {
	case "http":
		if cfg.Catalog.BaseURL == "" {
			problems = append(problems, "catalog.base_url is required when catalog.source is http")
		}
	case "file":
		if cfg.Catalog.File == "" {
			problems = append(problems, "catalog.file is required when catalog.source is file")
		}
	default:
		problems = append(problems, fmt.Sprintf("catalog.source must be http or file, got %q", cfg.Catalog.Source))
	}

	if cfg.Session.BaseURL == "" {
		problems = append(problems, "session.base_url is required")
	}
	if cfg.Agent.BaseURL == "" {
		problems = append(problems, "agent.base_url is required")
	}

	if cfg.UI.Debounce <= 0 {
		problems = append(problems, "ui.debounce must be positive")
	}
	if cfg.UI.ToastTTL <= 0 {
		problems = append(problems, "ui.toast_ttl must be positive")
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", cfg.Log.Level))
	}

	if len(problems) > 0 {
		return core.NewDomainError(core.ErrCatValidation,
			"invalid configuration:\n  - "+strings.Join(problems, "\n  - "), nil)
	}
	return nil
}
