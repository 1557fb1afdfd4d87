package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for semantic errors.
func Validate(cfg Config) error {
	var errs []string

	if cfg.General.PatchesDir == "" {
		errs = append(errs, "general.patches_dir cannot be empty")
	}
	if cfg.History.RetentionDays < 0 {
		errs = append(errs, "history.retention_days cannot be negative")
	}
	if cfg.Watch.DebounceMs < 0 {
		errs = append(errs, "watch.debounce_ms cannot be negative")
	}
	if !oneOf(cfg.Output.Format, "text", "json") {
		errs = append(errs, "output.format must be one of text|json")
	}
	if !oneOf(cfg.Output.Color, "auto", "always", "never") {
		errs = append(errs, "output.color must be one of auto|always|never")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func oneOf(val string, options ...string) bool {
	for _, opt := range options {
		if val == opt {
			return true
		}
	}
	return false
}
