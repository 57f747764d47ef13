package config

import (
	"github.com/tacogips/rcsync/internal/template/model"
)

// Validate validates the configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return newFieldError("", nil, "configuration cannot be nil")
	}
	if _, err := model.ParseFormat(cfg.Format); err != nil {
		return newFieldError("format", cfg.Format, "unsupported format, want yaml or json")
	}
	if cfg.Timeout < 0 {
		return newFieldError("timeout", cfg.Timeout, "timeout cannot be negative")
	}
	return nil
}
