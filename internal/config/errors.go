package config

import (
	"fmt"
	"strings"
)

// ConfigErrorType classifies a ConfigError.
type ConfigErrorType int

const (
	// ConfigNotFound means the settings file does not exist.
	ConfigNotFound ConfigErrorType = iota
	// ConfigInvalid means the settings file could not be read or decoded.
	ConfigInvalid
	// ConfigValidationFailed means a setting holds an unusable value.
	ConfigValidationFailed
)

// String returns a short label for the error type.
func (t ConfigErrorType) String() string {
	switch t {
	case ConfigNotFound:
		return "not found"
	case ConfigInvalid:
		return "invalid"
	case ConfigValidationFailed:
		return "invalid setting"
	default:
		return "unknown"
	}
}

// ConfigError reports a problem with rcsync settings, usually a .rcsync.yaml file.
type ConfigError struct {
	Type ConfigErrorType
	// File is the settings file; empty when the settings did not come from a file.
	File string
	// Field is the dotted YAML path of the offending setting, e.g. "diff.context".
	Field string
	// Value is the rejected value, if any.
	Value   any
	Message string
	Cause   error
}

// Error renders as "<file>: <field>: <message> (got <value>): <cause>".
func (e *ConfigError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
	} else {
		b.WriteString(FileName)
	}
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Value != nil {
		fmt.Fprintf(&b, " (got %q)", fmt.Sprint(e.Value))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// newFileError reports a settings file that could not be loaded.
func newFileError(typ ConfigErrorType, file, message string, cause error) *ConfigError {
	return &ConfigError{Type: typ, File: file, Message: message, Cause: cause}
}

// newFieldError reports a setting that failed validation.
func newFieldError(field string, value any, message string) *ConfigError {
	return &ConfigError{Type: ConfigValidationFailed, Field: field, Value: value, Message: message}
}
