package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tacogips/rcsync/internal/debug"
)

// Environment variables consulted by ApplyEnv, in precedence order per field.
const (
	EnvCredentials       = "RCSYNC_CREDENTIALS"
	EnvGoogleCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvProject           = "RCSYNC_PROJECT"
	EnvFormat            = "RCSYNC_FORMAT"
)

// Load reads the configuration file at path and merges it over DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, newFileError(ConfigNotFound, path, "settings file not found", err)
		}
		return nil, newFileError(ConfigInvalid, path, "failed to read settings file", err)
	}

	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, newFileError(ConfigInvalid, path, "invalid YAML", err)
		}
	}

	if err := Validate(cfg); err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.File = path
		}
		return nil, err
	}

	debug.Debug("[config] Loaded configuration from %s", path)
	return cfg, nil
}

// LoadOrDefault loads configuration or returns defaults if the file doesn't exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) && cfgErr.Type == ConfigNotFound {
			debug.Debug("[config] No configuration at %s, using defaults", path)
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides file values with environment variables.
// lookup is os.LookupEnv outside tests.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(name string) string {
		v, ok := lookup(name)
		if !ok {
			return ""
		}
		return strings.TrimSpace(v)
	}

	if v := get(EnvCredentials); v != "" {
		cfg.Credentials = v
	} else if v := get(EnvGoogleCredentials); v != "" && cfg.Credentials == "" {
		cfg.Credentials = v
	}
	if v := get(EnvProject); v != "" {
		cfg.ProjectID = v
	}
	if v := get(EnvFormat); v != "" {
		cfg.Format = v
	}
}

// ResolvePath returns the configuration file location for root,
// or explicit when it is non-empty.
func ResolvePath(root, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if root == "" {
		root = "."
	}
	return filepath.Join(root, FileName)
}

// ExpandPath expands ~ to home directory and evaluates relative paths.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		if path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:]), nil
		}
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	return absPath, nil
}
