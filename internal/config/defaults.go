package config

import "github.com/tacogips/rcsync/internal/template/model"

// FileName is the configuration file looked up in the root directory.
const FileName = ".rcsync.yaml"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Root:    ".",
		Format:  string(model.DefaultFormat),
		Timeout: 30,
		Diff: DiffConfig{
			Context: -1,
		},
		Output: OutputConfig{
			Color: true,
		},
	}
}
