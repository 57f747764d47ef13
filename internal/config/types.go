package config

import "time"

// Config represents the rcsync configuration (.rcsync.yaml).
type Config struct {
	// Credentials is the path to a service account JSON file.
	Credentials string `yaml:"credentials,omitempty"`
	// ProjectID is the Firebase project. Empty means the credentials' project_id.
	ProjectID string `yaml:"project_id,omitempty"`
	// Root is the directory holding parameters/ and parameterGroups/.
	Root string `yaml:"root,omitempty"`
	// Format is the on-disk parameter file format (yaml or json).
	Format string `yaml:"format,omitempty"`
	// Timeout is the per-request timeout in seconds.
	Timeout int `yaml:"timeout,omitempty"`
	// Diff configures diff rendering.
	Diff DiffConfig `yaml:"diff"`
	// Output configures terminal output.
	Output OutputConfig `yaml:"output"`
}

// DiffConfig represents diff rendering settings.
type DiffConfig struct {
	// Context is the number of unchanged lines kept around each change.
	// A negative value prints the whole document.
	Context int `yaml:"context"`
}

// OutputConfig represents output and display settings.
type OutputConfig struct {
	// Color enables colored terminal output.
	Color bool `yaml:"color"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}
