package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, 30*time.Second, cfg.TimeoutDuration())
	assert.Equal(t, -1, cfg.Diff.Context)
	assert.True(t, cfg.Output.Color)
	assert.NoError(t, Validate(cfg))
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
credentials: ./sa.json
project_id: demo
format: json
diff:
  context: 0
output:
  color: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./sa.json", cfg.Credentials)
	assert.Equal(t, "demo", cfg.ProjectID)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 0, cfg.Diff.Context)
	assert.False(t, cfg.Output.Color)
	// Unset fields keep their defaults.
	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, 30, cfg.Timeout)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantType ConfigErrorType
		field    string
	}{
		{name: "invalid yaml", content: "format: [", wantType: ConfigInvalid},
		{name: "unknown field", content: "colour: true\n", wantType: ConfigInvalid},
		{name: "bad format", content: "format: toml\n", wantType: ConfigValidationFailed, field: "format"},
		{name: "negative timeout", content: "timeout: -1\n", wantType: ConfigValidationFailed, field: "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			require.Error(t, err)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantType, cfgErr.Type)
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Equal(t, path, cfgErr.File)
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{
			name: "field in file",
			err:  &ConfigError{Type: ConfigValidationFailed, File: "/w/.rcsync.yaml", Field: "timeout", Value: -1, Message: "timeout cannot be negative"},
			want: `/w/.rcsync.yaml: timeout: timeout cannot be negative (got "-1")`,
		},
		{
			name: "field without file",
			err:  newFieldError("format", "toml", "unsupported format, want yaml or json"),
			want: `.rcsync.yaml: format: unsupported format, want yaml or json (got "toml")`,
		},
		{
			name: "file with cause",
			err:  newFileError(ConfigInvalid, "/w/.rcsync.yaml", "invalid YAML", errors.New("line 1: bad")),
			want: "/w/.rcsync.yaml: invalid YAML: line 1: bad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
	assert.Equal(t, "invalid setting", ConfigValidationFailed.String())
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), FileName))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("invalid file is not masked", func(t *testing.T) {
		_, err := LoadOrDefault(writeConfig(t, "format: ["))
		require.Error(t, err)
	})
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		initial  Config
		wantCred string
		wantProj string
		wantFmt  string
	}{
		{
			name:     "rcsync credentials win",
			env:      map[string]string{EnvCredentials: "a.json", EnvGoogleCredentials: "b.json"},
			wantCred: "a.json",
		},
		{
			name:     "google credentials fill empty value",
			env:      map[string]string{EnvGoogleCredentials: "b.json"},
			wantCred: "b.json",
		},
		{
			name:     "google credentials do not override file",
			env:      map[string]string{EnvGoogleCredentials: "b.json"},
			initial:  Config{Credentials: "file.json"},
			wantCred: "file.json",
		},
		{
			name:     "project and format",
			env:      map[string]string{EnvProject: "demo", EnvFormat: "json"},
			initial:  Config{Format: "yaml"},
			wantProj: "demo",
			wantFmt:  "json",
		},
		{
			name:    "blank values ignored",
			env:     map[string]string{EnvFormat: "  "},
			initial: Config{Format: "yaml"},
			wantFmt: "yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			ApplyEnv(&cfg, func(k string) (string, bool) {
				v, ok := tt.env[k]
				return v, ok
			})
			assert.Equal(t, tt.wantCred, cfg.Credentials)
			assert.Equal(t, tt.wantProj, cfg.ProjectID)
			assert.Equal(t, tt.wantFmt, cfg.Format)
		})
	}
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join("proj", FileName), ResolvePath("proj", ""))
	assert.Equal(t, FileName, ResolvePath("", ""))
	assert.Equal(t, "custom.yaml", ResolvePath("proj", "custom.yaml"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x"), got)

	got, err = ExpandPath("")
	require.NoError(t, err)
	assert.Empty(t, got)
}
