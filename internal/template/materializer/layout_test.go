package materializer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"simple", "feature_flag", false},
		{"digits and dashes", "welcome-2", false},
		{"dots inside", "v1.config", false},
		{"empty", "", true},
		{"dot", ".", true},
		{"dot dot", "..", true},
		{"hidden", ".hidden", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"nul", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var invalid *InvalidKeyError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, tt.key, invalid.Key)
		})
	}
}

func TestLayoutPaths(t *testing.T) {
	layout := NewLayout("/work/config")

	assert.Equal(t, filepath.Join("/work/config", "parameters"), layout.ParametersDir())
	assert.Equal(t, filepath.Join("/work/config", "parameterGroups"), layout.GroupsDir())

	path, err := layout.ParameterPath("feature_flag")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/work/config", "parameters", "feature_flag"), path)

	path, err = layout.GroupParameterPath("onboarding", "welcome_json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/work/config", "parameterGroups", "onboarding", "welcome_json"), path)

	_, err = layout.GroupParameterPath("on/boarding", "welcome_json")
	assert.Error(t, err)

	assert.Equal(t, filepath.Join("/work/config", "default.xml"), layout.DefaultsPath("default.xml"))
}

func TestNewLayoutDefaultsToCurrentDirectory(t *testing.T) {
	assert.Equal(t, ".", NewLayout("").Root)
}
