package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTemplate() *Template {
	return &Template{
		ETag:       "etag-42",
		Conditions: json.RawMessage(`[{"name":"ios","expression":"device.os == 'ios'"}]`),
		Parameters: map[string]*Parameter{
			"feature_flag": {
				ValueType:    ValueTypeBoolean,
				DefaultValue: StringValue("true"),
				ConditionalValues: map[string]*Value{
					"ios": StringValue("false"),
				},
			},
		},
		ParameterGroups: map[string]*ParameterGroup{
			"onboarding": {
				Parameters: map[string]*Parameter{
					"welcome_json": {
						ValueType:    ValueTypeJSON,
						DefaultValue: StringValue(`{"title":"Hi"}`),
					},
				},
			},
		},
		Version: &Version{VersionNumber: "7", UpdateUser: &User{Email: "dev@example.com"}},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{"empty defaults to yaml", "", FormatYAML, false},
		{"json", "json", FormatJSON, false},
		{"yaml", "yaml", FormatYAML, false},
		{"yml alias", "yml", FormatYAML, false},
		{"case insensitive", "JSON", FormatJSON, false},
		{"unknown", "toml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTemplateCloneIsDeep(t *testing.T) {
	original := sampleTemplate()
	clone := original.Clone()

	require.Equal(t, original, clone)

	*clone.Parameters["feature_flag"].DefaultValue.Value = "false"
	clone.Parameters["feature_flag"].ConditionalValues["android"] = StringValue("true")
	clone.ParameterGroups["onboarding"].Parameters["extra"] = &Parameter{}
	clone.Conditions[0] = '{'
	clone.Version.UpdateUser.Email = "other@example.com"

	assert.Equal(t, "true", *original.Parameters["feature_flag"].DefaultValue.Value)
	assert.Len(t, original.Parameters["feature_flag"].ConditionalValues, 1)
	assert.Len(t, original.ParameterGroups["onboarding"].Parameters, 1)
	assert.Equal(t, byte('['), original.Conditions[0])
	assert.Equal(t, "dev@example.com", original.Version.UpdateUser.Email)
}

func TestTemplateWithContent(t *testing.T) {
	remote := sampleTemplate()

	local := remote.WithContent(map[string]*Parameter{
		"new_param": {DefaultValue: StringValue("x")},
	}, nil)

	assert.Equal(t, remote.ETag, local.ETag)
	assert.JSONEq(t, string(remote.Conditions), string(local.Conditions))
	assert.Equal(t, remote.Version, local.Version)
	assert.Contains(t, local.Parameters, "new_param")
	assert.NotNil(t, local.ParameterGroups)
	assert.Empty(t, local.ParameterGroups)

	// The base snapshot is untouched.
	assert.Contains(t, remote.Parameters, "feature_flag")
	assert.NotContains(t, remote.Parameters, "new_param")
}

func TestTemplateJSONOmitsETag(t *testing.T) {
	data, err := json.Marshal(sampleTemplate())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "etag-42")
	assert.Contains(t, string(data), `"parameterGroups"`)
}

func TestParameterCount(t *testing.T) {
	assert.Equal(t, 2, sampleTemplate().ParameterCount())
	var nilTemplate *Template
	assert.Equal(t, 0, nilTemplate.ParameterCount())
	assert.Equal(t, "unknown", nilTemplate.VersionNumber())
}
