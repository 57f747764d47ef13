package codec

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tacogips/rcsync/internal/template/model"
)

func jsonParameter(defaultValue string, conditional map[string]string) *model.Parameter {
	p := &model.Parameter{
		ValueType:    model.ValueTypeJSON,
		DefaultValue: model.StringValue(defaultValue),
	}
	if conditional != nil {
		p.ConditionalValues = map[string]*model.Value{}
		for name, v := range conditional {
			p.ConditionalValues[name] = model.StringValue(v)
		}
	}
	return p
}

func TestEncodeYAMLBooleanValue(t *testing.T) {
	p := &model.Parameter{
		ValueType:    model.ValueTypeBoolean,
		DefaultValue: model.StringValue("true"),
	}

	out, err := Encode(p, model.FormatYAML)
	require.NoError(t, err)

	assert.Contains(t, string(out), `value: "true"`)
	assert.Contains(t, string(out), "valueType: BOOLEAN")
}

func TestEncodeYAMLPrettyPrintsJSONValues(t *testing.T) {
	p := jsonParameter(`{"title":"Hi"}`, map[string]string{"ios": `[1,2]`})

	out, err := Encode(p, model.FormatYAML)
	require.NoError(t, err)

	var doc struct {
		DefaultValue struct {
			Value string `yaml:"value"`
		} `yaml:"defaultValue"`
		ConditionalValues map[string]struct {
			Value string `yaml:"value"`
		} `yaml:"conditionalValues"`
	}
	require.NoError(t, yaml.Unmarshal(out, &doc))

	assert.Equal(t, "{\n  \"title\": \"Hi\"\n}", doc.DefaultValue.Value)
	assert.Equal(t, "[\n  1,\n  2\n]", doc.ConditionalValues["ios"].Value)
	assert.Contains(t, string(out), "value: |-")

	// The input parameter is not rewritten.
	assert.Equal(t, `{"title":"Hi"}`, *p.DefaultValue.Value)
}

func TestEncodeYAMLRolloutValue(t *testing.T) {
	p := &model.Parameter{
		ValueType: model.ValueTypeJSON,
		DefaultValue: &model.Value{
			RolloutValue: &model.RolloutValue{RolloutID: "rollout_1", Value: `{"a":1}`, Percent: 25},
		},
	}

	out, err := Encode(p, model.FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(out), "rolloutId: rollout_1")

	decoded, err := Decode(out, model.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, decoded.DefaultValue.RolloutValue.Value)
	assert.Equal(t, 25.0, decoded.DefaultValue.RolloutValue.Percent)
}

func TestEncodeJSONIsWireFaithful(t *testing.T) {
	p := jsonParameter(`{"title":"Hi"}`, nil)

	out, err := Encode(p, model.FormatJSON)
	require.NoError(t, err)

	expected := "{\n" +
		"  \"defaultValue\": {\n" +
		"    \"value\": \"{\\\"title\\\":\\\"Hi\\\"}\"\n" +
		"  },\n" +
		"  \"valueType\": \"JSON\"\n" +
		"}\n"
	assert.Equal(t, expected, string(out))
}

func TestRoundTrip(t *testing.T) {
	params := map[string]*model.Parameter{
		"boolean": {
			ValueType:    model.ValueTypeBoolean,
			DefaultValue: model.StringValue("true"),
			Description:  "toggles the feature",
		},
		"number": {
			ValueType:    model.ValueTypeNumber,
			DefaultValue: model.StringValue("1.50"),
		},
		"in_app_default": {
			ValueType:         model.ValueTypeString,
			DefaultValue:      &model.Value{UseInAppDefault: true},
			ConditionalValues: map[string]*model.Value{"beta": model.StringValue("")},
		},
		"json_plain": jsonParameter(`{"title":"Hi","n":1.0e3,"list":[true,null]}`, nil),
		"json_conditional": jsonParameter(`{}`, map[string]string{
			"ios":     `{"nested":{"k":"v"}}`,
			"android": `"just a string"`,
		}),
		"personalized": {
			ValueType: model.ValueTypeString,
			DefaultValue: &model.Value{
				PersonalizationValue: &model.PersonalizationValue{PersonalizationID: "p1"},
			},
		},
	}

	for _, format := range []model.Format{model.FormatJSON, model.FormatYAML} {
		for name, p := range params {
			t.Run(string(format)+"/"+name, func(t *testing.T) {
				out, err := Encode(p, format)
				require.NoError(t, err)

				decoded, err := Decode(out, format)
				require.NoError(t, err)
				assert.Equal(t, p, decoded)
			})
		}
	}
}

func TestDecodeYAMLMinifiesEditedJSON(t *testing.T) {
	input := `defaultValue:
  value: |
    {
      "title": "Hello",
      "count": 10
    }
valueType: JSON
`
	p, err := Decode([]byte(input), model.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Hello","count":10}`, *p.DefaultValue.Value)
}

func TestDecodeYAMLUnquotedScalar(t *testing.T) {
	p, err := Decode([]byte("defaultValue:\n  value: true\nvalueType: BOOLEAN\n"), model.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "true", *p.DefaultValue.Value)
}

func TestDecodeJSONAcceptsComments(t *testing.T) {
	input := `{
  // edited by hand
  "defaultValue": {"value": "{\"a\": 1}"},
  "valueType": "JSON",
}`
	p, err := Decode([]byte(input), model.FormatJSON)
	require.NoError(t, err)
	// The json format keeps JSON-typed strings byte for byte.
	assert.Equal(t, `{"a": 1}`, *p.DefaultValue.Value)
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name     string
		format   model.Format
		input    string
		wantSlot string
	}{
		{
			name:     "yaml invalid embedded JSON",
			format:   model.FormatYAML,
			input:    "defaultValue:\n  value: \"{not json\"\nvalueType: JSON\n",
			wantSlot: "defaultValue.value",
		},
		{
			name:     "json invalid embedded JSON",
			format:   model.FormatJSON,
			input:    `{"defaultValue": {"value": "{not json"}, "valueType": "JSON"}`,
			wantSlot: "defaultValue.value",
		},
		{
			name:     "conditional slot",
			format:   model.FormatYAML,
			input:    "defaultValue:\n  value: \"{}\"\nconditionalValues:\n  ios:\n    value: \"[1,\"\nvalueType: JSON\n",
			wantSlot: "conditionalValues[ios].value",
		},
		{
			name:   "invalid yaml",
			format: model.FormatYAML,
			input:  "defaultValue: [unclosed\n",
		},
		{
			name:   "invalid json",
			format: model.FormatJSON,
			input:  `{"defaultValue": `,
		},
		{
			name:   "unknown field",
			format: model.FormatYAML,
			input:  "defaultValu:\n  value: x\n",
		},
		{
			name:   "empty file",
			format: model.FormatJSON,
			input:  "  \n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input), tt.format)
			require.Error(t, err)

			var malformed *MalformedValueError
			require.True(t, errors.As(err, &malformed), "expected MalformedValueError, got %T", err)
			assert.Equal(t, tt.format, malformed.Format)
			assert.Equal(t, tt.wantSlot, malformed.Slot)
		})
	}
}

func TestNonJSONValuesAreNotParsed(t *testing.T) {
	p := &model.Parameter{
		ValueType:    model.ValueTypeString,
		DefaultValue: model.StringValue("{not json"),
	}
	out, err := Encode(p, model.FormatYAML)
	require.NoError(t, err)

	decoded, err := Decode(out, model.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "{not json", *decoded.DefaultValue.Value)
}

func TestPrettyMinifyInverse(t *testing.T) {
	values := []string{
		`{"title":"Hi"}`,
		`{"b":2,"a":[1,2,{"c":null}],"s":"line\nbreak"}`,
		`[1.0, 2.50, -3e-7, 12345678901234567890]`,
		`"plain string"`,
		`true`,
		`{"unicode":"é中"}`,
		`{}`,
	}

	for _, v := range values {
		t.Run(v, func(t *testing.T) {
			var want any
			require.NoError(t, json.Unmarshal([]byte(v), &want))

			pretty, err := PrettyJSON(v)
			require.NoError(t, err)
			minified, err := MinifyJSON(pretty)
			require.NoError(t, err)
			var got any
			require.NoError(t, json.Unmarshal([]byte(minified), &got))
			assert.Equal(t, want, got)

			minified, err = MinifyJSON(v)
			require.NoError(t, err)
			pretty, err = PrettyJSON(minified)
			require.NoError(t, err)
			got = nil
			require.NoError(t, json.Unmarshal([]byte(pretty), &got))
			assert.Equal(t, want, got)
		})
	}
}

func TestMinifyPreservesNumberText(t *testing.T) {
	out, err := MinifyJSON("{ \"price\": 1.50, \"big\": 12345678901234567890 }")
	require.NoError(t, err)
	assert.Equal(t, `{"price":1.50,"big":12345678901234567890}`, out)
}

func TestPrettyJSONRejectsInvalid(t *testing.T) {
	for _, v := range []string{"{not json", "", "   ", `{"a":1} {"b":2}`} {
		_, err := PrettyJSON(v)
		assert.Error(t, err, "input %q", v)
	}
}

func TestSlotString(t *testing.T) {
	assert.Equal(t, "defaultValue.value", Slot{Kind: SlotDefault, Field: FieldValue}.String())
	assert.Equal(t, "conditionalValues[ios].rolloutValue.value",
		Slot{Kind: SlotConditional, Condition: "ios", Field: FieldRolloutValue}.String())
}

func TestVisitValuesOrder(t *testing.T) {
	p := jsonParameter(`1`, map[string]string{"b": `2`, "a": `3`})
	var visited []string
	err := VisitValues(p, func(slot Slot, _ *model.Value) error {
		visited = append(visited, slot.String())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"defaultValue", "conditionalValues[a]", "conditionalValues[b]"}, visited)
}
