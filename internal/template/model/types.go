package model

import (
	"fmt"
	"strings"
)

// Directory and file names of the local checkout.
const (
	// ParametersDir holds one file per top-level parameter.
	ParametersDir = "parameters"
	// ParameterGroupsDir holds one directory per parameter group.
	ParameterGroupsDir = "parameterGroups"
	// DefaultsXMLFile is the static XML export of default values.
	DefaultsXMLFile = "default.xml"
	// DefaultsPlistFile is the static PLIST export of default values.
	DefaultsPlistFile = "default.plist"
)

// ValueType is the declared type of a parameter value.
type ValueType string

const (
	// ValueTypeUnspecified is the zero value reported by the remote store.
	ValueTypeUnspecified ValueType = "PARAMETER_VALUE_TYPE_UNSPECIFIED"
	// ValueTypeString marks plain string parameters.
	ValueTypeString ValueType = "STRING"
	// ValueTypeBoolean marks boolean parameters.
	ValueTypeBoolean ValueType = "BOOLEAN"
	// ValueTypeNumber marks numeric parameters.
	ValueTypeNumber ValueType = "NUMBER"
	// ValueTypeJSON marks parameters whose value strings hold serialized JSON.
	ValueTypeJSON ValueType = "JSON"
)

// Format selects the on-disk representation of a parameter file.
type Format string

const (
	// FormatJSON writes the wire form as indented JSON.
	FormatJSON Format = "json"
	// FormatYAML writes YAML with embedded JSON values pretty-printed.
	FormatYAML Format = "yaml"
)

// DefaultFormat is used when no format is configured.
const DefaultFormat = FormatYAML

// ParseFormat converts a user supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultFormat, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected json or yaml)", s)
	}
}

// String returns the format name.
func (f Format) String() string {
	return string(f)
}
