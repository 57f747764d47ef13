// Package codec converts a single parameter between its wire form and its
// on-disk form.
//
// On the wire, values of JSON-typed parameters are strings holding serialized
// JSON. The json format keeps those strings untouched. The yaml format
// pretty-prints them on encode so they stay readable in the document, and
// minifies them again on decode so the result compares equal to what the
// remote store holds.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/tacogips/rcsync/internal/template/model"
)

// yamlIndent is the indentation of encoded YAML documents.
const yamlIndent = 2

// Encode serializes a parameter in the given format.
// The parameter itself is never modified.
func Encode(p *model.Parameter, format model.Format) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("cannot encode nil parameter")
	}

	switch format {
	case model.FormatJSON:
		return encodeJSON(p)
	case model.FormatYAML:
		return encodeYAML(p)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Decode parses parameter file content in the given format.
// A JSON-typed value that is not valid JSON fails with *MalformedValueError.
func Decode(data []byte, format model.Format) (*model.Parameter, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, newMalformedError(format, "file is empty", nil)
	}

	switch format {
	case model.FormatJSON:
		return decodeJSON(data)
	case model.FormatYAML:
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// NormalizeParameter minifies every JSON-typed value string of p in place.
func NormalizeParameter(p *model.Parameter) error {
	return rewriteJSONStrings(p, model.FormatJSON, MinifyJSON)
}

// ValidateParameter checks that every JSON-typed value string of p parses.
func ValidateParameter(p *model.Parameter, format model.Format) error {
	return rewriteJSONStrings(p, format, func(s string) (string, error) {
		return s, ValidateJSON(s)
	})
}

func encodeJSON(p *model.Parameter) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", jsonIndent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parameter as JSON: %w", err)
	}
	return append(data, '\n'), nil
}

func encodeYAML(p *model.Parameter) ([]byte, error) {
	readable := p.Clone()
	if err := rewriteJSONStrings(readable, model.FormatYAML, PrettyJSON); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(readable); err != nil {
		return nil, fmt.Errorf("failed to marshal parameter as YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush YAML encoder: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeJSON(data []byte) (*model.Parameter, error) {
	// Comments and trailing commas are tolerated in hand-edited files.
	stripped := jsonc.ToJSON(data)

	dec := json.NewDecoder(bytes.NewReader(stripped))
	dec.DisallowUnknownFields()

	var p model.Parameter
	if err := dec.Decode(&p); err != nil {
		return nil, newMalformedError(model.FormatJSON, "invalid JSON document", err)
	}
	if err := expectEOF(dec.Decode(&struct{}{})); err != nil {
		return nil, newMalformedError(model.FormatJSON, "unexpected content after parameter", err)
	}

	if err := ValidateParameter(&p, model.FormatJSON); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeYAML(data []byte) (*model.Parameter, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p model.Parameter
	if err := dec.Decode(&p); err != nil {
		return nil, newMalformedError(model.FormatYAML, "invalid YAML document", err)
	}
	if err := expectEOF(dec.Decode(&struct{}{})); err != nil {
		return nil, newMalformedError(model.FormatYAML, "multiple documents in one parameter file", err)
	}

	if err := rewriteJSONStrings(&p, model.FormatYAML, MinifyJSON); err != nil {
		return nil, err
	}
	return &p, nil
}

func expectEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return errors.New("extra document")
	}
	return err
}
