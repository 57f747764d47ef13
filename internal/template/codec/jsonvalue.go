package codec

import (
	"bytes"
	"encoding/json"
	"errors"
)

// jsonIndent is the indentation used for pretty-printed embedded JSON.
const jsonIndent = "  "

var errEmptyJSON = errors.New("empty JSON document")

// PrettyJSON re-serializes a JSON document with two-space indentation.
// Key order and number text are kept as written.
func PrettyJSON(s string) (string, error) {
	src, err := validJSON(s)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, src, "", jsonIndent); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MinifyJSON re-serializes a JSON document without insignificant whitespace.
// Key order and number text are kept as written.
func MinifyJSON(s string) (string, error) {
	src, err := validJSON(s)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, src); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ValidateJSON reports whether s holds exactly one JSON document.
func ValidateJSON(s string) error {
	_, err := validJSON(s)
	return err
}

func validJSON(s string) ([]byte, error) {
	src := bytes.TrimSpace([]byte(s))
	if len(src) == 0 {
		return nil, errEmptyJSON
	}
	if !json.Valid(src) {
		// Unmarshal again for a descriptive syntax error with offset.
		var v any
		if err := json.Unmarshal(src, &v); err != nil {
			return nil, err
		}
		return nil, errors.New("invalid JSON document")
	}
	return src, nil
}
