package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/tacogips/rcsync/internal/template/model"
)

// Provider is the remote template store.
type Provider interface {
	// Fetch returns the current template together with its etag.
	Fetch(ctx context.Context) (*model.Template, error)

	// Validate asks the store to check tmpl without publishing it.
	// Returns the template as the store would accept it.
	Validate(ctx context.Context, tmpl *model.Template) (*model.Template, error)

	// Publish replaces the remote template. tmpl.ETag must be the token captured
	// at fetch time; a stale token fails with *ConcurrencyConflictError.
	Publish(ctx context.Context, tmpl *model.Template) (*model.Template, error)

	// DownloadDefaults returns the static default-value export in the given format.
	DownloadDefaults(ctx context.Context, format DefaultsFormat) ([]byte, error)

	// Name returns the provider name (e.g., "firebase").
	Name() string
}

// DefaultsFormat selects a static defaults export.
type DefaultsFormat string

const (
	// DefaultsXML is the Android resource XML export.
	DefaultsXML DefaultsFormat = "XML"
	// DefaultsPlist is the iOS property list export.
	DefaultsPlist DefaultsFormat = "PLIST"
	// DefaultsJSON is the JSON export.
	DefaultsJSON DefaultsFormat = "JSON"
)

// FileName returns the local file name of the export (e.g. default.xml).
func (f DefaultsFormat) FileName() string {
	switch f {
	case DefaultsXML:
		return model.DefaultsXMLFile
	case DefaultsPlist:
		return model.DefaultsPlistFile
	default:
		return "default." + strings.ToLower(string(f))
	}
}

// ParseDefaultsFormat converts a user supplied name to a DefaultsFormat.
func ParseDefaultsFormat(s string) (DefaultsFormat, error) {
	switch DefaultsFormat(strings.ToUpper(strings.TrimSpace(s))) {
	case DefaultsXML:
		return DefaultsXML, nil
	case DefaultsPlist:
		return DefaultsPlist, nil
	case DefaultsJSON:
		return DefaultsJSON, nil
	default:
		return "", fmt.Errorf("unsupported defaults format %q (expected xml, plist or json)", s)
	}
}
