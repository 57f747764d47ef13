package app

import (
	"context"
	"fmt"

	"github.com/tacogips/rcsync/internal/debug"
	"github.com/tacogips/rcsync/internal/template/materializer"
	"github.com/tacogips/rcsync/internal/template/provider"
)

// DownloadOptions contains options for download.
type DownloadOptions struct {
	// Provider is the remote template store.
	Provider provider.Provider
	// Root is the directory the exports are written to.
	Root string
	// Formats selects the exports. Empty means XML and PLIST.
	Formats []provider.DefaultsFormat
	// DryRun downloads without writing anything.
	DryRun bool
}

// DownloadedFile describes one written export.
type DownloadedFile struct {
	// Format is the export format.
	Format provider.DefaultsFormat
	// Path is the file path.
	Path string
	// Size is the content size in bytes.
	Size int
	// Exists reports whether the file was replaced.
	Exists bool
}

// DownloadResult contains the results of download.
type DownloadResult struct {
	// Files lists the exports in request order.
	Files []DownloadedFile
	// DryRun reports whether nothing was written.
	DryRun bool
}

// DefaultDownloadFormats are the exports written when none are requested.
var DefaultDownloadFormats = []provider.DefaultsFormat{provider.DefaultsXML, provider.DefaultsPlist}

// Download fetches the static default-value exports and writes them under Root.
func Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, error) {
	debug.DebugSection("[app] Download workflow start")
	debug.DebugValue("[app] Root", opts.Root)
	debug.DebugValue("[app] Formats", opts.Formats)
	debug.DebugValue("[app] DryRun", opts.DryRun)

	if opts.Provider == nil {
		return nil, newOptionsError("provider is required", nil)
	}
	formats := opts.Formats
	if len(formats) == 0 {
		formats = DefaultDownloadFormats
	}

	var w materializer.Writer = materializer.NewFileWriter()
	if opts.DryRun {
		w = materializer.NewRecordingWriter()
	}
	layout := materializer.NewLayout(opts.Root)

	result := &DownloadResult{DryRun: opts.DryRun}
	for _, format := range formats {
		data, err := opts.Provider.DownloadDefaults(ctx, format)
		if err != nil {
			return nil, NewAppError(DownloadFailed, StageDownload,
				fmt.Sprintf("failed to download %s defaults", format), err)
		}

		path := layout.DefaultsPath(format.FileName())
		exists := w.Exists(path)
		if err := w.WriteFile(path, data); err != nil {
			return nil, NewAppError(DownloadFailed, StageDownload,
				fmt.Sprintf("failed to write %s", path), err)
		}
		debug.Debug("[app] Wrote %s (%d bytes)", path, len(data))

		result.Files = append(result.Files, DownloadedFile{
			Format: format,
			Path:   path,
			Size:   len(data),
			Exists: exists,
		})
	}
	return result, nil
}
