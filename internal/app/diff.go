package app

import (
	"context"

	"github.com/tacogips/rcsync/internal/debug"
	"github.com/tacogips/rcsync/internal/template/diff"
	"github.com/tacogips/rcsync/internal/template/model"
)

// DiffResult contains the remote-to-local differences.
type DiffResult struct {
	// Remote is the fetched template.
	Remote *model.Template
	// Local is the template assembled from the local tree.
	Local *model.Template
	// Segments is the line diff of the serialized templates.
	Segments []diff.Segment
	// Changes lists the changed parameters.
	Changes []diff.Change
	// LinesAdded is the number of added lines.
	LinesAdded int
	// LinesRemoved is the number of removed lines.
	LinesRemoved int
}

// HasChanges reports whether local differs from remote.
func (r *DiffResult) HasChanges() bool {
	return r != nil && diff.HasChanges(r.Segments)
}

// Diff reads and validates the local tree and compares it to the remote template.
func Diff(ctx context.Context, opts Options) (*DiffResult, error) {
	debug.DebugSection("[app] Diff workflow start")
	debug.DebugValue("[app] Root", opts.Root)
	debug.DebugValue("[app] Format", opts.Format)

	snap, err := validateLocal(ctx, opts)
	if err != nil {
		return nil, err
	}
	return compare(snap)
}

func compare(snap *snapshot) (*DiffResult, error) {
	segments, err := diff.Diff(snap.remote, snap.local)
	if err != nil {
		return nil, NewAppError(DiffFailed, StageDiff, "failed to compare templates", err)
	}
	added, removed := diff.Stats(segments)
	debug.Debug("[app] Diff: +%d -%d lines", added, removed)

	return &DiffResult{
		Remote:       snap.remote,
		Local:        snap.local,
		Segments:     segments,
		Changes:      diff.Summarize(snap.remote, snap.local),
		LinesAdded:   added,
		LinesRemoved: removed,
	}, nil
}
