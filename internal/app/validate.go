package app

import (
	"context"

	"github.com/tacogips/rcsync/internal/debug"
	"github.com/tacogips/rcsync/internal/template/model"
)

// ValidateResult contains the results of validate.
type ValidateResult struct {
	// Remote is the fetched template.
	Remote *model.Template
	// Local is the template assembled from the local tree.
	Local *model.Template
}

// Validate reads the local tree and has the remote store check it.
func Validate(ctx context.Context, opts Options) (*ValidateResult, error) {
	debug.DebugSection("[app] Validate workflow start")
	debug.DebugValue("[app] Root", opts.Root)
	debug.DebugValue("[app] Format", opts.Format)

	snap, err := validateLocal(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &ValidateResult{Remote: snap.remote, Local: snap.local}, nil
}
