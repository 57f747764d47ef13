package app

import (
	"context"

	"github.com/tacogips/rcsync/internal/debug"
	"github.com/tacogips/rcsync/internal/template/materializer"
	"github.com/tacogips/rcsync/internal/template/model"
	"github.com/tacogips/rcsync/internal/template/provider"
)

// CheckoutOptions contains options for checkout.
type CheckoutOptions struct {
	// Provider is the remote template store.
	Provider provider.Provider
	// Root is the directory the tree is written under.
	Root string
	// Format is the parameter file format.
	Format model.Format
	// DryRun plans the tree without writing anything.
	DryRun bool
}

// CheckoutResult contains the results of checkout.
type CheckoutResult struct {
	// Template is the fetched remote template.
	Template *model.Template
	// FilesCreated is the number of new files.
	FilesCreated int
	// FilesOverwritten is the number of existing files replaced.
	FilesOverwritten int
	// Files lists every parameter file in write order.
	Files []materializer.PlannedFile
	// Directories lists the directories created (or planned).
	Directories []string
	// DryRun reports whether nothing was written.
	DryRun bool
}

// Checkout fetches the remote template and materializes it under Root.
func Checkout(ctx context.Context, opts CheckoutOptions) (*CheckoutResult, error) {
	debug.DebugSection("[app] Checkout workflow start")
	debug.DebugValue("[app] Root", opts.Root)
	debug.DebugValue("[app] Format", opts.Format)
	debug.DebugValue("[app] DryRun", opts.DryRun)

	base := Options{Provider: opts.Provider, Root: opts.Root, Format: opts.Format}
	if err := base.validate(); err != nil {
		return nil, err
	}

	remote, err := fetchRemote(ctx, opts.Provider)
	if err != nil {
		return nil, err
	}

	m := materializer.New(nil)
	layout := materializer.NewLayout(opts.Root)

	var written *materializer.WriteResult
	if opts.DryRun {
		written, err = m.DryRun(ctx, layout, remote, base.format())
	} else {
		written, err = m.Write(ctx, layout, remote, base.format())
	}
	if err != nil {
		return nil, NewAppError(MaterializeFailed, StageCheckout, "failed to write local tree", err)
	}

	debug.Debug("[app] Checkout complete: created=%d overwritten=%d", written.FilesCreated, written.FilesOverwritten)
	return &CheckoutResult{
		Template:         remote,
		FilesCreated:     written.FilesCreated,
		FilesOverwritten: written.FilesOverwritten,
		Files:            written.Files,
		Directories:      written.Directories,
		DryRun:           opts.DryRun,
	}, nil
}
