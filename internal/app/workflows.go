package app

import (
	"context"

	"github.com/tacogips/rcsync/internal/debug"
	"github.com/tacogips/rcsync/internal/template/materializer"
	"github.com/tacogips/rcsync/internal/template/model"
	"github.com/tacogips/rcsync/internal/template/provider"
)

// Options are shared by the workflows that read the local tree.
type Options struct {
	// Provider is the remote template store.
	Provider provider.Provider
	// Root is the directory holding parameters/ and parameterGroups/.
	Root string
	// Format is the parameter file format.
	Format model.Format
}

func (o Options) validate() error {
	if o.Provider == nil {
		return newOptionsError("provider is required", nil)
	}
	if _, err := model.ParseFormat(string(o.Format)); err != nil {
		return newOptionsError("invalid format", err)
	}
	return nil
}

func (o Options) format() model.Format {
	f, _ := model.ParseFormat(string(o.Format))
	return f
}

// snapshot holds the two independently built templates of one invocation.
type snapshot struct {
	remote *model.Template
	local  *model.Template
}

func fetchRemote(ctx context.Context, p provider.Provider) (*model.Template, error) {
	debug.Debug("[app] Fetching remote template from %s", p.Name())
	remote, err := p.Fetch(ctx)
	if err != nil {
		return nil, newFetchError(err)
	}
	debug.Debug("[app] Fetched remote template: %s", remote)
	debug.DebugJSON("[app] Remote template", remote)
	return remote, nil
}

// readLocal runs fetch -> read-local.
func readLocal(ctx context.Context, opts Options) (*snapshot, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	remote, err := fetchRemote(ctx, opts.Provider)
	if err != nil {
		return nil, err
	}

	layout := materializer.NewLayout(opts.Root)
	debug.Debug("[app] Reading local tree from %s (%s)", layout.Root, opts.format())
	local, err := materializer.New(nil).Read(ctx, layout, remote, opts.format())
	if err != nil {
		return nil, NewAppError(ReadFailed, StageRead, "failed to read local tree", err)
	}
	debug.Debug("[app] Assembled local template: %s", local)
	debug.DebugJSON("[app] Local template", local)

	return &snapshot{remote: remote, local: local}, nil
}

// validateLocal runs fetch -> read-local -> validate.
func validateLocal(ctx context.Context, opts Options) (*snapshot, error) {
	snap, err := readLocal(ctx, opts)
	if err != nil {
		return nil, err
	}

	debug.Debug("[app] Validating local template remotely")
	if _, err := opts.Provider.Validate(ctx, snap.local); err != nil {
		return nil, NewAppError(ValidationFailed, StageValidate, "remote validation failed", err)
	}
	debug.Debug("[app] Remote validation passed")
	return snap, nil
}
