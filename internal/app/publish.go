package app

import (
	"context"

	"github.com/tacogips/rcsync/internal/debug"
)

// ConfirmFunc asks whether the shown diff should be published.
type ConfirmFunc func(*DiffResult) (bool, error)

// PublishOptions contains options for publish.
type PublishOptions struct {
	Options
	// Confirm is the interactive gate. Required unless Force or DryRun is set.
	Confirm ConfirmFunc
	// Force skips the confirmation gate.
	Force bool
	// DryRun stops before the confirmation gate.
	DryRun bool
}

// PublishResult contains the results of publish.
type PublishResult struct {
	// Diff is the comparison the decision was based on.
	Diff *DiffResult
	// Published reports whether the template was published.
	Published bool
	// NoChanges reports that local already matched remote.
	NoChanges bool
	// Declined reports that the confirmation gate said no.
	Declined bool
	// DryRun reports a dry run.
	DryRun bool
	// VersionNumber is the version created by the publish.
	VersionNumber string
}

// Publish runs the diff pipeline, asks for confirmation and publishes the
// local template using the etag captured at fetch time.
func Publish(ctx context.Context, opts PublishOptions) (*PublishResult, error) {
	debug.DebugSection("[app] Publish workflow start")
	debug.DebugValue("[app] Root", opts.Root)
	debug.DebugValue("[app] Format", opts.Format)
	debug.DebugValue("[app] Force", opts.Force)
	debug.DebugValue("[app] DryRun", opts.DryRun)

	if opts.Confirm == nil && !opts.Force && !opts.DryRun {
		return nil, newOptionsError("confirmation is required unless forced", nil)
	}

	snap, err := validateLocal(ctx, opts.Options)
	if err != nil {
		return nil, err
	}
	d, err := compare(snap)
	if err != nil {
		return nil, err
	}

	result := &PublishResult{Diff: d, DryRun: opts.DryRun}
	if !d.HasChanges() {
		debug.Debug("[app] No changes, skipping publish")
		result.NoChanges = true
		return result, nil
	}
	if opts.DryRun {
		debug.Debug("[app] Dry run, stopping before publish")
		return result, nil
	}

	if !opts.Force {
		ok, err := opts.Confirm(d)
		if err != nil {
			return nil, NewAppError(ConfirmFailed, StageConfirm, "confirmation failed", err)
		}
		if !ok {
			debug.Debug("[app] Publish declined")
			result.Declined = true
			return result, nil
		}
	}

	debug.Debug("[app] Publishing with etag %s", snap.local.ETag)
	published, err := opts.Provider.Publish(ctx, snap.local)
	if err != nil {
		return nil, NewAppError(PublishFailed, StagePublish, "failed to publish template", err)
	}
	debug.DebugJSON("[app] Published template", published)

	result.Published = true
	result.VersionNumber = published.VersionNumber()
	debug.Debug("[app] Published version %s", result.VersionNumber)
	return result, nil
}
