package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacogips/rcsync/internal/app"
)

// publishCmd represents the publish command
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the local tree as the new remote template",
	Long: `Read, validate and diff the local tree, ask for confirmation and
publish it using the etag captured when the template was fetched.

A publish fails when the remote template changed in the meantime.
Re-run the command to review the latest version.

Examples:
  rcsync publish
  rcsync publish --dry-run
  rcsync publish --force`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

// Publish command flags
var (
	publishForce  bool
	publishDryRun bool
)

func init() {
	publishCmd.Flags().BoolVarP(&publishForce, FlagForce, "f", false, DescForce)
	publishCmd.Flags().BoolVarP(&publishDryRun, FlagDryRun, "d", false, "Show the diff without publishing")
}

func runPublish(cmd *cobra.Command, args []string) error {
	s, p, err := connect(cmd)
	if err != nil {
		return err
	}

	stop := startSpinner("Comparing with remote template...")
	stopped := false
	result, err := app.Publish(cmd.Context(), app.PublishOptions{
		Options: app.Options{Provider: p, Root: s.Root, Format: s.Format},
		Force:   publishForce,
		DryRun:  publishDryRun,
		Confirm: func(d *app.DiffResult) (bool, error) {
			stop()
			stopped = true
			if err := renderDiff(d, s); err != nil {
				return false, err
			}
			return confirmFunc(d)
		},
	})
	if !stopped {
		stop()
	}
	if err != nil {
		printErrorMsg(fmt.Sprintf("Publish failed: %v", err))
		return err
	}

	switch {
	case result.NoChanges:
		if err := renderDiff(result.Diff, s); err != nil {
			return err
		}
		printInfo("Nothing to publish.")
	case result.DryRun:
		if err := renderDiff(result.Diff, s); err != nil {
			return err
		}
		printInfo("")
		printInfo("[DRY RUN] Template not published.")
	case result.Declined:
		printWarning("Publish cancelled")
	case result.Published:
		if publishForce {
			if err := renderDiff(result.Diff, s); err != nil {
				return err
			}
		}
		printSuccess(fmt.Sprintf("Published version %s", result.VersionNumber))
	}
	return nil
}
