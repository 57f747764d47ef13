package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacogips/rcsync/internal/app"
)

// checkoutCmd represents the checkout command
var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Write the remote template to the local tree",
	Long: `Fetch the current template and write one file per parameter.

Existing parameter files are overwritten. Files for parameters that no
longer exist remotely are left in place.

Examples:
  rcsync checkout
  rcsync checkout --format json
  rcsync checkout -C ./remote-config --dry-run`,
	Args: cobra.NoArgs,
	RunE: runCheckout,
}

// Checkout command flags
var checkoutDryRun bool

func init() {
	checkoutCmd.Flags().BoolVarP(&checkoutDryRun, FlagDryRun, "d", false, "Show what would be written without writing files")
}

func runCheckout(cmd *cobra.Command, args []string) error {
	s, p, err := connect(cmd)
	if err != nil {
		return err
	}

	if checkoutDryRun {
		printInfo("[DRY RUN] Would check out remote template")
	}
	printInfo(fmt.Sprintf("Root: %s (%s)", s.Root, s.Format))

	stop := startSpinner("Fetching remote template...")
	result, err := app.Checkout(cmd.Context(), app.CheckoutOptions{
		Provider: p,
		Root:     s.Root,
		Format:   s.Format,
		DryRun:   checkoutDryRun,
	})
	stop()
	if err != nil {
		printErrorMsg(fmt.Sprintf("Checkout failed: %v", err))
		return err
	}

	if checkoutDryRun {
		printInfo("")
		printInfo("[DRY RUN] Directories to create:")
		for _, dir := range result.Directories {
			printInfo(fmt.Sprintf("  - %s/", dir))
		}
		printInfo("[DRY RUN] Files to write:")
		for _, file := range result.Files {
			state := "create"
			if file.Exists {
				state = "overwrite"
			}
			printInfo(fmt.Sprintf("  - %s (%s, %s)", file.Path, state, formatBytes(int64(len(file.Content)))))
		}
		printInfo("")
		printInfo("No files written (dry run).")
		return nil
	}

	printSuccess(fmt.Sprintf("Checked out version %s", result.Template.VersionNumber()))
	printInfo("")
	printInfo("Summary:")
	printInfo(fmt.Sprintf("  Created: %d files", result.FilesCreated))
	if result.FilesOverwritten > 0 {
		printInfo(fmt.Sprintf("  Overwritten: %d files", result.FilesOverwritten))
	}
	return nil
}
