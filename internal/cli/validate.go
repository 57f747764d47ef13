package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacogips/rcsync/internal/app"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the local tree against the remote schema",
	Long: `Read the local tree and ask the remote store to validate it
without publishing.

Examples:
  rcsync validate
  rcsync validate -C ./remote-config --format json`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, p, err := connect(cmd)
	if err != nil {
		return err
	}

	stop := startSpinner("Validating local template...")
	result, err := app.Validate(cmd.Context(), app.Options{Provider: p, Root: s.Root, Format: s.Format})
	stop()
	if err != nil {
		printErrorMsg(fmt.Sprintf("Validation failed: %v", err))
		return err
	}

	printSuccess(fmt.Sprintf("Local template is valid (%d parameters)", result.Local.ParameterCount()))
	return nil
}
