package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/tacogips/rcsync/internal/app"
	"github.com/tacogips/rcsync/internal/template/diff"
)

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show local changes against the remote template",
	Long: `Read and validate the local tree, then print the differences to the
remote template. Prints "no difference" when they match.

Examples:
  rcsync diff
  rcsync diff --context 10
  rcsync diff --summary`,
	Args: cobra.NoArgs,
	RunE: runDiff,
}

// Diff command flags
var (
	diffContext int
	diffSummary bool
)

func init() {
	diffCmd.Flags().IntVar(&diffContext, FlagContext, -1, DescContext)
	diffCmd.Flags().BoolVar(&diffSummary, FlagSummary, false, DescSummary)
}

func runDiff(cmd *cobra.Command, args []string) error {
	s, p, err := connect(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed(FlagContext) {
		s.DiffContext = diffContext
	}

	stop := startSpinner("Comparing with remote template...")
	result, err := app.Diff(cmd.Context(), app.Options{Provider: p, Root: s.Root, Format: s.Format})
	stop()
	if err != nil {
		printErrorMsg(fmt.Sprintf("Diff failed: %v", err))
		return err
	}

	if diffSummary && result.HasChanges() {
		renderSummary(result, s.Color)
		return nil
	}
	return renderDiff(result, s)
}

// renderDiff writes the line diff to stdout. It is printed in quiet mode too,
// because it is the command's result.
func renderDiff(result *app.DiffResult, s *settings) error {
	return diff.Render(stdout, result.Segments, diff.RenderOptions{
		Color:   s.Color,
		Context: s.DiffContext,
	})
}

// renderSummary prints a table of changed parameters.
func renderSummary(result *app.DiffResult, color bool) {
	printHeader(fmt.Sprintf("%d changed parameter(s)", len(result.Changes)))
	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleRounded)
	if !color {
		t.SetStyle(table.StyleLight)
	}
	t.AppendHeader(table.Row{"SCOPE", "KEY", "CHANGE"})
	for _, c := range result.Changes {
		t.AppendRow(table.Row{c.Scope, c.Key, changeLabel(c.Kind, color)})
	}
	t.AppendFooter(table.Row{"", "lines", fmt.Sprintf("+%d -%d", result.LinesAdded, result.LinesRemoved)})
	t.Render()
}

func changeLabel(kind diff.ChangeKind, color bool) string {
	if !color {
		return string(kind)
	}
	switch kind {
	case diff.ChangeAdded:
		return text.FgGreen.Sprint(kind)
	case diff.ChangeRemoved:
		return text.FgRed.Sprint(kind)
	default:
		return text.FgYellow.Sprint(kind)
	}
}
