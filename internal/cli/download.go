package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacogips/rcsync/internal/app"
	"github.com/tacogips/rcsync/internal/template/provider"
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download static default-value exports",
	Long: `Download the template's default values as default.xml (Android)
and default.plist (iOS) into the root directory.

Examples:
  rcsync download
  rcsync download --xml
  rcsync download --plist --dry-run`,
	Args: cobra.NoArgs,
	RunE: runDownload,
}

// Download command flags
var (
	downloadDryRun bool
	downloadXML    bool
	downloadPlist  bool
)

func init() {
	downloadCmd.Flags().BoolVarP(&downloadDryRun, FlagDryRun, "d", false, "Download without writing files")
	downloadCmd.Flags().BoolVar(&downloadXML, "xml", false, "Download default.xml only (combine with --plist for both)")
	downloadCmd.Flags().BoolVar(&downloadPlist, "plist", false, "Download default.plist only (combine with --xml for both)")
}

func downloadFormats() []provider.DefaultsFormat {
	var formats []provider.DefaultsFormat
	if downloadXML {
		formats = append(formats, provider.DefaultsXML)
	}
	if downloadPlist {
		formats = append(formats, provider.DefaultsPlist)
	}
	return formats
}

func runDownload(cmd *cobra.Command, args []string) error {
	s, p, err := connect(cmd)
	if err != nil {
		return err
	}

	stop := startSpinner("Downloading defaults...")
	result, err := app.Download(cmd.Context(), app.DownloadOptions{
		Provider: p,
		Root:     s.Root,
		Formats:  downloadFormats(),
		DryRun:   downloadDryRun,
	})
	stop()
	if err != nil {
		printErrorMsg(fmt.Sprintf("Download failed: %v", err))
		return err
	}

	for _, f := range result.Files {
		if downloadDryRun {
			printInfo(fmt.Sprintf("[DRY RUN] Would write %s (%s)", f.Path, formatBytes(int64(f.Size))))
			continue
		}
		printSuccess(fmt.Sprintf("Wrote %s (%s)", f.Path, formatBytes(int64(f.Size))))
	}
	return nil
}
