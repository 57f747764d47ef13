package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tacogips/rcsync/internal/config"
	"github.com/tacogips/rcsync/internal/debug"
	"github.com/tacogips/rcsync/internal/template/model"
	"github.com/tacogips/rcsync/internal/template/provider"
)

// Global flags
var (
	globalRoot        string
	globalFormat      string
	globalCredentials string
	globalProject     string
	globalConfig      string
	globalNoColor     bool
	globalQuiet       bool
	globalDebug       bool
)

// settings is the merged result of defaults, config file, environment and flags.
type settings struct {
	Root        string
	Format      model.Format
	Credentials string
	ProjectID   string
	Timeout     time.Duration
	DiffContext int
	Color       bool
}

// providerFactory builds the remote store client. Replaced in tests.
var providerFactory = func(ctx context.Context, s *settings) (provider.Provider, error) {
	return provider.NewProvider(ctx, provider.ProviderOptions{
		CredentialsFile: s.Credentials,
		ProjectID:       s.ProjectID,
		Timeout:         s.Timeout,
	})
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rcsync",
	Short: "Sync Firebase Remote Config templates with a directory tree",
	Long: `rcsync keeps a Firebase Remote Config template in a directory tree.

Every parameter is a file:
  parameters/<key>                 top-level parameters
  parameterGroups/<group>/<key>    grouped parameters

Use "rcsync checkout" to write the current template, edit the files,
then "rcsync diff" and "rcsync publish" to push the changes back.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.SetDebug(globalDebug)
		debug.SetNoColor(globalNoColor)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&globalRoot, FlagRoot, "C", "", DescRoot)
	flags.StringVar(&globalFormat, FlagFormat, "", DescFormat)
	flags.StringVar(&globalCredentials, FlagCredentials, "", DescCredentials)
	// --json is the historical name of --credentials.
	flags.StringVar(&globalCredentials, "json", "", DescCredentials)
	_ = flags.MarkHidden("json")
	flags.StringVar(&globalProject, FlagProject, "", DescProject)
	flags.StringVar(&globalConfig, FlagConfig, "", DescConfig)
	flags.BoolVar(&globalNoColor, FlagNoColor, false, DescNoColor)
	flags.BoolVarP(&globalQuiet, FlagQuiet, "q", false, DescQuiet)
	flags.BoolVar(&globalDebug, FlagDebug, false, DescDebug)

	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadSettings merges flags > environment > config file > defaults.
// A relative root in the config file is resolved against the file's directory.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	base := globalRoot
	if base == "" {
		base = "."
	}

	path := config.ResolvePath(base, globalConfig)
	var (
		cfg *config.Config
		err error
	)
	if globalConfig != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(cfg, os.LookupEnv)

	root := cfg.Root
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(filepath.Dir(path), root)
	}
	if globalConfig != "" && cmd.Flags().Changed(FlagRoot) {
		root = globalRoot
	}

	format := cfg.Format
	if cmd.Flags().Changed(FlagFormat) {
		format = globalFormat
	}
	parsed, err := model.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	credentials := cfg.Credentials
	if globalCredentials != "" {
		credentials = globalCredentials
	}
	if credentials != "" {
		if expanded, err := config.ExpandPath(credentials); err == nil {
			credentials = expanded
		}
	}
	project := cfg.ProjectID
	if globalProject != "" {
		project = globalProject
	}

	s := &settings{
		Root:        filepath.Clean(root),
		Format:      parsed,
		Credentials: credentials,
		ProjectID:   project,
		Timeout:     cfg.TimeoutDuration(),
		DiffContext: cfg.Diff.Context,
		Color:       cfg.Output.Color && !globalNoColor,
	}
	debug.DebugValue("[cli] Config file", path)
	debug.DebugValue("[cli] Settings", *s)
	return s, nil
}

// connect loads settings and builds the provider.
func connect(cmd *cobra.Command) (*settings, provider.Provider, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, nil, err
	}
	p, err := providerFactory(cmd.Context(), s)
	if err != nil {
		return nil, nil, err
	}
	return s, p, nil
}

// printError prints an error message to stderr
func printError(err error) {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if hint := errorHint(err); hint != "" && !globalQuiet {
		fmt.Fprintf(stderr, "  %s\n", hint)
	}
}

// errorHint suggests the next step for errors the user can fix.
func errorHint(err error) string {
	var conflict *provider.ConcurrencyConflictError
	var perr *provider.ProviderError
	switch {
	case errors.As(err, &conflict):
		return `Run "rcsync diff" to review the latest remote template, then publish again.`
	case errors.As(err, &perr) && perr.Type == provider.ProviderInvalidCredentials:
		return "Pass --credentials or set GOOGLE_APPLICATION_CREDENTIALS."
	default:
		return ""
	}
}
