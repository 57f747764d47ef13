package cli

// Common flag names and descriptions
const (
	// Flag names
	FlagRoot        = "root"
	FlagFormat      = "format"
	FlagCredentials = "credentials"
	FlagProject     = "project"
	FlagConfig      = "config"
	FlagForce       = "force"
	FlagDryRun      = "dry-run"
	FlagContext     = "context"
	FlagSummary     = "summary"
	FlagNoColor     = "no-color"
	FlagQuiet       = "quiet"
	FlagDebug       = "debug"

	// Flag descriptions
	DescRoot        = "Directory holding parameters/ and parameterGroups/"
	DescFormat      = "Parameter file format (yaml or json)"
	DescCredentials = "Path to a service account JSON file"
	DescProject     = "Firebase project id (defaults to the credentials' project)"
	DescConfig      = "Path to config file (default <root>/.rcsync.yaml)"
	DescForce       = "Publish without asking for confirmation"
	DescDryRun      = "Show actions without execution"
	DescContext     = "Unchanged lines shown around each change (-1 for all)"
	DescSummary     = "Print a table of changed parameters instead of the line diff"
	DescNoColor     = "Disable colored output"
	DescQuiet       = "Suppress output"
	DescDebug       = "Enable debug logging"
)
