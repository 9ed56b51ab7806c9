// Package config holds the spiderkit configuration: URL canonicalization
// policy, session token names, and output options. The configuration is
// populated from CLI flags and an optional YAML file and passed through
// the application via dependency injection rather than global state.
package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/AleksandrPea/spiderkit/internal/canonical"
)

// Default configuration values.
const (
	// DefaultMode keeps every query parameter: the safest default for a
	// security crawler, where distinct parameter values routinely reach
	// distinct application code paths.
	DefaultMode = canonical.UseAll

	// DefaultBatchSize of 8 concurrent canonicalizations balances
	// throughput with resource usage when processing large URL lists.
	DefaultBatchSize = 8

	// AppName is the application name used for XDG directory paths.
	AppName = "spiderkit"
)

// Config holds all configuration options for spiderkit.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// Mode is the active query parameter handling mode.
	Mode canonical.Mode

	// ODataParams enables normalization of OData-style structured path
	// segments such as Book(title='x',year=2012).
	ODataParams bool

	// SessionTokens replaces the default session token list when set.
	// An empty slice keeps the defaults.
	SessionTokens []string

	// ExtraSessionTokens is appended to the session token list.
	ExtraSessionTokens []string

	// ExcludeParams is a call-scoped list of additional parameter names
	// removed during canonicalization.
	ExcludeParams []string

	// BatchSize is the number of concurrent canonicalizations when
	// processing URL lists.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of plain text.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of plain text.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for reports. When empty, reports
	// go to stdout.
	ReportFile string

	// DBDir is the directory holding the frontier database. Defaults to
	// the XDG data directory.
	DBDir string

	// ConfigFilePath is the path to the YAML configuration file. If empty,
	// the tool searches for .spiderkit in the current directory and then
	// in the user's home directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Mode:      DefaultMode,
		BatchSize: DefaultBatchSize,
		DBDir:     XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for spiderkit.
// On Linux: ~/.local/share/spiderkit
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for spiderkit.
// On Linux: ~/.config/spiderkit
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first error found rather than collecting all errors,
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if _, err := canonical.ParseMode(c.Mode.String()); err != nil {
		return err
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// ApplyFile overlays values loaded from a configuration file onto the
// defaults. List-valued options merge; scalar options from the file win
// only when the file sets them.
func (c *Config) ApplyFile(f *File) error {
	if f == nil {
		return nil
	}

	if f.Mode != "" {
		mode, err := canonical.ParseMode(f.Mode)
		if err != nil {
			return err
		}
		c.Mode = mode
	}
	if f.ODataParameters != nil {
		c.ODataParams = *f.ODataParameters
	}
	if len(f.SessionTokens) > 0 {
		c.SessionTokens = f.SessionTokens
	}
	c.ExtraSessionTokens = append(c.ExtraSessionTokens, f.ExtraSessionTokens...)
	c.ExcludeParams = append(c.ExcludeParams, f.ExcludeParameters...)
	return nil
}
