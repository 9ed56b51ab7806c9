package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AleksandrPea/spiderkit/internal/canonical"
	"github.com/AleksandrPea/spiderkit/internal/config"
	"github.com/AleksandrPea/spiderkit/internal/log"
	"github.com/AleksandrPea/spiderkit/internal/pipeline"
	"github.com/AleksandrPea/spiderkit/internal/report"
	"github.com/AleksandrPea/spiderkit/internal/session"
)

// NewCanonicalizeCmd creates the canonicalize command.
func NewCanonicalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canonicalize [url]...",
		Short: "Reduce URLs to their canonical form",
		Long: `Canonicalize reduces URLs to a canonical form so that equivalent
spellings compare equal: the scheme and host are lowercased, default
ports are stripped, the path is normalized, session tokens are removed,
and the remaining query parameters are sorted.

Examples:
  # Canonicalize a single URL
  spiderkit canonicalize "HTTP://Example.COM:80/a/../b?x=1"

  # Resolve relative URLs against a base
  spiderkit canonicalize --base http://example.com/dir/ ../other page2

  # Read URLs from a file (one per line), drop parameter values
  spiderkit canonicalize --input urls.txt --mode ignore_value

  # Exclude tracking parameters and emit a JSON report
  spiderkit canonicalize --exclude utm_source,utm_medium --json <url>`,
		Args: cobra.ArbitraryArgs,
		RunE: runCanonicalizeCmd,
	}

	addCanonicalFlags(cmd)
	cmd.Flags().StringP("base", "B", "",
		"Base URL for resolving relative inputs")
	cmd.Flags().StringP("input", "i", "",
		"Read URLs from file, one per line (use '-' for stdin)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent canonicalizations")

	return cmd
}

// addCanonicalFlags registers the flags shared by every command that
// canonicalizes URLs.
func addCanonicalFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("mode", "m", string(config.DefaultMode),
		"Query parameter handling mode: use_all, ignore_value, ignore_completely")
	cmd.Flags().Bool("odata", false,
		"Normalize OData-style structured path segments")
	cmd.Flags().StringSliceP("exclude", "x", nil,
		"Additional parameter names to remove during canonicalization")
	cmd.Flags().StringSlice("session-token", nil,
		"Replace the built-in session token list")
	cmd.Flags().StringSlice("extra-token", nil,
		"Append names to the session token list")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .spiderkit in current or home directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().Bool("markdown", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
}

// runCanonicalizeCmd executes the canonicalize command.
func runCanonicalizeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg)

	base, err := cmd.Flags().GetString("base")
	if err != nil {
		return err
	}
	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}

	urls := args
	if input != "" {
		fromInput, err := readURLLines(input, cmd.InOrStdin())
		if err != nil {
			return err
		}
		urls = append(urls, fromInput...)
	}
	if len(urls) == 0 {
		return errors.New("no URLs provided (pass them as arguments or via --input)")
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	engine := canonical.New(
		canonical.WithMode(cfg.Mode),
		canonical.WithODataParams(cfg.ODataParams),
	)
	batch := pipeline.NewBatchCanonicalizer(engine,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
		pipeline.WithExcludedParams(buildExcludedSet(cfg)),
	)

	results, err := batch.Process(ctx, base, urls)
	if err != nil {
		return err
	}

	rep := report.NewReport(cfg.Mode.String(), base)
	rep.Results = results

	return outputReport(cfg, rep, cmd.OutOrStdout())
}

// buildConfig creates a Config from the shared canonicalization flags and
// overlays values from the configuration file, if one is found.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	modeStr, err := cmd.Flags().GetString("mode")
	if err != nil {
		return nil, err
	}
	cfg.Mode, err = canonical.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}

	cfg.ODataParams, err = cmd.Flags().GetBool("odata")
	if err != nil {
		return nil, err
	}

	cfg.ExcludeParams, err = cmd.Flags().GetStringSlice("exclude")
	if err != nil {
		return nil, err
	}

	cfg.SessionTokens, err = cmd.Flags().GetStringSlice("session-token")
	if err != nil {
		return nil, err
	}

	cfg.ExtraSessionTokens, err = cmd.Flags().GetStringSlice("extra-token")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if not
	// found. Otherwise a missing file is fine.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := cfg.ApplyFile(cf); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// buildExcludedSet combines the session token registry with call-scoped
// exclusions into the set handed to the canonicalization engine.
func buildExcludedSet(cfg *config.Config) canonical.ExcludedParams {
	var registry *session.Registry
	if len(cfg.SessionTokens) > 0 {
		registry = session.NewEmptyRegistry(cfg.SessionTokens...)
		for _, name := range cfg.ExtraSessionTokens {
			registry.Add(name)
		}
	} else {
		registry = session.NewRegistry(cfg.ExtraSessionTokens...)
	}
	return registry.Union(cfg.ExcludeParams...)
}

// setupLogger creates the redacting logger and installs it as the default.
func setupLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	cfg.Verbose = getVerboseFlag(cmd)
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)
	return logger
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// readURLLines reads one URL per line from a file, or from stdin when the
// path is "-". Blank lines and lines starting with '#' are skipped.
func readURLLines(path string, stdin io.Reader) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path) //nolint:gosec // User-provided input path is intentional
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return urls, nil
}

// outputReport writes the report in the configured format, to the report
// file when one is set and to the given writer otherwise.
func outputReport(cfg *config.Config, rep *report.Report, stdout io.Writer) error {
	out := stdout
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, err := os.Create(cfg.ReportFile) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(out, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewPlainWriter(out, report.WithShowRejections(cfg.Verbose))
	}

	if _, err := w.Write(rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
