package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleksandrPea/spiderkit/internal/canonical"
	"github.com/AleksandrPea/spiderkit/internal/config"
	"github.com/AleksandrPea/spiderkit/internal/frontier"
	"github.com/AleksandrPea/spiderkit/internal/pipeline"
	"github.com/AleksandrPea/spiderkit/internal/report"
)

// NewDedupeCmd creates the dedupe command.
func NewDedupeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedupe [url]...",
		Short: "Canonicalize URLs and deduplicate them against the frontier",
		Long: `Dedupe canonicalizes URLs and inserts them into the persistent
frontier database. Equivalent spellings collapse to one entry, so the
report shows which inputs were genuinely new and which had been seen
before, possibly under a different spelling.

Examples:
  # Feed URLs into the default frontier
  spiderkit dedupe "http://example.com/a" "HTTP://EXAMPLE.COM:80/a"

  # Read URLs from stdin and use a dedicated database
  cat urls.txt | spiderkit dedupe --input - --db-dir ./crawl-state`,
		Args: cobra.ArbitraryArgs,
		RunE: runDedupeCmd,
	}

	addCanonicalFlags(cmd)
	cmd.Flags().StringP("base", "B", "",
		"Base URL for resolving relative inputs")
	cmd.Flags().StringP("input", "i", "",
		"Read URLs from file, one per line (use '-' for stdin)")
	cmd.Flags().String("db-dir", "",
		"Frontier database directory (default: XDG data directory)")

	return cmd
}

// runDedupeCmd executes the dedupe command.
func runDedupeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
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
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
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

	store, err := frontier.Open(dbDir, frontier.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open frontier database: %w", err)
	}
	defer store.Close()
	logger.Debug("frontier opened", "dir", dbDir)

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

	for _, res := range results {
		if res.Outcome != pipeline.OutcomeCanonical {
			continue
		}
		added, err := store.Add(ctx, res.Canonical, base, 0)
		if err != nil {
			return fmt.Errorf("failed to record %s: %w", res.Canonical, err)
		}
		if added {
			rep.NewCount++
		} else {
			rep.DuplicateCount++
			logger.Debug("duplicate URL", "url", res.Canonical, "input", res.Input)
		}
	}

	return outputReport(cfg, rep, cmd.OutOrStdout())
}
