package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleksandrPea/spiderkit/internal/canonical"
	"github.com/AleksandrPea/spiderkit/internal/config"
	"github.com/AleksandrPea/spiderkit/internal/model"
	"github.com/AleksandrPea/spiderkit/internal/parser"
	"github.com/AleksandrPea/spiderkit/internal/report"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [file]...",
		Short: "Scan text and HTML files for URLs",
		Long: `Scan runs the parser chain over local files and reports every URL it
finds. HTML files are parsed structurally and their links resolved
against the source URL; plain text files are scanned for http and https
URLs between delimiters.

Discovered URLs are canonicalized before reporting, so the output is
directly comparable and free of session tokens.

Examples:
  # Scan an HTML page saved to disk
  spiderkit scan page.html

  # Scan several files and write a Markdown report
  spiderkit scan --markdown -o report.md page.html notes.txt

  # Resolve relative links against the original page URL
  spiderkit scan --url http://example.com/dir/page.html page.html`,
		Args: cobra.MinimumNArgs(1),
		RunE: runScanCmd,
	}

	addCanonicalFlags(cmd)
	cmd.Flags().StringP("url", "u", "",
		"Source URL the files were fetched from (base for relative links)")
	cmd.Flags().StringP("content-type", "t", "",
		"Override the Content-Type inferred from the file extension")
	cmd.Flags().Bool("raw", false,
		"Report discovered URLs without canonicalizing them")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg)

	sourceURL, err := cmd.Flags().GetString("url")
	if err != nil {
		return err
	}
	contentType, err := cmd.Flags().GetString("content-type")
	if err != nil {
		return err
	}
	raw, err := cmd.Flags().GetBool("raw")
	if err != nil {
		return err
	}

	var discoveries []report.Discovery
	listener := func(found parser.FoundURL) {
		discoveries = append(discoveries, report.Discovery{
			URL:    found.URL,
			Source: found.Source,
			Depth:  found.Depth,
		})
	}

	text := parser.NewTextParser()
	text.AddListener(listener)
	html := parser.NewHTMLParser()
	html.AddListener(listener)
	chain := parser.NewChain(
		[]parser.Parser{html, text},
		parser.WithChainLogger(logger),
	)

	for _, path := range args {
		res, err := loadResource(path, sourceURL, contentType)
		if err != nil {
			return err
		}
		if _, err := chain.Process(res, path, 0); err != nil {
			return fmt.Errorf("failed to scan %s: %w", path, err)
		}
	}

	if !raw {
		discoveries = canonicalizeDiscoveries(cfg, discoveries)
	}

	rep := report.NewReport(cfg.Mode.String(), sourceURL)
	rep.Discoveries = discoveries

	return outputReport(cfg, rep, cmd.OutOrStdout())
}

// loadResource reads a file into a Resource, inferring the content type
// from the extension unless overridden.
func loadResource(path, sourceURL, contentType string) (*model.Resource, error) {
	body, err := os.ReadFile(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if contentType == "" {
		contentType = inferContentType(path)
	}
	resURL := sourceURL
	if resURL == "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		resURL = "file://" + filepath.ToSlash(abs)
	}

	return model.NewResource(resURL, contentType, body), nil
}

// inferContentType maps a file extension to a media type. Anything that
// is not recognizably HTML is treated as plain text so the text scanner
// gets a chance at it.
func inferContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "text/html"
	default:
		return "text/plain"
	}
}

// canonicalizeDiscoveries replaces each discovered URL with its canonical
// form, dropping discoveries the engine rejects.
func canonicalizeDiscoveries(cfg *config.Config, discoveries []report.Discovery) []report.Discovery {
	engine := canonical.New(
		canonical.WithMode(cfg.Mode),
		canonical.WithODataParams(cfg.ODataParams),
	)
	excluded := buildExcludedSet(cfg)

	kept := discoveries[:0]
	for _, d := range discoveries {
		cu, err := engine.CanonicalizeWith(d.URL, d.Source, excluded)
		if err != nil {
			continue
		}
		d.URL = cu
		kept = append(kept, d)
	}
	return kept
}
