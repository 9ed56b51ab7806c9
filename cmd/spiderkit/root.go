// Package main provides the entry point for the spiderkit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for spiderkit.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spiderkit",
		Short: "URL canonicalization and link discovery toolkit",
		Long: `Spiderkit is the URL identity toolkit of a security-testing crawler.

It reduces URLs to a canonical form so that equivalent spellings compare
equal, scans text and HTML bodies for links, and deduplicates discovered
URLs against a persistent frontier.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCanonicalizeCmd())
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewDedupeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
