// Package main provides the entry point for the spiderkit CLI.
//
// Spiderkit is the URL identity toolkit of a security-testing crawler.
// It canonicalizes URLs, scans text and HTML bodies for links, and
// deduplicates discovered URLs against a persistent frontier.
//
// Usage:
//
//	spiderkit canonicalize <url>...
//	spiderkit scan <file>...
//	spiderkit dedupe <url>...
//
// See --help for all available options.
package main

// main is the entry point for spiderkit.
func main() {
	Execute()
}
