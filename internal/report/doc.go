// Package report provides output formatting for canonicalization and
// scan results.
//
// Three writers share the Writer interface: a plain-text writer for
// terminal display, a JSON writer for tool integration, and a Markdown
// writer for documentation and sharing. A MultiWriter fans one report
// out to several destinations, typically the terminal plus a file.
package report
