package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AleksandrPea/spiderkit/internal/report"
)

// execute runs the root command with the given args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

// decodeJSONReport parses the JSON report envelope emitted by --json.
func decodeJSONReport(t *testing.T, out string) *report.Report {
	t.Helper()

	var envelope struct {
		Report *report.Report `json:"report"`
	}
	if err := json.Unmarshal([]byte(out), &envelope); err != nil {
		t.Fatalf("output is not a JSON report: %v\n%s", err, out)
	}
	return envelope.Report
}

// TestCanonicalizeCmd tests the canonicalize command end to end.
func TestCanonicalizeCmd(t *testing.T) {
	t.Run("canonicalizes a URL", func(t *testing.T) {
		out, err := execute(t, "canonicalize", "--json",
			"HTTP://Example.COM:80/a/../b?z=2&a=1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rep := decodeJSONReport(t, out)
		if len(rep.Results) != 1 {
			t.Fatalf("got %d results, want 1", len(rep.Results))
		}
		want := "http://example.com/b?a=1&z=2"
		if rep.Results[0].Canonical != want {
			t.Errorf("got %q, want %q", rep.Results[0].Canonical, want)
		}
	})

	t.Run("resolves relative inputs against the base", func(t *testing.T) {
		out, err := execute(t, "canonicalize", "--json",
			"--base", "http://example.com/dir/page.html", "../other")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rep := decodeJSONReport(t, out)
		if rep.Results[0].Canonical != "http://example.com/other" {
			t.Errorf("got %q, want http://example.com/other", rep.Results[0].Canonical)
		}
	})

	t.Run("removes session tokens and excluded parameters", func(t *testing.T) {
		out, err := execute(t, "canonicalize", "--json", "--exclude", "utm_source",
			"http://example.com/?jsessionid=abc&utm_source=mail&page=2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rep := decodeJSONReport(t, out)
		if rep.Results[0].Canonical != "http://example.com/?page=2" {
			t.Errorf("got %q, want http://example.com/?page=2", rep.Results[0].Canonical)
		}
	})

	t.Run("reads URLs from an input file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "urls.txt")
		content := "# seed list\nhttp://example.com/a\n\nhttp://example.com/b\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		out, err := execute(t, "canonicalize", "--json", "--input", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rep := decodeJSONReport(t, out)
		if len(rep.Results) != 2 {
			t.Errorf("got %d results, want 2 (comments and blanks skipped)", len(rep.Results))
		}
	})

	t.Run("writes the report to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "report.md")
		_, err := execute(t, "canonicalize", "--markdown", "--output", path,
			"http://example.com/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("report file not written: %v", err)
		}
		if !strings.Contains(string(data), "# Spiderkit Report") {
			t.Errorf("report file missing markdown header: %s", data)
		}
	})

	t.Run("rejects an unknown mode", func(t *testing.T) {
		_, err := execute(t, "canonicalize", "--mode", "bogus", "http://example.com/")
		if err == nil {
			t.Error("expected an error for an unknown mode")
		}
	})

	t.Run("fails without URLs", func(t *testing.T) {
		_, err := execute(t, "canonicalize")
		if err == nil {
			t.Error("expected an error when no URLs are given")
		}
	})

	t.Run("explicit missing config file is an error", func(t *testing.T) {
		_, err := execute(t, "canonicalize",
			"--config", filepath.Join(t.TempDir(), "nope.yml"), "http://example.com/")
		if err == nil {
			t.Error("expected an error for a missing config file")
		}
	})
}
