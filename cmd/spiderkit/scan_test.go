package main

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFixture writes a scan fixture file and returns its path.
func writeFixture(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestScanCmd tests the scan command end to end.
func TestScanCmd(t *testing.T) {
	t.Run("finds URLs in plain text", func(t *testing.T) {
		path := writeFixture(t, "notes.txt",
			"see http://example.com/docs and (https://other.example.com/page) for details\n")

		out, err := execute(t, "scan", "--json", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rep := decodeJSONReport(t, out)
		if len(rep.Discoveries) != 2 {
			t.Fatalf("got %d discoveries, want 2: %+v", len(rep.Discoveries), rep.Discoveries)
		}
		if rep.Discoveries[0].URL != "http://example.com/docs" {
			t.Errorf("got %q, want http://example.com/docs", rep.Discoveries[0].URL)
		}
		if rep.Discoveries[1].URL != "https://other.example.com/page" {
			t.Errorf("got %q, want https://other.example.com/page", rep.Discoveries[1].URL)
		}
	})

	t.Run("extracts and resolves HTML links", func(t *testing.T) {
		path := writeFixture(t, "page.html",
			`<html><body><a href="../other">link</a><img src="/logo.png"></body></html>`)

		out, err := execute(t, "scan", "--json",
			"--url", "http://example.com/dir/page.html", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rep := decodeJSONReport(t, out)
		found := make(map[string]bool, len(rep.Discoveries))
		for _, d := range rep.Discoveries {
			found[d.URL] = true
		}
		if !found["http://example.com/other"] {
			t.Errorf("missing resolved link, got %+v", rep.Discoveries)
		}
		if !found["http://example.com/logo.png"] {
			t.Errorf("missing image source, got %+v", rep.Discoveries)
		}
	})

	t.Run("canonicalizes discoveries by default", func(t *testing.T) {
		path := writeFixture(t, "body.txt",
			"login at http://example.com/app?jsessionid=ABC123&page=2 now\n")

		out, err := execute(t, "scan", "--json", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rep := decodeJSONReport(t, out)
		if len(rep.Discoveries) != 1 {
			t.Fatalf("got %d discoveries, want 1", len(rep.Discoveries))
		}
		if rep.Discoveries[0].URL != "http://example.com/app?page=2" {
			t.Errorf("got %q, want session token removed", rep.Discoveries[0].URL)
		}
	})

	t.Run("raw mode keeps discoveries untouched", func(t *testing.T) {
		path := writeFixture(t, "body.txt",
			"see HTTP://Example.COM:80/path here\n")

		out, err := execute(t, "scan", "--json", "--raw", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		rep := decodeJSONReport(t, out)
		if len(rep.Discoveries) != 1 {
			t.Fatalf("got %d discoveries, want 1", len(rep.Discoveries))
		}
		if rep.Discoveries[0].URL != "http://example.com:80/path" {
			t.Errorf("got %q, want scanner output without canonicalization", rep.Discoveries[0].URL)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := execute(t, "scan", filepath.Join(t.TempDir(), "missing.txt"))
		if err == nil {
			t.Error("expected an error for a missing file")
		}
	})
}
