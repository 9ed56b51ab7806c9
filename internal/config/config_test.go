package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/AleksandrPea/spiderkit/internal/canonical"
)

// TestNewConfig tests the default configuration values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if cfg.Mode != canonical.UseAll {
		t.Errorf("default mode = %q, want %q", cfg.Mode, canonical.UseAll)
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("default batch size = %d, want %d", cfg.BatchSize, DefaultBatchSize)
	}
	if cfg.DBDir == "" {
		t.Error("default DB directory must not be empty")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default configuration must validate, got %v", err)
	}
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-positive batch size", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.BatchSize = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidBatchSize) {
			t.Errorf("got %v, want ErrInvalidBatchSize", err)
		}
	})

	t.Run("rejects conflicting report formats", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.JSONReport = true
		cfg.MarkdownReport = true
		if err := cfg.Validate(); !errors.Is(err, ErrConflictingReportFormats) {
			t.Errorf("got %v, want ErrConflictingReportFormats", err)
		}
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Mode = canonical.Mode("bogus")
		if err := cfg.Validate(); !errors.Is(err, canonical.ErrUnknownMode) {
			t.Errorf("got %v, want ErrUnknownMode", err)
		}
	})
}

// TestLoadConfigFile tests YAML configuration loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads a valid file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `mode: ignore_value
odata_parameters: true
extra_session_tokens:
  - x-custom-token
exclude_parameters:
  - utm_source
  - utm_medium
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Mode != "ignore_value" {
			t.Errorf("mode = %q, want ignore_value", cf.Mode)
		}
		if cf.ODataParameters == nil || !*cf.ODataParameters {
			t.Error("odata_parameters must be set to true")
		}
		if len(cf.ExcludeParameters) != 2 {
			t.Errorf("exclude_parameters = %v, want two entries", cf.ExcludeParameters)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("got %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("malformed YAML returns an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("mode: [unclosed"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected an unmarshal error")
		}
	})
}

// TestFindConfigFile tests configuration file discovery.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path wins", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yml")
		if err := os.WriteFile(path, []byte("mode: use_all\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("got %q, want %q", got, path)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yml")); got != "" {
			t.Errorf("got %q, want empty string", got)
		}
	})
}

// TestApplyFile tests overlaying file values onto defaults.
func TestApplyFile(t *testing.T) {
	t.Parallel()

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		if err := cfg.ApplyFile(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Mode != DefaultMode {
			t.Errorf("mode changed to %q", cfg.Mode)
		}
	})

	t.Run("set values override, lists merge", func(t *testing.T) {
		t.Parallel()

		odata := true
		cfg := NewConfig()
		cfg.ExcludeParams = []string{"debug"}
		err := cfg.ApplyFile(&File{
			Mode:              "ignore_completely",
			ODataParameters:   &odata,
			ExcludeParameters: []string{"utm_source"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Mode != canonical.IgnoreCompletely {
			t.Errorf("mode = %q, want ignore_completely", cfg.Mode)
		}
		if !cfg.ODataParams {
			t.Error("odata flag must be set")
		}
		if len(cfg.ExcludeParams) != 2 {
			t.Errorf("exclude params = %v, want merged pair", cfg.ExcludeParams)
		}
	})

	t.Run("invalid mode in file is rejected", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		err := cfg.ApplyFile(&File{Mode: "bogus"})
		if !errors.Is(err, canonical.ErrUnknownMode) {
			t.Errorf("got %v, want ErrUnknownMode", err)
		}
	})
}
