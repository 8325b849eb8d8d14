package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.BaseURI != DefaultBaseURI {
		t.Errorf("expected default base URI, got %q", cfg.BaseURI)
	}
	if cfg.Destination != "." {
		t.Errorf("expected default destination '.', got %q", cfg.Destination)
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("expected default workers %d, got %d", runtime.NumCPU(), cfg.Workers)
	}
	if cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("expected default http timeout 30s, got %v", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.MaxIdleConnsPerHost != 100 {
		t.Errorf("expected default max idle conns 100, got %d", cfg.HTTP.MaxIdleConnsPerHost)
	}
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
base_uri: https://example.org/wasapi/v1/webdata
destination: /data/warcs
user: alice
workers: 8
verbosity: 2
http:
  timeout: 45s
query:
  collections: ["1234", "5678"]
  crawl: "42"
  crawl_start_after: "2017-01-01"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.BaseURI != "https://example.org/wasapi/v1/webdata" {
		t.Errorf("unexpected base URI %q", cfg.BaseURI)
	}
	if cfg.Destination != "/data/warcs" {
		t.Errorf("unexpected destination %q", cfg.Destination)
	}
	if cfg.User != "alice" {
		t.Errorf("unexpected user %q", cfg.User)
	}
	if cfg.Workers != 8 {
		t.Errorf("expected workers 8, got %d", cfg.Workers)
	}
	if cfg.Verbosity != 2 {
		t.Errorf("expected verbosity 2, got %d", cfg.Verbosity)
	}
	if cfg.HTTP.Timeout != 45*time.Second {
		t.Errorf("expected http timeout 45s, got %v", cfg.HTTP.Timeout)
	}
	if len(cfg.Query.Collections) != 2 || cfg.Query.Collections[0] != "1234" {
		t.Errorf("unexpected collections %v", cfg.Query.Collections)
	}
	if cfg.Query.Crawl != "42" {
		t.Errorf("unexpected crawl %q", cfg.Query.Crawl)
	}
	if cfg.Query.CrawlStartAfter != "2017-01-01" {
		t.Errorf("unexpected crawl_start_after %q", cfg.Query.CrawlStartAfter)
	}
}

func TestLoadFromYAMLBadDuration(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("http:\n  timeout: nonsense\n"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	if _, err := LoadFromFile(configPath); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WASGET_BASE_URI", "https://env.example.org/webdata")
	t.Setenv("WASGET_DESTINATION", "/env/dest")
	t.Setenv("WASGET_USER", "bob")
	t.Setenv("WASGET_WORKERS", "3")
	t.Setenv("WASGET_VERBOSITY", "1")
	t.Setenv("WASGET_HTTP_TIMEOUT", "10s")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.BaseURI != "https://env.example.org/webdata" {
		t.Errorf("unexpected base URI %q", cfg.BaseURI)
	}
	if cfg.Destination != "/env/dest" {
		t.Errorf("unexpected destination %q", cfg.Destination)
	}
	if cfg.User != "bob" {
		t.Errorf("unexpected user %q", cfg.User)
	}
	if cfg.Workers != 3 {
		t.Errorf("expected workers 3, got %d", cfg.Workers)
	}
	if cfg.Verbosity != 1 {
		t.Errorf("expected verbosity 1, got %d", cfg.Verbosity)
	}
	if cfg.HTTP.Timeout != 10*time.Second {
		t.Errorf("expected http timeout 10s, got %v", cfg.HTTP.Timeout)
	}
}

func TestLoadFromEnvBadValue(t *testing.T) {
	t.Setenv("WASGET_WORKERS", "lots")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err == nil {
		t.Error("expected error for non-numeric WASGET_WORKERS")
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	merged := base.Merge(Config{
		Destination: "/override",
		Workers:     2,
	})

	if merged.Destination != "/override" {
		t.Errorf("expected overridden destination, got %q", merged.Destination)
	}
	if merged.Workers != 2 {
		t.Errorf("expected overridden workers 2, got %d", merged.Workers)
	}
	// Untouched fields keep base values.
	if merged.BaseURI != base.BaseURI {
		t.Errorf("base URI changed unexpectedly to %q", merged.BaseURI)
	}
	if merged.HTTP.Timeout != base.HTTP.Timeout {
		t.Errorf("http timeout changed unexpectedly to %v", merged.HTTP.Timeout)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	bad := Default()
	bad.BaseURI = ""
	if err := bad.Validate(); err == nil {
		t.Error("expected error for empty base URI")
	}

	bad = Default()
	bad.Workers = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero workers")
	}

	bad = Default()
	bad.Destination = ""
	if err := bad.Validate(); err == nil {
		t.Error("expected error for empty destination")
	}
}
