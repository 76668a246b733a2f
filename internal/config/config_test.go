package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storyloom/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatalf("expected exists=false for %s", path)
	}
	if cfg.Workflow.StatusPollInterval != 3 {
		t.Fatalf("expected default poll interval 3, got %d", cfg.Workflow.StatusPollInterval)
	}
	if cfg.Prefetch.ItemTimeout != 45 {
		t.Fatalf("expected default item timeout 45, got %d", cfg.Prefetch.ItemTimeout)
	}
	if cfg.Service.BaseURL == "" {
		t.Fatal("expected default service base URL")
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[service]",
		`base_url = "https://episodes.example.com/"`,
		"",
		"[paths]",
		`cache_dir = "` + filepath.Join(dir, "cache") + `"`,
		`data_dir = "` + filepath.Join(dir, "data") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		"",
		"[workflow]",
		"status_poll_interval = 1",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Service.BaseURL != "https://episodes.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Service.BaseURL)
	}
	if cfg.Workflow.StatusPollInterval != 1 {
		t.Fatalf("expected poll interval 1, got %d", cfg.Workflow.StatusPollInterval)
	}
	if got := cfg.LibraryDBPath(); !strings.HasSuffix(got, filepath.Join("data", "library.db")) {
		t.Fatalf("unexpected library db path %q", got)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty base url", func(c *config.Config) { c.Service.BaseURL = "" }},
		{"non-http base url", func(c *config.Config) { c.Service.BaseURL = "ftp://example.com" }},
		{"zero poll interval", func(c *config.Config) { c.Workflow.StatusPollInterval = 0 }},
		{"timeout below interval", func(c *config.Config) {
			c.Workflow.StatusPollInterval = 10
			c.Workflow.GenerationTimeout = 5
		}},
		{"zero item timeout", func(c *config.Config) { c.Prefetch.ItemTimeout = 0 }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Logging.Format = "console"
			cfg.Logging.Level = "info"
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Workflow.StatusPollInterval != 3 || cfg.Prefetch.ItemTimeout != 45 {
		t.Fatalf("sample defaults drifted: %+v", cfg.Workflow)
	}
}

func TestEnvironmentOverridesBaseURL(t *testing.T) {
	t.Setenv("STORYLOOM_SERVICE_URL", "https://env.example.com")
	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Service.BaseURL != "https://env.example.com" {
		t.Fatalf("expected env override, got %q", cfg.Service.BaseURL)
	}
}
