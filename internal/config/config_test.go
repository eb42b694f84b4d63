package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{
	"POSTSHELF_CONFIG",
	"POSTSHELF_MANIFEST_URL",
	"POSTSHELF_CONTENT_BASE_URL",
	"POSTSHELF_CONTENT_REGION",
	"POSTSHELF_CACHE_PATH",
	"POSTSHELF_LOG_PATH",
	"POSTSHELF_LOG_LEVEL",
	"POSTSHELF_HTTP_TIMEOUT",
	"POSTSHELF_MAX_IN_FLIGHT",
	"POSTSHELF_SUMMARY_LIMIT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "postshelf.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromEnv_UsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTSHELF_MANIFEST_URL", "https://example.com/blog/posts.json")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}

	if cfg.ContentRegion != defaultContentRegion {
		t.Fatalf("unexpected content region: %s", cfg.ContentRegion)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.HTTPTimeout)
	}
	if cfg.CachePath != "" || cfg.LogPath != "" || cfg.ContentBaseURL != "" {
		t.Fatalf("expected optional settings to stay empty, got %+v", cfg)
	}
}

func TestLoadFromEnv_MissingManifestURL(t *testing.T) {
	clearEnv(t)

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for missing manifest URL")
	}
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
manifest_url: https://file.example.com/posts.json
content_region: entry-body
cache_path: /tmp/postshelf.db
log_level: debug
http_timeout: 3s
`)
	t.Setenv("POSTSHELF_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ManifestURL != "https://file.example.com/posts.json" {
		t.Fatalf("unexpected manifest URL: %s", cfg.ManifestURL)
	}
	if cfg.ContentRegion != "entry-body" || cfg.CachePath != "/tmp/postshelf.db" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected environment to override file, got %s", cfg.LogLevel)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.HTTPTimeout)
	}
}

func TestLoadFromEnv_ConfigPathFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTSHELF_CONFIG", writeConfig(t, "manifest_url: https://example.com/posts.json\n"))

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}
	if cfg.ManifestURL != "https://example.com/posts.json" {
		t.Fatalf("unexpected manifest URL: %s", cfg.ManifestURL)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_InvalidInput(t *testing.T) {
	clearEnv(t)
	if _, err := Load(writeConfig(t, "manifest_url: [unterminated")); err == nil {
		t.Fatal("expected parse error")
	}

	t.Setenv("POSTSHELF_HTTP_TIMEOUT", "soon")
	if _, err := Load(""); err == nil {
		t.Fatal("expected timeout parse error")
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.ManifestURL = "https://example.com/posts.json"
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	for name, mutate := range map[string]func(*Config){
		"ftp manifest":     func(c *Config) { c.ManifestURL = "ftp://example.com/posts.json" },
		"relative":         func(c *Config) { c.ManifestURL = "/posts.json" },
		"bad content base": func(c *Config) { c.ContentBaseURL = "file:///tmp" },
		"region spaces":    func(c *Config) { c.ContentRegion = "post content" },
		"log level":        func(c *Config) { c.LogLevel = "verbose" },
		"zero timeout":     func(c *Config) { c.HTTPTimeout = 0 },
		"negative limit":   func(c *Config) { c.MaxInFlight = -1 },
		"zero summary":     func(c *Config) { c.SummaryLimit = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoad_FetchLimits(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "max_in_flight: 4\nsummary_limit: 120\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MaxInFlight != 4 || cfg.SummaryLimit != 120 {
		t.Fatalf("file limits not applied: %+v", cfg)
	}

	t.Setenv("POSTSHELF_MAX_IN_FLIGHT", "2")
	t.Setenv("POSTSHELF_SUMMARY_LIMIT", "80")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MaxInFlight != 2 || cfg.SummaryLimit != 80 {
		t.Fatalf("environment limits not applied: %+v", cfg)
	}

	t.Setenv("POSTSHELF_MAX_IN_FLIGHT", "many")
	if _, err := Load(path); err == nil {
		t.Fatal("expected max in flight parse error")
	}
}

func TestLoadFromEnv_OverridesApplyBeforeValidation(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv(func(c *Config) { c.ManifestURL = "https://flag.example.com/posts.json" })
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}
	if cfg.ManifestURL != "https://flag.example.com/posts.json" {
		t.Fatalf("override not applied: %s", cfg.ManifestURL)
	}

	if _, err := LoadFile("", func(c *Config) { c.ManifestURL = "ftp://flag.example.com" }); err == nil {
		t.Fatal("expected overridden value to be validated")
	}
}
