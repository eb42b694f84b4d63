package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultContentRegion = "post-content"
	defaultLogLevel      = "info"
	defaultHTTPTimeout   = 10 * time.Second
	defaultSummaryLimit  = 300
)

// Config holds runtime settings for the CLI app.
type Config struct {
	ManifestURL    string        `yaml:"manifest_url"`
	ContentBaseURL string        `yaml:"content_base_url"`
	ContentRegion  string        `yaml:"content_region"`
	CachePath      string        `yaml:"cache_path"`
	LogPath        string        `yaml:"log_path"`
	LogLevel       string        `yaml:"log_level"`
	HTTPTimeout    time.Duration `yaml:"http_timeout"`
	// MaxInFlight bounds concurrent post content fetches; 0 is unbounded.
	MaxInFlight    int           `yaml:"max_in_flight"`
	SummaryLimit   int           `yaml:"summary_limit"`
}

// Override adjusts a loaded Config before validation, e.g. from command-line
// flags.
type Override func(*Config)

func Default() Config {
	return Config{
		ContentRegion: defaultContentRegion,
		LogLevel:      defaultLogLevel,
		HTTPTimeout:   defaultHTTPTimeout,
		SummaryLimit:  defaultSummaryLimit,
	}
}

// LoadFromEnv reads the file named by POSTSHELF_CONFIG, if any, applies the
// environment and overrides on top and validates the result.
func LoadFromEnv(overrides ...Override) (Config, error) {
	return LoadFile(os.Getenv("POSTSHELF_CONFIG"), overrides...)
}

// LoadFile is LoadFromEnv with an explicit config file path.
func LoadFile(path string, overrides ...Override) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	for _, override := range overrides {
		override(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load layers defaults, the YAML file at path and the environment, without
// validating. An empty path or a missing file contributes nothing.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if cfg.ContentRegion == "" {
		cfg.ContentRegion = defaultContentRegion
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString("POSTSHELF_MANIFEST_URL", &c.ManifestURL)
	setString("POSTSHELF_CONTENT_BASE_URL", &c.ContentBaseURL)
	setString("POSTSHELF_CONTENT_REGION", &c.ContentRegion)
	setString("POSTSHELF_CACHE_PATH", &c.CachePath)
	setString("POSTSHELF_LOG_PATH", &c.LogPath)
	setString("POSTSHELF_LOG_LEVEL", &c.LogLevel)

	if v := os.Getenv("POSTSHELF_HTTP_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("POSTSHELF_HTTP_TIMEOUT: %w", err)
		}
		c.HTTPTimeout = timeout
	}

	setInt := func(key string, dst *int) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}
	if err := setInt("POSTSHELF_MAX_IN_FLIGHT", &c.MaxInFlight); err != nil {
		return err
	}
	return setInt("POSTSHELF_SUMMARY_LIMIT", &c.SummaryLimit)
}

func (c Config) Validate() error {
	if c.ManifestURL == "" {
		return errors.New("POSTSHELF_MANIFEST_URL is required")
	}
	if err := validateHTTPURL(c.ManifestURL); err != nil {
		return fmt.Errorf("ManifestURL: %w", err)
	}
	if c.ContentBaseURL != "" {
		if err := validateHTTPURL(c.ContentBaseURL); err != nil {
			return fmt.Errorf("ContentBaseURL: %w", err)
		}
	}
	if strings.TrimSpace(c.ContentRegion) == "" || strings.ContainsAny(c.ContentRegion, " \t\n") {
		return fmt.Errorf("ContentRegion must be a single class token: %q", c.ContentRegion)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LogLevel must be debug, info, warn or error: %s", c.LogLevel)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTPTimeout must be positive: %s", c.HTTPTimeout)
	}
	if c.MaxInFlight < 0 {
		return fmt.Errorf("MaxInFlight must not be negative: %d", c.MaxInFlight)
	}
	if c.SummaryLimit <= 0 {
		return fmt.Errorf("SummaryLimit must be positive: %d", c.SummaryLimit)
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an http(s) URL: %s", raw)
	}
	return nil
}
