// Package config provides configuration management for the application.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/gostreamfr/internal/constants"
	"github.com/amaumene/gostreamfr/pkg/logger"
)

const (
	// Default configuration file name
	defaultConfigFile = "config.json"
	// Default database path
	defaultDatabasePath = "./cache.db"
)

// Config holds the application configuration.
// It supports loading from environment variables and JSON files.
type Config struct {
	Port     string `json:"PORT"`
	LogLevel string `json:"LOG_LEVEL"`

	// Remote config sources: plain-text files holding the site origin and proxy
	BaseURLSource  string `json:"BASE_URL_SOURCE"`
	ProxyURLSource string `json:"PROXY_URL_SOURCE"`
	DefaultBaseURL string `json:"DEFAULT_BASE_URL"`
	ProxyMode      string `json:"PROXY_MODE"` // "url" or "path"

	// Upstream fetching
	RequestTimeout  Duration `json:"REQUEST_TIMEOUT"`
	RemoteConfigTTL Duration `json:"REMOTE_CONFIG_TTL"`
	OutboundProxy   string   `json:"OUTBOUND_PROXY"`
	BrowserTLS      bool     `json:"BROWSER_TLS"`
	EpisodeRate     int      `json:"EPISODE_RATE"` // episode page fetches per second

	// Storage settings
	DatabasePath  string   `json:"DATABASE_PATH"`
	CacheSize     int      `json:"CACHE_SIZE"`
	CacheTTL      Duration `json:"CACHE_TTL"`
	ResponseCache bool     `json:"RESPONSE_CACHE"`

	// HTTPS serving: local files, or files downloaded from URLs into TLSCacheDir
	TLSCertFile string `json:"TLS_CERT_FILE"`
	TLSKeyFile  string `json:"TLS_KEY_FILE"`
	TLSCertURL  string `json:"TLS_CERT_URL"`
	TLSKeyURL   string `json:"TLS_KEY_URL"`
	TLSCacheDir string `json:"TLS_CACHE_DIR"`
}

// Duration decodes from either a Go duration string ("30s") or a number of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		*d = Duration(time.Duration(val * float64(time.Second)))
	case string:
		parsed, err := parseDuration(val)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load reads configuration from environment variables and optional JSON file.
// File values take precedence over environment variables.
// Returns an error if the configuration is invalid.
func Load() (*Config, error) {
	cfg := Default()

	// Load from environment variables
	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// Load from config file if exists
	configFile := getEnvOrDefault("CONFIG_FILE", defaultConfigFile)
	if err := cfg.loadFromFile(configFile); err != nil {
		// Ignore file not found errors
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Port:            constants.DefaultPort,
		LogLevel:        constants.DefaultLogLevel,
		DefaultBaseURL:  constants.DefaultBaseURL,
		ProxyMode:       constants.ProxyModeURL,
		RequestTimeout:  Duration(constants.FetchTimeout),
		RemoteConfigTTL: Duration(constants.RemoteConfigTTL),
		EpisodeRate:     constants.EpisodeRate,
		DatabasePath:    defaultDatabasePath,
		CacheSize:       constants.DefaultCacheSize,
		CacheTTL:        Duration(time.Duration(constants.DefaultCacheTTL) * time.Second),
		ResponseCache:   true,
	}
}

// loadFromEnv loads configuration from environment variables.
func (c *Config) loadFromEnv() error {
	c.Port = getEnvOrDefault("PORT", c.Port)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.BaseURLSource = getEnvOrDefault("BASE_URL_SOURCE", c.BaseURLSource)
	c.ProxyURLSource = getEnvOrDefault("PROXY_URL_SOURCE", c.ProxyURLSource)
	c.DefaultBaseURL = getEnvOrDefault("DEFAULT_BASE_URL", c.DefaultBaseURL)
	c.ProxyMode = getEnvOrDefault("PROXY_MODE", c.ProxyMode)
	c.OutboundProxy = getEnvOrDefault("OUTBOUND_PROXY", c.OutboundProxy)
	c.DatabasePath = getEnvOrDefault("DATABASE_PATH", c.DatabasePath)
	c.TLSCertFile = getEnvOrDefault("TLS_CERT_FILE", c.TLSCertFile)
	c.TLSKeyFile = getEnvOrDefault("TLS_KEY_FILE", c.TLSKeyFile)
	c.TLSCertURL = getEnvOrDefault("TLS_CERT_URL", c.TLSCertURL)
	c.TLSKeyURL = getEnvOrDefault("TLS_KEY_URL", c.TLSKeyURL)
	c.TLSCacheDir = getEnvOrDefault("TLS_CACHE_DIR", c.TLSCacheDir)

	durations := map[string]*Duration{
		"REQUEST_TIMEOUT":   &c.RequestTimeout,
		"REMOTE_CONFIG_TTL": &c.RemoteConfigTTL,
		"CACHE_TTL":         &c.CacheTTL,
	}
	for key, dst := range durations {
		if raw := os.Getenv(key); raw != "" {
			d, err := parseDuration(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = Duration(d)
		}
	}

	ints := map[string]*int{
		"CACHE_SIZE":   &c.CacheSize,
		"EPISODE_RATE": &c.EpisodeRate,
	}
	for key, dst := range ints {
		if raw := os.Getenv(key); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"BROWSER_TLS":    &c.BrowserTLS,
		"RESPONSE_CACHE": &c.ResponseCache,
	}
	for key, dst := range bools {
		if raw := os.Getenv(key); raw != "" {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	return nil
}

// loadFromFile loads configuration from a JSON file.
func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, c)
}

// Validate checks if the configuration is valid.
// Normalizes values that have a canonical form.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}

	c.LogLevel = strings.ToLower(c.LogLevel)
	if !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("unknown LOG_LEVEL %q", c.LogLevel)
	}

	c.DefaultBaseURL = strings.TrimRight(strings.TrimSpace(c.DefaultBaseURL), "/")
	if err := requireHTTPURL("DEFAULT_BASE_URL", c.DefaultBaseURL); err != nil {
		return err
	}
	for key, raw := range map[string]string{
		"BASE_URL_SOURCE":  c.BaseURLSource,
		"PROXY_URL_SOURCE": c.ProxyURLSource,
	} {
		if raw == "" {
			continue
		}
		if err := requireHTTPURL(key, raw); err != nil {
			return err
		}
	}

	c.ProxyMode = strings.ToLower(c.ProxyMode)
	if c.ProxyMode != constants.ProxyModeURL && c.ProxyMode != constants.ProxyModePath {
		return fmt.Errorf("PROXY_MODE must be %q or %q, got %q", constants.ProxyModeURL, constants.ProxyModePath, c.ProxyMode)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.RemoteConfigTTL < 0 {
		return fmt.Errorf("REMOTE_CONFIG_TTL must not be negative")
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("CACHE_SIZE must be positive")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative")
	}
	if c.EpisodeRate <= 0 {
		return fmt.Errorf("EPISODE_RATE must be positive")
	}

	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if (c.TLSCertURL == "") != (c.TLSKeyURL == "") {
		return fmt.Errorf("TLS_CERT_URL and TLS_KEY_URL must be set together")
	}
	if c.TLSCertURL != "" {
		if err := requireHTTPURL("TLS_CERT_URL", c.TLSCertURL); err != nil {
			return err
		}
		if err := requireHTTPURL("TLS_KEY_URL", c.TLSKeyURL); err != nil {
			return err
		}
	}

	return nil
}

// TLSEnabled reports whether the server should listen with HTTPS.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" || c.TLSCertURL != ""
}

func requireHTTPURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
	}
	return nil
}

// parseDuration accepts Go duration strings and bare seconds.
func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(raw)
}

// getEnvOrDefault returns environment variable value or default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
