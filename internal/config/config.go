// ABOUTME: Configuration loader for the freelancehub command line and terminal UI
// ABOUTME: Layers defaults, an optional YAML file, .env and environment variables

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/freelancehub/freelancehub-cli/internal/session"
)

const (
	DefaultAPIURL    = "http://localhost:8000"
	DefaultTimeout   = 30 * time.Second
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Environment variable names
const (
	EnvAPIURL      = "FREELANCEHUB_API_URL"
	EnvMock        = "FREELANCEHUB_MOCK"
	EnvMockData    = "FREELANCEHUB_MOCK_DATA"
	EnvMockLatency = "FREELANCEHUB_MOCK_LATENCY"
	EnvConfigDir   = "FREELANCEHUB_CONFIG_DIR"
	EnvConfigPath  = "FREELANCEHUB_CONFIG_PATH"
	EnvTimeout     = "FREELANCEHUB_TIMEOUT"
	EnvPageLimit   = "FREELANCEHUB_PAGE_LIMIT"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFormat   = "LOG_FORMAT"
)

type Config struct {
	// API
	APIURL  string        `yaml:"api_url"`
	Timeout time.Duration `yaml:"timeout"`

	// Mock mode serves projects and accounts from a static data set
	Mock        bool          `yaml:"mock"`
	MockData    string        `yaml:"mock_data"`    // path to a JSON data set, empty = built-in
	MockLatency time.Duration `yaml:"mock_latency"` // simulated per-call delay

	// Local state
	ConfigDir string `yaml:"config_dir"` // token and debug log directory
	PageLimit int    `yaml:"page_limit"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Overrides are command-line values that win over every other source
type Overrides struct {
	APIURL string
	Mock   *bool
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		APIURL:    DefaultAPIURL,
		Timeout:   DefaultTimeout,
		ConfigDir: session.DefaultConfigDir(),
		PageLimit: DefaultPageLimit,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load builds the configuration. A .env file in the working directory is
// read first and never replaces variables already set.
func Load(o Overrides) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := Defaults()
	if path := os.Getenv(EnvConfigPath); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if o.APIURL != "" {
		cfg.APIURL = o.APIURL
	}
	if o.Mock != nil {
		cfg.Mock = *o.Mock
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.APIURL = getEnv(EnvAPIURL, c.APIURL)
	c.MockData = getEnv(EnvMockData, c.MockData)
	c.ConfigDir = getEnv(EnvConfigDir, c.ConfigDir)
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
	c.LogFormat = getEnv(EnvLogFormat, c.LogFormat)

	var errs []error
	var err error
	if c.Mock, err = getEnvBool(EnvMock, c.Mock); err != nil {
		errs = append(errs, err)
	}
	if c.MockLatency, err = getEnvDuration(EnvMockLatency, c.MockLatency); err != nil {
		errs = append(errs, err)
	}
	if c.Timeout, err = getEnvDuration(EnvTimeout, c.Timeout); err != nil {
		errs = append(errs, err)
	}
	if c.PageLimit, err = getEnvInt(EnvPageLimit, c.PageLimit); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Validate checks ranges and formats
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", EnvAPIURL, c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", EnvTimeout, c.Timeout)
	}
	if c.MockLatency < 0 {
		return fmt.Errorf("%s must not be negative, got %s", EnvMockLatency, c.MockLatency)
	}
	if c.PageLimit < 1 || c.PageLimit > MaxPageLimit {
		return fmt.Errorf("%s must be between 1 and %d, got %d", EnvPageLimit, MaxPageLimit, c.PageLimit)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%s must be text or json, got %q", EnvLogFormat, c.LogFormat)
	}
	return nil
}

// DebugLogPath is where the terminal UI writes its log
func (c *Config) DebugLogPath() string {
	if c.ConfigDir == "" {
		return ""
	}
	return filepath.Join(c.ConfigDir, "debug.log")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be a boolean, got %q", key, value)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be a duration like 30s, got %q", key, value)
	}
	return d, nil
}
