// ABOUTME: Tests for configuration loading
// ABOUTME: Covers defaults, env overrides, the YAML file and validation errors

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// cleanEnv clears every variable Load reads and moves into an empty
// directory so no stray .env is picked up
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvAPIURL, EnvMock, EnvMockData, EnvMockLatency, EnvConfigDir,
		EnvConfigPath, EnvTimeout, EnvPageLimit, EnvLogLevel, EnvLogFormat,
	} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	cleanEnv(t)

	cfg, err := Load(Overrides{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("Expected default API URL %s, got %s", DefaultAPIURL, cfg.APIURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %s", cfg.Timeout)
	}
	if cfg.PageLimit != 10 {
		t.Errorf("Expected default page limit 10, got %d", cfg.PageLimit)
	}
	if cfg.Mock {
		t.Error("Expected mock mode off by default")
	}
	if cfg.ConfigDir != "/tmp/xdg/freelancehub" {
		t.Errorf("Expected XDG config dir, got %s", cfg.ConfigDir)
	}
	if cfg.DebugLogPath() != "/tmp/xdg/freelancehub/debug.log" {
		t.Errorf("Unexpected debug log path %s", cfg.DebugLogPath())
	}
}

func TestLoad_Env(t *testing.T) {
	cleanEnv(t)
	t.Setenv(EnvAPIURL, "https://api.freelancehub.test")
	t.Setenv(EnvMock, "true")
	t.Setenv(EnvMockLatency, "400ms")
	t.Setenv(EnvTimeout, "5s")
	t.Setenv(EnvPageLimit, "25")

	cfg, err := Load(Overrides{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.APIURL != "https://api.freelancehub.test" {
		t.Errorf("Expected env API URL, got %s", cfg.APIURL)
	}
	if !cfg.Mock || cfg.MockLatency != 400*time.Millisecond {
		t.Errorf("Expected mock with 400ms latency, got %v %s", cfg.Mock, cfg.MockLatency)
	}
	if cfg.Timeout != 5*time.Second || cfg.PageLimit != 25 {
		t.Errorf("Expected timeout 5s and limit 25, got %s %d", cfg.Timeout, cfg.PageLimit)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{EnvPageLimit, "ten", "must be an integer"},
		{EnvPageLimit, "0", "between 1 and 100"},
		{EnvPageLimit, "101", "between 1 and 100"},
		{EnvTimeout, "soon", "must be a duration"},
		{EnvTimeout, "-1s", "must be positive"},
		{EnvMock, "maybe", "must be a boolean"},
		{EnvMockLatency, "-5ms", "must not be negative"},
		{EnvAPIURL, "localhost:8000", "http(s) URL"},
		{EnvLogFormat, "xml", "text or json"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cleanEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(Overrides{})
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoad_FilePrecedence(t *testing.T) {
	cleanEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api_url: https://file.example\npage_limit: 50\nmock_latency: 250ms\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvPageLimit, "20")

	cfg, err := Load(Overrides{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.APIURL != "https://file.example" {
		t.Errorf("Expected file API URL, got %s", cfg.APIURL)
	}
	if cfg.PageLimit != 20 {
		t.Errorf("Expected env to override file page limit, got %d", cfg.PageLimit)
	}
	if cfg.MockLatency != 250*time.Millisecond {
		t.Errorf("Expected 250ms latency from file, got %s", cfg.MockLatency)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected debug log level from file, got %s", cfg.LogLevel)
	}
}

func TestLoad_BadFile(t *testing.T) {
	cleanEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("page_limit: [oops"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)

	if _, err := Load(Overrides{}); err == nil {
		t.Error("Expected error for malformed YAML, got nil")
	}

	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(Overrides{}); err == nil {
		t.Error("Expected error for missing config file, got nil")
	}
}

func TestLoad_DotEnv(t *testing.T) {
	cleanEnv(t)
	os.Unsetenv(EnvAPIURL)
	os.Unsetenv(EnvMock)
	if err := os.WriteFile(".env", []byte("FREELANCEHUB_API_URL=https://dotenv.example\nFREELANCEHUB_MOCK=1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv(EnvAPIURL)
		os.Unsetenv(EnvMock)
	})

	cfg, err := Load(Overrides{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.APIURL != "https://dotenv.example" || !cfg.Mock {
		t.Errorf("Expected values from .env, got %s mock=%v", cfg.APIURL, cfg.Mock)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cleanEnv(t)
	t.Setenv(EnvAPIURL, "https://env.example")
	t.Setenv(EnvMock, "true")

	off := false
	cfg, err := Load(Overrides{APIURL: "http://flag.example:9000", Mock: &off})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.APIURL != "http://flag.example:9000" {
		t.Errorf("Expected flag API URL, got %s", cfg.APIURL)
	}
	if cfg.Mock {
		t.Error("Expected flag to turn mock mode off")
	}
}
