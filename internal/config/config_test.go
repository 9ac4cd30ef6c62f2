// internal/config/config_test.go
package config

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadFromBytes(t *testing.T) {
	configYAML := `
source:
  base_url: "https://catalogue.example.com"
  timeout: 10s
  rate_limit: 1.5
  user_agents:
    - "TestAgent/1.0"
cache:
  max_entries: 500
log:
  level: debug
  format: json
`

	config, err := LoadFromBytes([]byte(configYAML))
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}

	if config.Source.BaseURL != "https://catalogue.example.com" {
		t.Errorf("expected base_url override, got %q", config.Source.BaseURL)
	}
	if config.Source.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", config.Source.Timeout)
	}
	if config.Source.RateLimit != 1.5 {
		t.Errorf("expected rate limit 1.5, got %v", config.Source.RateLimit)
	}
	if config.Cache.MaxEntries != 500 {
		t.Errorf("expected max_entries 500, got %d", config.Cache.MaxEntries)
	}
	if config.Log.Format != "json" {
		t.Errorf("expected json log format, got %q", config.Log.Format)
	}
	// Untouched sections keep defaults.
	if config.Server.Listen != DefaultListen {
		t.Errorf("expected default listen %q, got %q", DefaultListen, config.Server.Listen)
	}
	if !config.Metrics.Enabled || config.Metrics.Path != DefaultMetricsPath {
		t.Errorf("expected metrics enabled on %s, got %+v", DefaultMetricsPath, config.Metrics)
	}
}

func TestLoadFromBytes_MetricsDisabled(t *testing.T) {
	config, err := LoadFromBytes([]byte("metrics:\n  enabled: false\n"))
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}
	if config.Metrics.Enabled {
		t.Error("expected metrics to stay disabled")
	}
}

func TestLoadFromBytes_ExpandsEnvironment(t *testing.T) {
	t.Setenv("SCRAPECACHE_TEST_PROXY", "https://relay.example.com/?url=")

	config, err := LoadFromBytes([]byte("source:\n  proxy_url: \"${SCRAPECACHE_TEST_PROXY}\"\n"))
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}
	if config.Source.ProxyURL != "https://relay.example.com/?url=" {
		t.Errorf("expected expanded proxy url, got %q", config.Source.ProxyURL)
	}
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantField string
	}{
		{"empty", "", ""},
		{"malformed yaml", "source: [", ""},
		{"relative base url", "source:\n  base_url: /relative\n", "source.base_url"},
		{"bad proxy", "source:\n  proxy_url: ftp://relay\n", "source.proxy_url"},
		{"negative rate", "source:\n  rate_limit: -1\n", "source.rate_limit"},
		{"negative cache", "cache:\n  max_entries: -5\n", "cache.max_entries"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"bad format", "log:\n  format: xml\n", "log.format"},
		{"bad metrics path", "metrics:\n  path: metrics\n", "metrics.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantField != "" && !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("expected error to mention %q, got %v", tt.wantField, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "test_config_*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString("server:\n  listen: \":9090\"\n"); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	tmpFile.Close()

	config, err := LoadFromFile(tmpFile.Name())
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if config.Server.Listen != ":9090" {
		t.Errorf("expected listen ':9090', got %q", config.Server.Listen)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/scrapecache.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadFromFile(""); err == nil {
		t.Error("expected error for empty filename")
	}
}

func TestGenerateTemplate_RoundTrips(t *testing.T) {
	data, err := GenerateTemplate()
	if err != nil {
		t.Fatalf("GenerateTemplate failed: %v", err)
	}

	config, err := LoadFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("template should load: %v\n%s", err, data)
	}
	if config.Source.BaseURL != DefaultBaseURL {
		t.Errorf("expected default base url, got %q", config.Source.BaseURL)
	}
	if config.Source.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", config.Source.Timeout)
	}
}

func TestSaveToWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := SaveToWriter(Default(), &buf); err != nil {
		t.Fatalf("SaveToWriter failed: %v", err)
	}
	if !strings.Contains(buf.String(), "base_url: "+DefaultBaseURL) {
		t.Errorf("expected base_url in output, got:\n%s", buf.String())
	}

	invalid := Default()
	invalid.Log.Level = "loud"
	if err := SaveToWriter(invalid, &buf); err == nil {
		t.Error("expected invalid configuration to be rejected")
	}
}

func TestValidateWithDetails_CollectsAllErrors(t *testing.T) {
	config := Default()
	config.Source.BaseURL = ""
	config.Server.Listen = ""
	config.Source.UserAgents = []string{" "}

	result := config.ValidateWithDetails()
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Errors) != 3 {
		t.Errorf("expected 3 errors, got %d: %+v", len(result.Errors), result.Errors)
	}
}

func TestValidateWithDetails_WarnsOnHTTP(t *testing.T) {
	config := Default()
	config.Source.BaseURL = "http://catalogue.example.com"

	result := config.ValidateWithDetails()
	if !result.Valid {
		t.Fatalf("expected valid result, got %+v", result.Errors)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", result.Warnings)
	}
}

func TestLoadErrorsWrapErrLoad(t *testing.T) {
	inputs := map[string][]byte{
		"empty":   nil,
		"syntax":  []byte("source: [unclosed"),
		"invalid": []byte("cache:\n  max_entries: -1\n"),
	}
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFromBytes(data)
			if !errors.Is(err, ErrLoad) {
				t.Errorf("expected ErrLoad, got %v", err)
			}
		})
	}

	if _, err := LoadFromFile("does-not-exist.yaml"); !errors.Is(err, ErrLoad) {
		t.Errorf("expected ErrLoad for missing file, got %v", err)
	}
}

func TestLoadFromBytes_ZeroMeaningfulValues(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantRate    float64
		wantEntries int
	}{
		{"absent keys keep defaults", "log:\n  level: debug\n", DefaultRateLimit, DefaultMaxEntries},
		{"zero rate limit disables limiting", "source:\n  rate_limit: 0\n", 0, DefaultMaxEntries},
		{"explicit bound", "cache:\n  max_entries: 100\n", DefaultRateLimit, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadFromBytes([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("LoadFromBytes failed: %v", err)
			}
			if config.Source.RateLimit != tt.wantRate {
				t.Errorf("expected rate limit %v, got %v", tt.wantRate, config.Source.RateLimit)
			}
			if config.Cache.MaxEntries != tt.wantEntries {
				t.Errorf("expected max_entries %d, got %d", tt.wantEntries, config.Cache.MaxEntries)
			}
		})
	}
}
