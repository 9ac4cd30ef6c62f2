// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrLoad is wrapped by every error LoadFromFile and LoadFromBytes return.
var ErrLoad = errors.New("configuration")

func loadErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %w", ErrLoad, fmt.Errorf(format, args...))
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) (*Config, error) {
	if filename == "" {
		return nil, loadErrorf("configuration filename cannot be empty")
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, loadErrorf("configuration file not found: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, loadErrorf("failed to read configuration file: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes. ${VAR} references are
// expanded from the environment before parsing.
func LoadFromBytes(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, loadErrorf("configuration data cannot be empty")
	}

	expandedData := expandEnvironmentVariables(string(data))

	// Keys absent from the document keep their defaults.
	config := Default()
	if err := yaml.Unmarshal([]byte(expandedData), config); err != nil {
		return nil, loadErrorf("failed to parse YAML configuration: %w", err)
	}

	applyDefaults(config)

	if err := config.Validate(); err != nil {
		return nil, loadErrorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadFromReader loads configuration from an io.Reader
func LoadFromReader(reader io.Reader) (*Config, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %w", err)
	}

	return LoadFromBytes(data)
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var config Config
	applyDefaults(&config)
	config.Source.RateLimit = DefaultRateLimit
	config.Cache.MaxEntries = DefaultMaxEntries
	config.Metrics.Enabled = true
	return &config
}

// SaveToWriter writes configuration as YAML.
func SaveToWriter(config *Config, writer io.Writer) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if writer == nil {
		return fmt.Errorf("writer cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	enc := yaml.NewEncoder(writer)
	enc.SetIndent(2)
	if err := enc.Encode(config); err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %w", err)
	}
	return enc.Close()
}

// GenerateTemplate renders the default configuration as YAML.
func GenerateTemplate() ([]byte, error) {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template: %w", err)
	}
	return data, nil
}

// expandEnvironmentVariables substitutes environment variables in the configuration
func expandEnvironmentVariables(content string) string {
	return os.ExpandEnv(content)
}

// applyDefaults fills zero values that have no meaning of their own. A zero
// rate_limit (no limiting) and max_entries (unbounded) are kept.
func applyDefaults(config *Config) {
	if config.Source.BaseURL == "" {
		config.Source.BaseURL = DefaultBaseURL
	}
	if config.Source.Timeout == 0 {
		config.Source.Timeout = DefaultTimeout
	}
	if config.Source.RateBurst == 0 {
		config.Source.RateBurst = DefaultRateBurst
	}

	if config.Server.Listen == "" {
		config.Server.Listen = DefaultListen
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = DefaultWriteTimeout
	}

	if config.Log.Level == "" {
		config.Log.Level = DefaultLogLevel
	}
	if config.Log.Format == "" {
		config.Log.Format = DefaultLogFormat
	}

	if config.Metrics.Path == "" {
		config.Metrics.Path = DefaultMetricsPath
	}
}
