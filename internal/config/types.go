// internal/config/types.go
package config

import "time"

// Config is the top-level scrapecache.yaml document.
type Config struct {
	Source  SourceConfig  `yaml:"source" json:"source"`
	Cache   CacheConfig   `yaml:"cache" json:"cache"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Log     LogConfig     `yaml:"log" json:"log"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// SourceConfig describes how catalogue pages are fetched.
type SourceConfig struct {
	BaseURL string `yaml:"base_url" json:"base_url"`
	// ProxyURL is a prefix the escaped page URL is appended to.
	ProxyURL   string            `yaml:"proxy_url,omitempty" json:"proxy_url,omitempty"`
	UserAgents []string          `yaml:"user_agents,omitempty" json:"user_agents,omitempty"`
	Timeout    time.Duration     `yaml:"timeout" json:"timeout"`
	RateLimit  float64           `yaml:"rate_limit" json:"rate_limit"` // requests per second, 0 disables
	RateBurst  int               `yaml:"rate_burst" json:"rate_burst"`
	Headers    map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
}

// CacheConfig bounds the in-memory resource cache.
type CacheConfig struct {
	// MaxEntries caps the number of cached records; 0 leaves the cache
	// unbounded so records leave only when they expire.
	MaxEntries int `yaml:"max_entries" json:"max_entries"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Listen       string        `yaml:"listen" json:"listen"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // text or json
}

// MetricsConfig configures the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
}

// Defaults
const (
	DefaultBaseURL      = "https://www.adultempire.com"
	DefaultTimeout      = 30 * time.Second
	DefaultRateLimit    = 2.0
	DefaultRateBurst    = 4
	DefaultMaxEntries   = 0
	DefaultListen       = ":8080"
	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 60 * time.Second
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultMetricsPath  = "/metrics"
)
