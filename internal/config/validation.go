// internal/config/validation.go
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a detailed validation error
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (ve ValidationError) Error() string {
	if ve.Value != "" {
		return fmt.Sprintf("%s: %s (value: %s)", ve.Field, ve.Message, ve.Value)
	}
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []string          `json:"warnings"`
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	result := c.ValidateWithDetails()
	if !result.Valid {
		return formatValidationError(result)
	}
	return nil
}

// ValidateWithDetails provides detailed validation results
func (c *Config) ValidateWithDetails() *ValidationResult {
	result := &ValidationResult{
		Errors:   make([]ValidationError, 0),
		Warnings: make([]string, 0),
	}

	c.validateSource(result)
	c.validateCache(result)
	c.validateServer(result)
	c.validateLog(result)
	c.validateMetrics(result)

	result.Valid = len(result.Errors) == 0
	return result
}

func (r *ValidationResult) add(field, value, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: message})
}

func (c *Config) validateSource(result *ValidationResult) {
	validateAbsoluteURL(result, "source.base_url", c.Source.BaseURL)
	if c.Source.ProxyURL != "" {
		validateAbsoluteURL(result, "source.proxy_url", c.Source.ProxyURL)
	}

	if c.Source.Timeout < 0 {
		result.add("source.timeout", c.Source.Timeout.String(), "Timeout cannot be negative")
	}
	if c.Source.RateLimit < 0 {
		result.add("source.rate_limit", fmt.Sprint(c.Source.RateLimit), "Rate limit cannot be negative")
	}
	if c.Source.RateBurst < 0 {
		result.add("source.rate_burst", fmt.Sprint(c.Source.RateBurst), "Rate burst cannot be negative")
	}
	for i, ua := range c.Source.UserAgents {
		if strings.TrimSpace(ua) == "" {
			result.add(fmt.Sprintf("source.user_agents[%d]", i), "", "User agent cannot be blank")
		}
	}
}

func (c *Config) validateCache(result *ValidationResult) {
	if c.Cache.MaxEntries < 0 {
		result.add("cache.max_entries", fmt.Sprint(c.Cache.MaxEntries), "Max entries cannot be negative")
	}
}

func (c *Config) validateServer(result *ValidationResult) {
	if c.Server.Listen == "" {
		result.add("server.listen", "", "Listen address is required")
	}
	if c.Server.ReadTimeout < 0 {
		result.add("server.read_timeout", c.Server.ReadTimeout.String(), "Timeout cannot be negative")
	}
	if c.Server.WriteTimeout < 0 {
		result.add("server.write_timeout", c.Server.WriteTimeout.String(), "Timeout cannot be negative")
	}
}

func (c *Config) validateLog(result *ValidationResult) {
	validLevels := []string{"debug", "info", "warn", "warning", "error"}
	if !contains(validLevels, strings.ToLower(c.Log.Level)) {
		result.add("log.level", c.Log.Level, fmt.Sprintf("Invalid log level. Valid levels: %s", strings.Join(validLevels, ", ")))
	}

	validFormats := []string{"text", "json"}
	if !contains(validFormats, strings.ToLower(c.Log.Format)) {
		result.add("log.format", c.Log.Format, fmt.Sprintf("Invalid log format. Valid formats: %s", strings.Join(validFormats, ", ")))
	}
}

func (c *Config) validateMetrics(result *ValidationResult) {
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		result.add("metrics.path", c.Metrics.Path, "Metrics path must start with /")
	}
}

func validateAbsoluteURL(result *ValidationResult, field, raw string) {
	if raw == "" {
		result.add(field, "", "URL is required")
		return
	}

	parsedURL, err := url.Parse(raw)
	if err != nil {
		result.add(field, raw, fmt.Sprintf("Invalid URL format: %s", err.Error()))
		return
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		result.add(field, raw, "URL must include protocol (http:// or https://)")
	}
	if parsedURL.Host == "" {
		result.add(field, raw, "URL must include hostname")
	}
	if parsedURL.Scheme == "http" {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s uses HTTP instead of HTTPS", field))
	}
}

// formatValidationError creates a comprehensive error message
func formatValidationError(result *ValidationResult) error {
	var errorMsg strings.Builder

	errorMsg.WriteString("configuration validation failed:\n")
	for i, err := range result.Errors {
		errorMsg.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}

	return fmt.Errorf("%s", errorMsg.String())
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
