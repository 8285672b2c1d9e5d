// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Default values applied by Defaults.
const (
	DefaultLLMConcurrency        = 2
	DefaultWorkers               = 4
	DefaultCacheTTL              = "24h"
	DefaultCacheSize             = 1024
	DefaultMinCandidatesRoundup  = 3
	DefaultMinCandidatesSpecific = 1
	DefaultLogLevel              = "info"
	DefaultLogFormat             = "json"
	DefaultModelTier             = "standard"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values come from the environment or defaults,
// and CLI flags win over everything.
type Config struct {
	// Connections
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty"`    // Shared LLM response cache; in-process cache when empty

	// Concurrency
	LLMConcurrency int `json:"llm_concurrency,omitempty"` // Process-wide limit on in-flight LLM calls
	Workers        int `json:"workers,omitempty"`         // Articles processed at once

	// LLM response cache
	CacheTTL  string `json:"cache_ttl,omitempty"`  // Go duration, e.g. "24h"
	CacheSize int    `json:"cache_size,omitempty"` // In-process cache entries

	// Fallback thresholds
	MinCandidatesRoundup  int `json:"min_candidates_roundup,omitempty"`
	MinCandidatesSpecific int `json:"min_candidates_specific,omitempty"`

	// Observability
	LogLevel    string `json:"log_level,omitempty"`    // debug, info, warn, error
	LogFormat   string `json:"log_format,omitempty"`   // json or console
	MetricsAddr string `json:"metrics_addr,omitempty"` // Serve /metrics here when set

	ModelTier string `json:"model_tier,omitempty"` // lite, standard or advanced
	Verbose   bool   `json:"verbose,omitempty"`    // Print detailed results
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		LLMConcurrency:        DefaultLLMConcurrency,
		Workers:               DefaultWorkers,
		CacheTTL:              DefaultCacheTTL,
		CacheSize:             DefaultCacheSize,
		MinCandidatesRoundup:  DefaultMinCandidatesRoundup,
		MinCandidatesSpecific: DefaultMinCandidatesSpecific,
		LogLevel:              DefaultLogLevel,
		LogFormat:             DefaultLogFormat,
		ModelTier:             DefaultModelTier,
	}
}

// FromEnv returns the connection settings found in the environment.
func FromEnv() Config {
	return Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those depend on the command.
func (c *Config) Validate() error {
	// Validate numeric ranges
	if c.LLMConcurrency < 0 {
		return fmt.Errorf("config error: 'llm_concurrency' must be non-negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("config error: 'cache_size' must be non-negative")
	}
	if c.MinCandidatesRoundup < 0 || c.MinCandidatesSpecific < 0 {
		return fmt.Errorf("config error: candidate thresholds must be non-negative")
	}

	if c.CacheTTL != "" {
		if _, err := time.ParseDuration(c.CacheTTL); err != nil {
			return fmt.Errorf("config error: 'cache_ttl' is not a duration: %w", err)
		}
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config error: unknown 'log_level' %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "", "json", "console":
	default:
		return fmt.Errorf("config error: 'log_format' must be json or console")
	}
	switch c.ModelTier {
	case "", "lite", "standard", "advanced":
	default:
		return fmt.Errorf("config error: unknown 'model_tier' %q", c.ModelTier)
	}

	return nil
}

// CacheTTLDuration returns the parsed cache TTL, or the default when unset.
func (c *Config) CacheTTLDuration() time.Duration {
	if d, err := time.ParseDuration(c.CacheTTL); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(DefaultCacheTTL)
	return d
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Calling it in order (flags, file, env, built-ins) gives flags the highest precedence.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.CacheTTL == "" {
		result.CacheTTL = defaults.CacheTTL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.MetricsAddr == "" {
		result.MetricsAddr = defaults.MetricsAddr
	}
	if result.ModelTier == "" {
		result.ModelTier = defaults.ModelTier
	}

	// Int fields: use default if zero
	if result.LLMConcurrency == 0 {
		result.LLMConcurrency = defaults.LLMConcurrency
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.CacheSize == 0 {
		result.CacheSize = defaults.CacheSize
	}
	if result.MinCandidatesRoundup == 0 {
		result.MinCandidatesRoundup = defaults.MinCandidatesRoundup
	}
	if result.MinCandidatesSpecific == 0 {
		result.MinCandidatesSpecific = defaults.MinCandidatesSpecific
	}

	// Bool fields: cannot distinguish unset from false, so true wins
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}
