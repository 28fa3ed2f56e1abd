// Package config provides configuration management for the ranking tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"surveyrank/internal/models"
)

// Configuration validation errors.
var (
	ErrMissingInput             = errors.New("input.path or input.url is required")
	ErrInvalidDelimiter         = errors.New("input.delimiter must be a single character other than quote, CR or LF")
	ErrInvalidRankRange         = errors.New("ranking.rank_min must be at least 1 and not exceed ranking.rank_max")
	ErrInvalidDuplicatePolicy   = errors.New("ranking.duplicates must be 'reject' or 'merge'")
	ErrInvalidOutputFormat      = errors.New("output.format must be 'markdown', 'json' or 'csv'")
	ErrInvalidTop               = errors.New("output.top must be non-negative")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrInvalidBodyLimit         = errors.New("retry.max_body_kb must be at least 1")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat         = errors.New("logging.format must be 'text' or 'json'")
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SURVEYRANK_"

// Config represents the complete ranking configuration.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Ranking RankingConfig `yaml:"ranking"`
	Output  OutputConfig  `yaml:"output"`
	Retry   RetryPolicy   `yaml:"retry"`
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig describes where the survey sheet comes from.
type InputConfig struct {
	Path      string `yaml:"path"`
	URL       string `yaml:"url"`
	Delimiter string `yaml:"delimiter"`
	Sheet     string `yaml:"sheet"`
	// IncludeLastRow keeps the final data row. The survey exports this tool
	// was written for end with a row that is not a respondent, so the
	// default drops it.
	IncludeLastRow bool `yaml:"include_last_row"`
}

// RankingConfig holds the rank domain and header handling.
type RankingConfig struct {
	Duplicates   string `yaml:"duplicates"`
	RankMin      int    `yaml:"rank_min"`
	RankMax      int    `yaml:"rank_max"`
	AllowUnicode bool   `yaml:"allow_unicode"`
}

// OutputConfig defines output behavior.
type OutputConfig struct {
	Path        string `yaml:"path"`
	Format      string `yaml:"format"`
	Top         int    `yaml:"top"`
	PrettyPrint bool   `yaml:"pretty_print"`
	Sign        bool   `yaml:"sign"`
}

// RetryPolicy defines retry behavior for remote inputs.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
	MaxBodyKb         int     `yaml:"max_body_kb"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Delimiter: ";",
		},
		Ranking: RankingConfig{
			Duplicates: "reject",
			RankMin:    models.DefaultRankMin,
			RankMax:    models.DefaultRankMax,
		},
		Output: OutputConfig{
			Format:      "markdown",
			PrettyPrint: true,
		},
		Retry: DefaultRetryPolicy(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultRetryPolicy returns the retry settings used for remote inputs.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       3,
		InitialDelayMs:    500,
		MaxDelayMs:        30000,
		BackoffMultiplier: 2.0,
		TimeoutSec:        30,
		MaxBodyKb:         10240,
	}
}

// LoadConfig loads configuration from a YAML file. Keys missing from the
// file keep their Default values.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration. Input presence is checked
// separately by RequireInput because flags may still supply it.
func (c *Config) Validate() error {
	if _, err := c.DelimiterRune(); err != nil {
		return err
	}

	if c.Ranking.RankMin < 1 || c.Ranking.RankMin > c.Ranking.RankMax {
		return fmt.Errorf("%w: got %d..%d", ErrInvalidRankRange, c.Ranking.RankMin, c.Ranking.RankMax)
	}

	if c.Ranking.Duplicates != "reject" && c.Ranking.Duplicates != "merge" {
		return ErrInvalidDuplicatePolicy
	}

	switch c.Output.Format {
	case "markdown", "json", "csv":
	default:
		return ErrInvalidOutputFormat
	}

	if c.Output.Top < 0 {
		return ErrInvalidTop
	}

	if err := c.Retry.Validate(); err != nil {
		return err
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// Validate checks the retry policy bounds.
func (rp *RetryPolicy) Validate() error {
	if rp.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if rp.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if rp.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if rp.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if rp.MaxBodyKb < 1 {
		return ErrInvalidBodyLimit
	}

	return nil
}

// RequireInput fails unless a path or URL is configured.
func (c *Config) RequireInput() error {
	if strings.TrimSpace(c.Input.Path) == "" && strings.TrimSpace(c.Input.URL) == "" {
		return ErrMissingInput
	}

	return nil
}

// DelimiterRune returns the configured field delimiter.
func (c *Config) DelimiterRune() (rune, error) {
	d := c.Input.Delimiter
	if d == "tab" || d == `\t` {
		return '\t', nil
	}

	if utf8.RuneCountInString(d) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, d)
	}

	r, _ := utf8.DecodeRuneInString(d)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, d)
	}

	return r, nil
}

// Domain returns the configured rank domain.
func (c *Config) Domain() models.RankDomain {
	return models.RankDomain{Min: c.Ranking.RankMin, Max: c.Ranking.RankMax}
}

// ApplyEnv overrides settings from SURVEYRANK_* variables. lookup is
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	num := func(key string, dst *int) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}

		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}

		*dst = n

		return nil
	}

	flag := func(key string, dst *bool) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}

		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}

		*dst = b

		return nil
	}

	str("INPUT", &c.Input.Path)
	str("URL", &c.Input.URL)
	str("DELIMITER", &c.Input.Delimiter)
	str("SHEET", &c.Input.Sheet)
	str("DUPLICATES", &c.Ranking.Duplicates)
	str("OUTPUT", &c.Output.Path)
	str("FORMAT", &c.Output.Format)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)

	if err := num("RANK_MIN", &c.Ranking.RankMin); err != nil {
		return err
	}

	if err := num("RANK_MAX", &c.Ranking.RankMax); err != nil {
		return err
	}

	if err := flag("INCLUDE_LAST_ROW", &c.Input.IncludeLastRow); err != nil {
		return err
	}

	return flag("SIGN", &c.Output.Sign)
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// BodyLimit returns the maximum number of bytes read from a response.
func (rp *RetryPolicy) BodyLimit() int64 {
	return int64(rp.MaxBodyKb) * 1024
}

// String returns a string representation of the config.
func (c *Config) String() string {
	src := c.Input.Path
	if c.Input.URL != "" {
		src = c.Input.URL
	}

	return fmt.Sprintf(
		"Config{Input: %s, Ranks: %d..%d, Format: %s}",
		src,
		c.Ranking.RankMin,
		c.Ranking.RankMax,
		c.Output.Format,
	)
}
