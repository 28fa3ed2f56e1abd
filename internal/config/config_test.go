package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// validConfigYAML is a complete valid configuration.
const validConfigYAML = `
input:
  path: "datos.csv"
  delimiter: ";"
  include_last_row: true
ranking:
  rank_min: 1
  rank_max: 5
  duplicates: "merge"
output:
  format: "json"
  pretty_print: false
  top: 3
retry:
  max_attempts: 2
  initial_delay_ms: 100
  max_delay_ms: 1000
  backoff_multiplier: 2.0
  timeout_sec: 10
  max_body_kb: 64
logging:
  level: "debug"
  format: "json"
`

func TestLoadConfig_Valid(t *testing.T) {
	configPath := createTempConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg == nil {
		t.Fatal("Expected config, got nil")
	}

	if cfg.Input.Path != "datos.csv" {
		t.Errorf("Expected input path 'datos.csv', got '%s'", cfg.Input.Path)
	}

	if !cfg.Input.IncludeLastRow {
		t.Error("Expected include_last_row to be true")
	}

	if d := cfg.Domain(); d.Min != 1 || d.Max != 5 {
		t.Errorf("Expected domain 1..5, got %d..%d", d.Min, d.Max)
	}

	if cfg.Ranking.Duplicates != "merge" {
		t.Errorf("Expected duplicates 'merge', got '%s'", cfg.Ranking.Duplicates)
	}

	if cfg.Output.Top != 3 || cfg.Output.Format != "json" {
		t.Errorf("Unexpected output config: %+v", cfg.Output)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	configPath := createTempConfigFile(t, "input:\n  path: survey.xlsx\n")

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Input.Delimiter != ";" {
		t.Errorf("Expected default delimiter ';', got %q", cfg.Input.Delimiter)
	}

	if cfg.Ranking.RankMax != 10 || cfg.Ranking.RankMin != 1 {
		t.Errorf("Expected default domain 1..10, got %d..%d", cfg.Ranking.RankMin, cfg.Ranking.RankMax)
	}

	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("Expected default retry attempts 3, got %d", cfg.Retry.MaxAttempts)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := createTempConfigFile(t, "invalid: yaml: content: [}")

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	configPath := createTempConfigFile(t, "ranking:\n  rank_min: 7\n  rank_max: 3\n")

	_, err := LoadConfig(configPath)
	if !errors.Is(err, ErrInvalidRankRange) {
		t.Fatalf("Expected ErrInvalidRankRange, got %v", err)
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default config is invalid: %v", err)
	}
}

func TestConfig_Validate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"Empty delimiter", func(c *Config) { c.Input.Delimiter = "" }, ErrInvalidDelimiter},
		{"Multi-char delimiter", func(c *Config) { c.Input.Delimiter = ";;" }, ErrInvalidDelimiter},
		{"Quote delimiter", func(c *Config) { c.Input.Delimiter = `"` }, ErrInvalidDelimiter},
		{"Zero rank min", func(c *Config) { c.Ranking.RankMin = 0 }, ErrInvalidRankRange},
		{"Inverted range", func(c *Config) { c.Ranking.RankMin, c.Ranking.RankMax = 5, 4 }, ErrInvalidRankRange},
		{"Unknown duplicates", func(c *Config) { c.Ranking.Duplicates = "suffix" }, ErrInvalidDuplicatePolicy},
		{"Unknown format", func(c *Config) { c.Output.Format = "xml" }, ErrInvalidOutputFormat},
		{"Negative top", func(c *Config) { c.Output.Top = -1 }, ErrInvalidTop},
		{"Zero attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, ErrInvalidMaxAttempts},
		{"Negative delay", func(c *Config) { c.Retry.InitialDelayMs = -1 }, ErrInvalidInitialDelay},
		{"Shrinking backoff", func(c *Config) { c.Retry.BackoffMultiplier = 0.5 }, ErrInvalidBackoffMultiplier},
		{"Zero timeout", func(c *Config) { c.Retry.TimeoutSec = 0 }, ErrInvalidTimeout},
		{"Zero body limit", func(c *Config) { c.Retry.MaxBodyKb = 0 }, ErrInvalidBodyLimit},
		{"Bad log level", func(c *Config) { c.Logging.Level = "verbose" }, ErrInvalidLogLevel},
		{"Bad log format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConfig_RequireInput(t *testing.T) {
	cfg := Default()
	if err := cfg.RequireInput(); !errors.Is(err, ErrMissingInput) {
		t.Errorf("RequireInput() = %v, want ErrMissingInput", err)
	}

	cfg.Input.URL = "https://example.com/datos.csv"
	if err := cfg.RequireInput(); err != nil {
		t.Errorf("RequireInput() with URL = %v, want nil", err)
	}
}

func TestConfig_DelimiterRune(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{";", ';'},
		{",", ','},
		{"tab", '\t'},
		{`\t`, '\t'},
		{"|", '|'},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Input.Delimiter = tt.in

		got, err := cfg.DelimiterRune()
		if err != nil || got != tt.want {
			t.Errorf("DelimiterRune(%q) = (%q, %v), want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	env := map[string]string{
		"SURVEYRANK_INPUT":            "encuesta.csv",
		"SURVEYRANK_DELIMITER":        ",",
		"SURVEYRANK_RANK_MAX":         "5",
		"SURVEYRANK_INCLUDE_LAST_ROW": "true",
		"SURVEYRANK_FORMAT":           "csv",
		"SURVEYRANK_LOG_LEVEL":        "warn",
	}

	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	if cfg.Input.Path != "encuesta.csv" || cfg.Input.Delimiter != "," {
		t.Errorf("Unexpected input config: %+v", cfg.Input)
	}

	if cfg.Ranking.RankMax != 5 || cfg.Ranking.RankMin != 1 {
		t.Errorf("Expected domain 1..5, got %d..%d", cfg.Ranking.RankMin, cfg.Ranking.RankMax)
	}

	if !cfg.Input.IncludeLastRow {
		t.Error("Expected IncludeLastRow from env")
	}

	if cfg.Output.Format != "csv" || cfg.Logging.Level != "warn" {
		t.Errorf("Unexpected output/logging: %+v %+v", cfg.Output, cfg.Logging)
	}
}

func TestConfig_ApplyEnv_BadNumber(t *testing.T) {
	lookup := func(key string) (string, bool) {
		if key == "SURVEYRANK_RANK_MIN" {
			return "one", true
		}

		return "", false
	}

	err := Default().ApplyEnv(lookup)
	if err == nil || !strings.Contains(err.Error(), "SURVEYRANK_RANK_MIN") {
		t.Errorf("ApplyEnv() error = %v, want mention of SURVEYRANK_RANK_MIN", err)
	}
}

func TestRetryPolicy_GetRetryDelay(t *testing.T) {
	rp := RetryPolicy{
		InitialDelayMs:    100,
		MaxDelayMs:        1000,
		BackoffMultiplier: 2.0,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 0},                        // First attempt, no delay
		{2, 200 * time.Millisecond},   // 100 * 2
		{3, 400 * time.Millisecond},   // 100 * 2 * 2
		{4, 800 * time.Millisecond},   // 100 * 2 * 2 * 2
		{5, 1000 * time.Millisecond},  // Capped at max
		{10, 1000 * time.Millisecond}, // Still capped
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			got := rp.GetRetryDelay(tt.attempt)
			if got != tt.expected {
				t.Errorf("GetRetryDelay(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestRetryPolicy_GetTimeout(t *testing.T) {
	rp := RetryPolicy{TimeoutSec: 30}

	if got := rp.GetTimeout(); got != 30*time.Second {
		t.Errorf("GetTimeout() = %v, want %v", got, 30*time.Second)
	}

	rp.MaxBodyKb = 2
	if got := rp.BodyLimit(); got != 2048 {
		t.Errorf("BodyLimit() = %d, want 2048", got)
	}
}

func TestConfig_String(t *testing.T) {
	cfg := Default()
	cfg.Input.Path = "datos.csv"

	want := "Config{Input: datos.csv, Ranks: 1..10, Format: markdown}"
	if got := cfg.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestConfig_SaveConfig(t *testing.T) {
	cfg := Default()
	cfg.Input.Path = "datos.csv"
	cfg.Ranking.RankMax = 7

	path := filepath.Join(t.TempDir(), "saved.yaml")
	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed on saved file: %v", err)
	}

	if loaded.Input.Path != "datos.csv" || loaded.Ranking.RankMax != 7 {
		t.Errorf("Round trip lost values: %+v", loaded)
	}
}
