package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	log := New(Options{Output: &buf, Level: "warn"})
	log.Info("hidden")
	log.Warn("shown", "rows", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %q", out)
	}

	if !strings.Contains(out, "shown") || !strings.Contains(out, "rows=3") {
		t.Errorf("warn record missing: %q", out)
	}

	log.SetLevel("debug")

	if !log.Enabled(slog.LevelDebug) {
		t.Error("SetLevel(debug) did not enable debug records")
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer

	log := New(Options{Output: &buf, Format: "json"}).With("run_id", "abc")
	log.Info("ranked", "products", 2)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}

	if rec["msg"] != "ranked" || rec["run_id"] != "abc" || rec["products"] != float64(2) {
		t.Errorf("unexpected record: %v", rec)
	}
}
