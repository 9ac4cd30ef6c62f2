// internal/utils/logger_test.go

package utils

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"":        InfoLevel,
		"bogus":   InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithOptions(LoggerOptions{Level: WarnLevel, Output: &buf})

	log.Info("hidden")
	log.Warnf("shown %d", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown 1") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithOptions(LoggerOptions{Level: DebugLevel, Format: "json", Output: &buf})

	log.WithField("resource", "movie:1").WithFields(map[string]interface{}{"provenance": "fresh"}).Debug("served")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if line["resource"] != "movie:1" || line["provenance"] != "fresh" || line["msg"] != "served" {
		t.Errorf("unexpected log line: %v", line)
	}
}

func TestNewNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.Error("discarded")
	log.WithField("k", "v").Infof("also %s", "discarded")
}
