package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("debug", "json", &buf)
	logger.Debug().Str("component", "test").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not json: %v (%q)", err, buf.String())
	}
	if entry["message"] != "hello" || entry["component"] != "test" || entry["level"] != "debug" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestSetup_LevelFallback(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("nonsense", "json", &buf)
	if logger.GetLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v, want info", logger.GetLevel())
	}
	logger.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug line should be filtered, got %q", buf.String())
	}
}

func TestSetup_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("info", "console", &buf)
	logger.Info().Msg("served")
	if !strings.Contains(buf.String(), "served") {
		t.Errorf("console output = %q", buf.String())
	}
	if json.Valid(bytes.TrimSpace(buf.Bytes())) {
		t.Error("console output should not be json")
	}
}
