package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestProductionLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithOutput(&buf, "production", "info")

	logger.Info().Str("job_id", "j1").Msg("hello")
	logger.Debug().Msg("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}
	var event map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &event); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if event["job_id"] != "j1" || event["message"] != "hello" || event["time"] == nil {
		t.Fatalf("unexpected event %#v", event)
	}
}

func TestLevelFallbacks(t *testing.T) {
	tests := []struct {
		env, level string
		want       zerolog.Level
	}{
		{"production", "", zerolog.InfoLevel},
		{"production", "bogus", zerolog.InfoLevel},
		{"production", "WARN", zerolog.WarnLevel},
		{"development", "", zerolog.DebugLevel},
		{"development", "error", zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		logger := newWithOutput(&bytes.Buffer{}, tt.env, tt.level)
		if got := logger.GetLevel(); got != tt.want {
			t.Fatalf("env=%s level=%q: got %v want %v", tt.env, tt.level, got, tt.want)
		}
	}
}
