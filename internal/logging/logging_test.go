package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := New("warn", "json", &buf)
	logger.Info("dropped")
	logger.Warn("table expires soon", "expires", "2026-12-28")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "table expires soon", record["msg"])
	assert.Equal(t, "2026-12-28", record["expires"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer

	New("debug", "text", &buf).Debug("loaded table", "entries", 28)

	assert.Contains(t, buf.String(), "msg=\"loaded table\"")
	assert.Contains(t, buf.String(), "entries=28")
}
