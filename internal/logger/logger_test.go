package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/ride-history-converter/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LoggingConfig{Level: "info", Format: "json"}, &buf)

	l.Debug("hidden")
	l.Info("parsed ride history", "rides", 3)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "parsed ride history", entry["msg"])
	assert.Equal(t, float64(3), entry["rides"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LoggingConfig{Level: "warn", Format: "text"}, &buf)

	l.Info("hidden")
	l.Warn("marker matched several fields", "slot", "canceled")

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "slot=canceled")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestSetup(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Setup(config.LoggingConfig{Level: "info", Format: "text"}, &buf)
	slog.Info("from default")
	assert.Contains(t, buf.String(), "from default")
}
