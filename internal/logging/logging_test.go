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
		{"warn", slog.LevelWarn},
		{"Warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestDefaultConfigReadsEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg := DefaultConfig()
	assert.Equal(t, slog.LevelDebug, cfg.Level)
	assert.True(t, cfg.JSON)
}

func TestNewJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, JSON: true, Output: &buf})

	logger.Info("hidden")
	logger.Warn("rollover failed", "user_id", "u1")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "rollover failed", line["msg"])
	assert.Equal(t, "u1", line["user_id"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewTextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := New(FromStrings("info", "text"))
	assert.NotNil(t, logger)

	logger = New(Config{Level: slog.LevelInfo, Output: &buf})
	logger.Info("server started", "port", "8111")
	assert.Contains(t, buf.String(), "msg=\"server started\"")
	assert.Contains(t, buf.String(), "port=8111")
}
