package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"library-api/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"unknown": slog.LevelInfo,
		"":        slog.LevelInfo,
	}

	for input, expected := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, expected, parseLevel(input))
		})
	}
}

func TestNewHandler(t *testing.T) {
	t.Run("JSON encoding filters below configured level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(newHandler(config.LoggerConfig{Level: "warn", Encoding: "json"}, &buf))

		logger.InfoContext(context.Background(), "ignored")
		logger.WarnContext(context.Background(), "kept", "component", "test")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "kept", entry["msg"])
		assert.Equal(t, "test", entry["component"])
	})

	t.Run("Text encoding", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(newHandler(config.LoggerConfig{Level: "info", Encoding: "text"}, &buf))

		logger.Info("hello")

		assert.Contains(t, buf.String(), "msg=hello")
	})
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(config.LoggerConfig{Level: "debug"})

	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}
