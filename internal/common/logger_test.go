package common

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input string
		want  slog.Level
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "warning", want: slog.LevelWarn},
		{input: " error ", want: slog.LevelError},
		{input: "", want: slog.LevelInfo},
		{input: "verbose", want: slog.LevelInfo},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLevel(tc.input))
		})
	}
}

func TestNewLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, closeFn := NewLogger("info", path)
	logger.Debug("hidden")
	logger.Error("server error", slog.String("method", "GET"))
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "server error", entry["msg"])
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "GET", entry["method"])
}

func TestNewLogger_FallsBackToStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "app.log")

	logger, closeFn := NewLogger("info", path)
	assert.NotNil(t, logger)
	assert.NoError(t, closeFn())
}
