package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/stepsolver/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := logging.ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestJSONLoggerThroughContext(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelDebug, "json")
	ctx := logging.WithLogger(context.Background(), logger)

	logging.LogError(ctx, errors.New("boom"), "solve failed", logging.Fields{"input": "x^2"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "solve failed", line["msg"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "x^2", line["input"])
	assert.Equal(t, "ERROR", line["level"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.New(&buf, slog.LevelInfo, "console"))

	logging.LogDebug(ctx, "hidden", nil)
	assert.Empty(t, buf.String())

	logging.LogInfo(ctx, "shown", logging.Fields{"route": "quadratic"})
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "route=quadratic")
}

func TestFromContextDefault(t *testing.T) {
	assert.Same(t, slog.Default(), logging.FromContext(context.Background()))
}

func TestSetLevel(t *testing.T) {
	assert.Error(t, logging.SetLevel("loud"))
	assert.NoError(t, logging.SetLevel("warn"))
	assert.NoError(t, logging.SetLevel("info"))
}
