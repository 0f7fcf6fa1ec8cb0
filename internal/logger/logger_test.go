package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/jwebster45206/ether-engine/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, &config.Config{Environment: "production", LogLevel: slog.LevelInfo})

	WithError(WithRunID(log, "run-1"), errors.New("boom")).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "run-1", line["run_id"])
	assert.Equal(t, "boom", line["error"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, &config.Config{Environment: "development", LogLevel: slog.LevelWarn})

	log.Info("quiet")
	assert.Empty(t, buf.String())

	WithRequestID(log, "req-9").Warn("loud")
	assert.Contains(t, buf.String(), "request_id=req-9")
}
