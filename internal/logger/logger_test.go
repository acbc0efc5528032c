package logger_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/config"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitializeWritesJSONFile(t *testing.T) {
	previous := logger.Log
	t.Cleanup(func() { logger.Log = previous })

	path := filepath.Join(t.TempDir(), "engagement.log")
	require.NoError(t, logger.Initialize(config.LogConfig{
		Level:     "warn",
		Format:    "json",
		File:      path,
		MaxSizeMB: 1,
	}))

	logger.Log.Info("dropped below level")
	logger.Log.Warn("like toggled twice", logger.WithUserID(7), logger.WithObject(3, "post"))
	require.NoError(t, logger.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(raw, &entry), "exactly one JSON line expected, got %s", raw)
	assert.Equal(t, "like toggled twice", entry["msg"])
	assert.EqualValues(t, 7, entry["user_id"])
	assert.Equal(t, map[string]any{"id": float64(3), "type": "post"}, entry["object"])
}

func TestCloseWithStdoutOnly(t *testing.T) {
	previous := logger.Log
	t.Cleanup(func() { logger.Log = previous })

	require.NoError(t, logger.Initialize(config.LogConfig{Level: "info", Format: "console"}))
	logger.Log.Info("stdout is a pipe under go test")
	assert.NoError(t, logger.Close())
}

func TestInitializeRejectsUnknownLevel(t *testing.T) {
	previous := logger.Log
	t.Cleanup(func() { logger.Log = previous })

	assert.Error(t, logger.Initialize(config.LogConfig{Level: "chatty"}))
}

func TestNopLoggerBeforeInitialize(t *testing.T) {
	assert.NotPanics(t, func() {
		logger.WarnWithFields("no setup", nil)
		logger.Log.With(zap.String("k", "v")).Info("still nothing")
	})
}
