package logger_test

import (
	"testing"

	"anime-ringtone/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromZap_WithAttachesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.FromZap(zap.New(core)).With(logger.String("component", "engine"))

	log.Warn("handle collision", logger.String("handle", "1700000000000"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "handle collision", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "engine", fields["component"])
	assert.Equal(t, "1700000000000", fields["handle"])
}

func TestNew_RespectsLevel(t *testing.T) {
	log, err := logger.New(logger.Config{Level: "error", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNewNop(t *testing.T) {
	log := logger.NewNop()
	log.Info("ignored")
	assert.NoError(t, log.Sync())
}
