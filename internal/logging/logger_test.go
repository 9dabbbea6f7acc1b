package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core)).With("component", "fotmob")

	logger.Warn("fetch failed", "url", "https://example.test", "error", errors.New("boom"), "dangling")

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "fetch failed", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "fotmob", ctx["component"])
	assert.Equal(t, "https://example.test", ctx["url"])
	assert.Equal(t, "boom", ctx["error"])
	assert.Contains(t, ctx, "dangling")
}

func TestLoggerLevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	logger.Debug("hidden")
	logger.Info("shown")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "shown", logs.All()[0].Message)
}

func TestContextLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	ctx := WithContext(context.Background(), logger)
	FromContext(ctx).Info("scoped")
	assert.Equal(t, 1, logs.Len())

	assert.Same(t, Default(), FromContext(context.Background()))
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for input, want := range cases {
		assert.Equal(t, want, ParseLevel(input), input)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Info("nothing")
		_ = logger.Sync()
		logger.With("k", "v").Info("still nothing")
	})
}
