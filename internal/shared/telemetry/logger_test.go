package telemetry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultLoggerHelpersUseReplacement(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Default()
	SetDefault(NewZapAdapter(zap.New(core)))
	t.Cleanup(func() { SetDefault(prev) })

	Info("request.complete", map[string]any{"status": 200})
	Warn("image.dropped", nil)
	Error("http.error", map[string]any{"code": "internal"})

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "request.complete", entries[0].Message)
	assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "internal", entries[2].ContextMap()["code"])
}

func TestWithFieldsAndError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewZapAdapter(zap.New(core)).WithFields(map[string]any{"request_id": "abc"}).WithError(errors.New("boom"))

	l.Info("analysis.failed", nil)
	l.Debug("ignored", nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "abc", ctx["request_id"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestSetDefaultIgnoresNil(t *testing.T) {
	prev := Default()
	SetDefault(nil)
	assert.Equal(t, prev, Default())
}
