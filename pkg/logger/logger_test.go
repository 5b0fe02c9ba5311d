package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetRoutesPackageFuncs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := L()
	Set(zap.New(core))
	t.Cleanup(func() { Set(prev) })

	Debug("hidden")
	Info("hello", zap.String("k", "v"))
	Warn("careful")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "hello", entries[0].Message)
		assert.Equal(t, "v", entries[0].ContextMap()["k"])
		assert.Equal(t, zap.WarnLevel, entries[1].Level)
	}
}

func TestInitFallsBackToInfo(t *testing.T) {
	prev := L()
	t.Cleanup(func() { Set(prev) })

	assert.NoError(t, Init("bogus", "console"))
	assert.True(t, L().Core().Enabled(zap.InfoLevel))
	assert.False(t, L().Core().Enabled(zap.DebugLevel))
}
