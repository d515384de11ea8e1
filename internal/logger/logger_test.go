package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]interface{}{"skill_id", "go", "api_key", "sk-123", "Token", "abc", "dangling"})
	assert.Equal(t, []interface{}{"skill_id", "go", "api_key", redacted, "Token", redacted, "dangling"}, got)
}

func TestLoggerRedactsOnWrite(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("learner_id", "u1").Info("llm request", "openai_api_key", "sk-secret", "latency_ms", 12)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "u1", fields["learner_id"])
		assert.Equal(t, redacted, fields["openai_api_key"])
		assert.EqualValues(t, 12, fields["latency_ms"])
	}
}

func TestNopDoesNotPanic(t *testing.T) {
	l := Nop()
	l.Debug("x")
	l.Warn("y", "k", "v")
	l.Sync()
}
