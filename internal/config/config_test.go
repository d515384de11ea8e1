package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 70, cfg.PassRate)
	assert.Equal(t, 10, cfg.QuestionCount)
	assert.Equal(t, 3, cfg.StreakLength)
	assert.Equal(t, 0.8, cfg.Difficulty.Upper)
	assert.Equal(t, 0.4, cfg.Difficulty.Lower)
	assert.Equal(t, 2, cfg.Difficulty.MinAnswered)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, GeneratorBank, cfg.Generator)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.AMQPURL)
	assert.False(t, cfg.NeedsLLM())
}

func TestFromLookupOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"SKILLCHECK_ADDR":              "127.0.0.1:9000",
		"SKILLCHECK_PASS_RATE":         "80",
		"SKILLCHECK_UPPER_THRESHOLD":   "0.9",
		"SKILLCHECK_SESSION_TTL":       "15m",
		"SKILLCHECK_REDIS_ADDR":        "localhost:6379",
		"SKILLCHECK_GENERATOR":         "LLM",
		"SKILLCHECK_LLM_GRADING":       "true",
		"SKILLCHECK_LLM_PROVIDER":      "anthropic",
		"SKILLCHECK_ANTHROPIC_API_KEY": "sk-test",
	}))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, 80, cfg.PassRate)
	assert.Equal(t, 0.9, cfg.Difficulty.Upper)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, GeneratorLLM, cfg.Generator)
	assert.True(t, cfg.LLMGrading)
	assert.Equal(t, "sk-test", cfg.LLM.Anthropic.APIKey)
}

func TestFromLookupReportsInvalidValues(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		"SKILLCHECK_PASS_RATE":       "seventy",
		"SKILLCHECK_SESSION_TTL":     "soon",
		"SKILLCHECK_LOWER_THRESHOLD": "0.95",
	}))
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "SKILLCHECK_PASS_RATE")
	assert.Contains(t, msg, "SKILLCHECK_SESSION_TTL")
	assert.Contains(t, msg, "lower threshold")
}

func TestLLMKeyRequiredOnlyWhenUsed(t *testing.T) {
	if _, err := FromLookup(lookupFrom(map[string]string{"SKILLCHECK_LLM_PROVIDER": "openai"})); err != nil {
		t.Fatalf("bank generator should not need an API key: %v", err)
	}
	_, err := FromLookup(lookupFrom(map[string]string{
		"SKILLCHECK_LLM_PROVIDER": "openai",
		"SKILLCHECK_GENERATOR":    "llm",
	}))
	if err == nil {
		t.Fatal("expected missing API key error")
	}
}
