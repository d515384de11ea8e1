package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestConfigFromEnv(t *testing.T) {
	cfg := ConfigFromEnv(envMap(map[string]string{
		"SKILLCHECK_LLM_PROVIDER":      "OpenRouter",
		"SKILLCHECK_OPENROUTER_API_KEY": "or-key",
		"SKILLCHECK_OPENROUTER_MODEL":   "meta/llama",
		"SKILLCHECK_LLM_TIMEOUT":        "5s",
	}))
	assert.Equal(t, ProviderOpenRouter, cfg.Provider)
	assert.Equal(t, "or-key", cfg.OpenRouter.APIKey)
	assert.Equal(t, "meta/llama", cfg.OpenRouter.Model)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "claude-haiku", cfg.Anthropic.Model)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		provider string
		wantErr  string
	}{
		{ProviderAnthropic, "SKILLCHECK_ANTHROPIC_API_KEY is required"},
		{ProviderOpenAI, "SKILLCHECK_OPENAI_API_KEY is required"},
		{ProviderGemini, "SKILLCHECK_GEMINI_API_KEY is required"},
		{ProviderMock, ""},
		{"llama.cpp", "unknown LLM provider"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Provider = tt.provider
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
