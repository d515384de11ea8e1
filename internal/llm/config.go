package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds LLM provider configuration.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single logical request, retries included.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 45 * time.Second,
	}
}

// envPrefix namespaces every variable read by ConfigFromEnv.
const envPrefix = "SKILLCHECK_"

// ConfigFromEnv builds a Config from SKILLCHECK_* environment variables,
// falling back to defaults for unset values. lookup is normally os.Getenv.
func ConfigFromEnv(lookup func(string) string) Config {
	if lookup == nil {
		lookup = os.Getenv
	}
	get := func(name string) string { return strings.TrimSpace(lookup(envPrefix + name)) }
	set := func(dst *string, name string) {
		if v := get(name); v != "" {
			*dst = v
		}
	}

	cfg := DefaultConfig()
	set(&cfg.Provider, "LLM_PROVIDER")
	cfg.Provider = strings.ToLower(cfg.Provider)

	set(&cfg.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	set(&cfg.Anthropic.Model, "ANTHROPIC_MODEL")
	set(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	set(&cfg.OpenAI.Model, "OPENAI_MODEL")
	set(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	set(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	set(&cfg.Gemini.Model, "GEMINI_MODEL")
	set(&cfg.OpenRouter.APIKey, "OPENROUTER_API_KEY")
	set(&cfg.OpenRouter.Model, "OPENROUTER_MODEL")
	set(&cfg.OpenRouter.BaseURL, "OPENROUTER_BASE_URL")

	if v := get("LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	return cfg
}

// Validate checks that the selected provider has its API key set.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case ProviderAnthropic:
		key = c.Anthropic.APIKey
	case ProviderOpenAI:
		key = c.OpenAI.APIKey
	case ProviderGemini:
		key = c.Gemini.APIKey
	case ProviderOpenRouter:
		key = c.OpenRouter.APIKey
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s%s_API_KEY is required for the %s provider", envPrefix, strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
