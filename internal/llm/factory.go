package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/skillcheck/internal/logger"
)

// NewProvider builds the configured provider wrapped with middleware:
// caller → timeout → retry → logging → base. rec may be nil.
func NewProvider(ctx context.Context, cfg Config, rec RequestRecorder, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, cfg.Provider, rec, log)
	return WithTimeout(WithRetry(logged, cfg.Retry), cfg.Timeout), nil
}
