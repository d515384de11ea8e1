package questionbank

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/skillcheck/internal/difficulty"
	"github.com/abhisek/skillcheck/internal/llm"
	"github.com/abhisek/skillcheck/internal/logger"
)

// LLMGenerator implements Generator with a single structured LLM call per set.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	log      *logger.Logger
}

// NewLLMGenerator creates an LLMGenerator. log may be nil.
func NewLLMGenerator(provider llm.Provider, cfg Config, log *logger.Logger) *LLMGenerator {
	if log == nil {
		log = logger.Nop()
	}
	return &LLMGenerator{provider: provider, config: cfg, log: log}
}

type questionSetOutput struct {
	Questions []questionOutput `json:"questions"`
}

type questionOutput struct {
	Prompt      string   `json:"prompt"`
	Type        string   `json:"type"`
	Options     []Option `json:"options"`
	Answer      []string `json:"answer"`
	Difficulty  int      `json:"difficulty"`
	Explanation string   `json:"explanation"`
}

// Generate asks the provider for a question set and keeps the candidates
// that pass every validator. Duplicate prompts within the set are dropped.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) ([]Question, error) {
	resp, err := g.provider.Generate(ctx, llm.Request{
		Purpose:     llm.PurposeQuestionSet,
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)}},
		Schema:      QuestionSetSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	var raw questionSetOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse response: %w", ErrGenerationFailed, err)
	}

	seen := make(map[string]bool, len(raw.Questions))
	out := make([]Question, 0, len(raw.Questions))
	for _, r := range raw.Questions {
		q := Question{
			ID:            uuid.NewString(),
			Prompt:        strings.TrimSpace(r.Prompt),
			Type:          QuestionType(r.Type),
			Options:       r.Options,
			CorrectAnswer: r.Answer,
			Difficulty:    difficulty.Level(r.Difficulty),
			Explanation:   strings.TrimSpace(r.Explanation),
		}
		if q.Type == ShortAnswer {
			q.Options = nil
		}
		key := strings.ToLower(q.Prompt)
		if seen[key] {
			continue
		}
		if verr := runValidators(g.config.Validators, &q); verr != nil {
			g.log.Debug("dropping generated question", "skill_id", input.Skill.ID, "reason", verr.Error())
			continue
		}
		seen[key] = true
		out = append(out, q)
		if len(out) == g.config.count() {
			break
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no valid questions for skill %q", ErrGenerationFailed, input.Skill.ID)
	}
	return out, nil
}
