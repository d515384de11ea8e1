package grading

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/skillcheck/internal/llm"
	"github.com/abhisek/skillcheck/internal/logger"
	"github.com/abhisek/skillcheck/internal/questionbank"
)

// VerdictSchema is the structured output requested from the LLM grader.
var VerdictSchema = &llm.Schema{
	Name:        "short-answer-verdict",
	Description: "Verdict on a learner's short answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the answer means the same as an accepted answer",
			},
			"score": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     1,
				"description": "Credit from 0 (wrong) to 1 (fully correct)",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "One or two sentences addressed to the learner",
			},
		},
		"required":             []any{"correct", "score", "explanation"},
		"additionalProperties": false,
	},
}

const graderSystemPrompt = `You grade short answers in a skill assessment.
Judge whether the learner's answer has the same meaning as one of the accepted answers.
Accept synonyms, harmless typos and rephrasing. Reject answers that are vague, partially wrong, or that list several alternatives.
Be strict: the score is 1 only when the answer is fully correct.`

// LLMGrader grades short answers with an LLM when the exact rules reject
// them. Choice questions and exact matches never reach the provider, and
// any provider failure falls back to the rule verdict.
type LLMGrader struct {
	provider llm.Provider
	rules    *RuleGrader
	log      *logger.Logger

	MaxTokens int
}

// NewLLMGrader creates an LLMGrader. log may be nil.
func NewLLMGrader(provider llm.Provider, log *logger.Logger) *LLMGrader {
	if log == nil {
		log = logger.Nop()
	}
	return &LLMGrader{provider: provider, rules: NewRuleGrader(), log: log, MaxTokens: 512}
}

type verdict struct {
	Correct     bool    `json:"correct"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

func (g *LLMGrader) Grade(ctx context.Context, q questionbank.Question, a questionbank.Answer) (questionbank.Feedback, error) {
	ruled, err := g.rules.Grade(ctx, q, a)
	if err != nil || ruled.Correct || q.Type != questionbank.ShortAnswer || a.IsEmpty() {
		return ruled, err
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		Purpose:   llm.PurposeGrading,
		System:    graderSystemPrompt,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: gradingPrompt(q, a)}},
		Schema:    VerdictSchema,
		MaxTokens: g.MaxTokens,
	})
	if err != nil {
		if ctx.Err() != nil {
			return questionbank.Feedback{}, ctx.Err()
		}
		g.log.Warn("llm grading failed, using rule verdict", "question_id", q.ID, "error", err)
		return ruled, nil
	}

	var v verdict
	if err := json.Unmarshal(resp.Content, &v); err != nil {
		g.log.Warn("llm verdict unreadable, using rule verdict", "question_id", q.ID, "error", err)
		return ruled, nil
	}

	fb := questionbank.Feedback{Correct: v.Correct, Score: clamp01(v.Score), Explanation: q.Explanation}
	if !v.Correct {
		fb.Score = 0
	}
	if s := strings.TrimSpace(v.Explanation); s != "" {
		fb.Explanation = s
	}
	return fb, nil
}

func gradingPrompt(q questionbank.Question, a questionbank.Answer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", q.Prompt)
	fmt.Fprintf(&b, "Accepted answers: %s\n", strings.Join(q.CorrectAnswer, " | "))
	if q.Explanation != "" {
		fmt.Fprintf(&b, "Reference explanation: %s\n", q.Explanation)
	}
	fmt.Fprintf(&b, "Learner answer: %s\n", strings.TrimSpace(a[0]))
	return b.String()
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
