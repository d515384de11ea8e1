package questionbank

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/abhisek/skillcheck/internal/difficulty"
	"github.com/abhisek/skillcheck/internal/skill"
)

// ErrGenerationFailed is returned when the content source yields no usable
// questions. It is terminal for the current attempt only.
var ErrGenerationFailed = errors.New("question generation failed")

// QuestionType describes how the learner answers a question.
type QuestionType string

const (
	SingleChoice QuestionType = "single_choice"
	MultiChoice  QuestionType = "multi_choice"
	ShortAnswer  QuestionType = "short_answer"
)

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	switch t {
	case SingleChoice, MultiChoice, ShortAnswer:
		return true
	}
	return false
}

// AllowsEmpty reports whether an empty answer is a legal submission.
// A multi-choice question may legitimately have no applicable options.
func (t QuestionType) AllowsEmpty() bool {
	return t == MultiChoice
}

// HasOptions reports whether the type is answered by picking options.
func (t QuestionType) HasOptions() bool {
	return t == SingleChoice || t == MultiChoice
}

// Option is a selectable choice. Answers refer to options by ID.
type Option struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// Answer holds a learner's response. Choice questions carry option IDs,
// short answers carry a single free-text value.
type Answer []string

// IsEmpty reports whether the answer carries no non-blank value.
func (a Answer) IsEmpty() bool {
	for _, v := range a {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Compatible reports whether the answer's shape fits the question type.
func (a Answer) Compatible(t QuestionType) bool {
	switch t {
	case SingleChoice, ShortAnswer:
		return len(a) <= 1
	case MultiChoice:
		return true
	}
	return false
}

// Feedback is the graded result for one question. Once attached to a
// question it is never replaced within the same attempt.
type Feedback struct {
	Correct     bool    `json:"correct"`
	Explanation string  `json:"explanation"`
	Score       float64 `json:"score"`
}

// Question is a single assessment item owned by one session.
type Question struct {
	ID     string       `json:"id"`
	Prompt string       `json:"prompt"`
	Type   QuestionType `json:"type"`

	// Options is populated only for choice types.
	Options []Option `json:"options,omitempty"`

	// CorrectAnswer holds the correct option IDs for choice types, or the
	// accepted answers for short answers.
	CorrectAnswer []string `json:"correct_answer"`

	Difficulty  difficulty.Level `json:"difficulty"`
	Explanation string           `json:"explanation,omitempty"`

	UserAnswer Answer    `json:"user_answer,omitempty"`
	Feedback   *Feedback `json:"feedback,omitempty"`
}

// Clone returns a deep copy so that one session never shares a question
// with another.
func (q Question) Clone() Question {
	c := q
	c.Options = slices.Clone(q.Options)
	c.CorrectAnswer = slices.Clone(q.CorrectAnswer)
	c.UserAnswer = slices.Clone(q.UserAnswer)
	if q.Feedback != nil {
		fb := *q.Feedback
		c.Feedback = &fb
	}
	return c
}

// HasOption reports whether id names one of the question's options.
func (q Question) HasOption(id string) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// GenerateInput holds the context for generating one question set.
type GenerateInput struct {
	Skill       skill.Skill
	Proficiency skill.Proficiency

	// Difficulty is the starting tier. Zero means derive it from Proficiency.
	Difficulty difficulty.Level

	// PriorPrompts contains prompts already shown in earlier attempts of the
	// same session, for de-duplication.
	PriorPrompts []string
}

// StartDifficulty resolves the requested or derived starting difficulty.
func (in GenerateInput) StartDifficulty() difficulty.Level {
	if in.Difficulty.Valid() {
		return in.Difficulty
	}
	return difficulty.ForProficiency(in.Proficiency)
}

// Generator produces an ordered, non-empty question set for a skill.
type Generator interface {
	Generate(ctx context.Context, input GenerateInput) ([]Question, error)
}
