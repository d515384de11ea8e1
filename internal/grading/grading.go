// Package grading turns a learner's answer into question feedback.
package grading

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/abhisek/skillcheck/internal/questionbank"
)

// ErrUngradable is returned when a question cannot be graded at all, e.g.
// it carries an unknown type.
var ErrUngradable = errors.New("question cannot be graded")

// Grader grades one answer. A returned error means no feedback was produced.
type Grader interface {
	Grade(ctx context.Context, q questionbank.Question, a questionbank.Answer) (questionbank.Feedback, error)
}

// GraderFunc adapts a function to the Grader interface.
type GraderFunc func(ctx context.Context, q questionbank.Question, a questionbank.Answer) (questionbank.Feedback, error)

func (f GraderFunc) Grade(ctx context.Context, q questionbank.Question, a questionbank.Answer) (questionbank.Feedback, error) {
	return f(ctx, q, a)
}

// RuleGrader grades deterministically: choice questions by set equality of
// option IDs, short answers by normalized match against any accepted answer.
type RuleGrader struct{}

func NewRuleGrader() *RuleGrader { return &RuleGrader{} }

func (g *RuleGrader) Grade(ctx context.Context, q questionbank.Question, a questionbank.Answer) (questionbank.Feedback, error) {
	if err := ctx.Err(); err != nil {
		return questionbank.Feedback{}, err
	}

	var correct bool
	switch q.Type {
	case questionbank.SingleChoice, questionbank.MultiChoice:
		correct = sameOptions(q.CorrectAnswer, a)
	case questionbank.ShortAnswer:
		correct = matchesAny(q.CorrectAnswer, a)
	default:
		return questionbank.Feedback{}, ErrUngradable
	}
	return feedbackFor(q, correct), nil
}

func feedbackFor(q questionbank.Question, correct bool) questionbank.Feedback {
	fb := questionbank.Feedback{Correct: correct, Explanation: q.Explanation}
	if correct {
		fb.Score = 1
	}
	return fb
}

func sameOptions(want []string, got questionbank.Answer) bool {
	return slices.Equal(optionSet(want), optionSet(got))
}

// optionSet sorts and de-duplicates non-blank IDs.
func optionSet(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func matchesAny(accepted []string, a questionbank.Answer) bool {
	if len(a) == 0 {
		return false
	}
	got := Normalize(a[0])
	if got == "" {
		return false
	}
	for _, acc := range accepted {
		if Normalize(acc) == got {
			return true
		}
	}
	return false
}

// Normalize lowercases s, trims it, collapses inner whitespace and drops a
// trailing period.
func Normalize(s string) string {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	return strings.TrimSuffix(s, ".")
}
