package events

import (
	"context"

	"github.com/abhisek/skillcheck/internal/logger"
	"github.com/abhisek/skillcheck/internal/scoring"
)

// AttemptSummary is the payload of TypeAttemptCompleted. Questions are left
// out to keep messages small.
type AttemptSummary struct {
	AttemptID    string `json:"attempt_id"`
	LearnerID    string `json:"learner_id"`
	SkillID      string `json:"skill_id"`
	Proficiency  string `json:"proficiency"`
	Score        int    `json:"score"`
	Passed       bool   `json:"passed"`
	AdaptiveMode bool   `json:"adaptive_mode"`
	Questions    int    `json:"questions"`
}

type publishingAttempts struct {
	inner scoring.AttemptStore
	pub   Publisher
	log   *logger.Logger
}

// WithAttemptEvents publishes TypeAttemptCompleted after every successful
// save. A publish failure is logged and never fails the save.
func WithAttemptEvents(inner scoring.AttemptStore, pub Publisher, log *logger.Logger) scoring.AttemptStore {
	if log == nil {
		log = logger.Nop()
	}
	return &publishingAttempts{inner: inner, pub: pub, log: log}
}

func (p *publishingAttempts) Save(ctx context.Context, a scoring.Attempt) error {
	if err := p.inner.Save(ctx, a); err != nil {
		return err
	}
	summary := AttemptSummary{
		AttemptID:    a.ID,
		LearnerID:    a.LearnerID,
		SkillID:      a.SkillID,
		Proficiency:  a.Proficiency.String(),
		Score:        a.FinalScore,
		Passed:       a.Passed,
		AdaptiveMode: a.AdaptiveMode,
		Questions:    len(a.Questions),
	}
	if err := p.pub.Publish(ctx, TypeAttemptCompleted, summary); err != nil {
		p.log.Warn("publish attempt event", "attempt_id", a.ID, "error", err)
	}
	return nil
}

func (p *publishingAttempts) History(ctx context.Context, learnerID, skillID string) ([]scoring.Attempt, error) {
	return p.inner.History(ctx, learnerID, skillID)
}
