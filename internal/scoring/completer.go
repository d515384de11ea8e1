package scoring

import (
	"context"
	"fmt"

	"github.com/abhisek/skillcheck/internal/logger"
)

// Outcome is the result of completing an attempt plus the state of its side
// effects. Result never changes after Complete returns.
type Outcome struct {
	Attempt   Attempt    `json:"attempt"`
	Result    Result     `json:"result"`
	Milestone *Milestone `json:"milestone,omitempty"`
	Award     *Award     `json:"award,omitempty"`

	// PersistErr and BadgeErr hold side-effect failures for retry.
	PersistErr error `json:"-"`
	BadgeErr   error `json:"-"`

	persisted bool
	badged    bool
}

// Pending reports whether any side effect still needs a retry.
func (o Outcome) Pending() bool {
	return o.PersistErr != nil || o.BadgeErr != nil
}

// Completer scores attempts and runs their side effects best-effort.
type Completer struct {
	attempts     AttemptStore
	badges       BadgeService
	passRate     int
	streakLength int
	log          *logger.Logger
}

// CompleterConfig configures a Completer. Zero values use the defaults.
type CompleterConfig struct {
	PassRate     int
	StreakLength int
}

// NewCompleter creates a Completer. badges and log may be nil.
func NewCompleter(attempts AttemptStore, badges BadgeService, cfg CompleterConfig, log *logger.Logger) *Completer {
	if cfg.PassRate <= 0 {
		cfg.PassRate = DefaultPassRate
	}
	if cfg.StreakLength <= 0 {
		cfg.StreakLength = DefaultStreakLength
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Completer{
		attempts:     attempts,
		badges:       badges,
		passRate:     cfg.PassRate,
		streakLength: cfg.StreakLength,
		log:          log,
	}
}

// PassRate returns the configured pass threshold.
func (c *Completer) PassRate() int { return c.passRate }

// Complete computes the result first, then persists and evaluates badges.
// Side-effect failures are recorded on the outcome and logged.
func (c *Completer) Complete(ctx context.Context, a Attempt) Outcome {
	res := Compute(a.Questions, c.passRate)
	a.FinalScore = res.Score
	a.Passed = res.Passed

	o := Outcome{Attempt: a, Result: res}
	c.persist(ctx, &o)
	c.evaluate(ctx, &o)
	return o
}

// Retry re-runs only the failed side effects of o and returns the updated
// outcome. The result and any award already granted are left untouched.
func (c *Completer) Retry(ctx context.Context, o Outcome) Outcome {
	if o.PersistErr != nil || !o.persisted {
		c.persist(ctx, &o)
	}
	if o.BadgeErr != nil || !o.badged {
		c.evaluate(ctx, &o)
	}
	return o
}

func (c *Completer) persist(ctx context.Context, o *Outcome) {
	if c.attempts == nil {
		o.persisted = true
		return
	}
	if err := c.attempts.Save(ctx, o.Attempt); err != nil {
		o.PersistErr = fmt.Errorf("save attempt: %w", err)
		c.log.Warn("attempt persistence failed", "attempt_id", o.Attempt.ID, "skill_id", o.Attempt.SkillID, "error", err)
		return
	}
	o.PersistErr = nil
	o.persisted = true
}

func (c *Completer) evaluate(ctx context.Context, o *Outcome) {
	if !o.Result.Passed || c.badges == nil {
		o.badged = true
		return
	}

	if o.Milestone == nil {
		var history []Attempt
		if c.attempts != nil {
			h, err := c.attempts.History(ctx, o.Attempt.LearnerID, o.Attempt.SkillID)
			if err != nil {
				o.BadgeErr = fmt.Errorf("load attempt history: %w", err)
				c.log.Warn("badge evaluation failed", "attempt_id", o.Attempt.ID, "error", err)
				return
			}
			history = h
		}
		o.Milestone = DetectMilestone(o.Attempt, history, c.streakLength)
	}
	if o.Milestone == nil {
		o.BadgeErr = nil
		o.badged = true
		return
	}

	award, err := c.badges.Evaluate(ctx, o.Attempt, *o.Milestone)
	if err != nil {
		o.BadgeErr = fmt.Errorf("evaluate badge: %w", err)
		c.log.Warn("badge evaluation failed", "attempt_id", o.Attempt.ID, "milestone", o.Milestone.Kind, "error", err)
		return
	}
	o.Award = award
	o.BadgeErr = nil
	o.badged = true
}
