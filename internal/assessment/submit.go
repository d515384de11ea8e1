package assessment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/abhisek/skillcheck/internal/difficulty"
	"github.com/abhisek/skillcheck/internal/questionbank"
	"github.com/abhisek/skillcheck/internal/scoring"
)

// Submit scores the attempt. Every question must have an answer; answered
// questions without feedback are graded first. Once scored, Submit returns
// the same outcome again.
func (s *Session) Submit(ctx context.Context) (scoring.Outcome, error) {
	s.mu.Lock()
	switch {
	case s.stage == stageScored:
		o := *s.outcome
		s.mu.Unlock()
		return o, nil
	case s.stage == stageScoring || s.pending != nil:
		s.mu.Unlock()
		return scoring.Outcome{}, ErrBusy
	case s.stage == stageLoading || s.stage == stageGenerationFailed:
		s.mu.Unlock()
		return scoring.Outcome{}, ErrNotReady
	}

	var ungraded []int
	for i, q := range s.questions {
		if !hasAnswer(q) {
			s.mu.Unlock()
			return scoring.Outcome{}, fmt.Errorf("%w: question %d", ErrIncomplete, i+1)
		}
		if q.Feedback == nil {
			ungraded = append(ungraded, i)
		}
	}

	prev := s.stage
	s.stage = stageScoring
	epoch := s.epoch
	work := make([]questionbank.Question, len(ungraded))
	for j, i := range ungraded {
		work[j] = s.questions[i].Clone()
	}
	s.mu.Unlock()

	feedback := make([]questionbank.Feedback, len(work))
	var gradeErr error
	for j, q := range work {
		fb, err := s.deps.Grader.Grade(ctx, q, q.UserAnswer)
		if err != nil {
			gradeErr = fmt.Errorf("%w: question %s: %w", ErrGradingFailed, q.ID, err)
			work = work[:j]
			break
		}
		feedback[j] = fb
	}

	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return scoring.Outcome{}, ErrSuperseded
	}
	for j := range work {
		fb := feedback[j]
		s.questions[ungraded[j]].Feedback = &fb
	}
	if gradeErr != nil {
		s.stage = prev
		s.mu.Unlock()
		s.log.Warn("grading before scoring failed", "error", gradeErr)
		return scoring.Outcome{}, gradeErr
	}

	questions := make([]questionbank.Question, len(s.questions))
	for i, q := range s.questions {
		questions[i] = q.Clone()
	}
	attempt := scoring.Attempt{
		ID:             uuid.NewString(),
		LearnerID:      s.learnerID,
		SkillID:        s.skill.ID,
		Proficiency:    s.proficiency,
		Questions:      questions,
		DifficultyPath: append([]difficulty.Level(nil), s.path...),
		AdaptiveMode:   s.adaptive,
		StartedAt:      s.startedAt,
		SubmittedAt:    s.deps.Now(),
	}
	s.mu.Unlock()

	o := s.deps.Completer.Complete(ctx, attempt)

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return o, ErrSuperseded
	}
	s.outcome = &o
	s.stage = stageScored
	s.feedbackVisible = false
	s.log.Info("assessment scored", "attempt_id", attempt.ID, "score", o.Result.Score, "passed", o.Result.Passed, "completion_pending", o.Pending())
	return o, nil
}

// RetryCompletion re-runs the completion side effects that failed on the
// last Submit. The shown result is not changed.
func (s *Session) RetryCompletion(ctx context.Context) (scoring.Outcome, error) {
	s.mu.Lock()
	if s.stage != stageScored {
		s.mu.Unlock()
		return scoring.Outcome{}, ErrNotReady
	}
	if s.retryingOutcome {
		s.mu.Unlock()
		return scoring.Outcome{}, ErrBusy
	}
	o := *s.outcome
	if !o.Pending() {
		s.mu.Unlock()
		return o, nil
	}
	s.retryingOutcome = true
	s.mu.Unlock()

	o = s.deps.Completer.Retry(ctx, o)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.retryingOutcome = false
	s.outcome = &o
	return o, nil
}

// Outcome returns the scored outcome, or false before scoring.
func (s *Session) Outcome() (scoring.Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != stageScored || s.outcome == nil {
		return scoring.Outcome{}, false
	}
	return *s.outcome, true
}
