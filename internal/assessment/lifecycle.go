package assessment

import (
	"context"
	"fmt"

	"github.com/abhisek/skillcheck/internal/questionbank"
	"github.com/abhisek/skillcheck/internal/skill"
)

// Start loads the first question set. It is a no-op once a set is loaded
// and doubles as recovery after a generation failure.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.stage != stageLoading && s.stage != stageGenerationFailed {
		s.mu.Unlock()
		return nil
	}
	// Loading with a non-zero epoch means a generation is in flight.
	if s.stage == stageLoading && s.epoch > 0 {
		s.mu.Unlock()
		return ErrBusy
	}
	return s.regenerateLocked(ctx, false)
}

// Retry discards answers, feedback and score and loads a fresh set at the
// same proficiency. Prompts from the discarded set are passed to the
// generator so it can avoid repeating them.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.stage == stageScoring || s.retryingOutcome {
		s.mu.Unlock()
		return ErrBusy
	}
	for _, q := range s.questions {
		s.priorPrompts = append(s.priorPrompts, q.Prompt)
	}
	return s.regenerateLocked(ctx, true)
}

// ChangeProficiency hard-resets the session at a new proficiency.
func (s *Session) ChangeProficiency(ctx context.Context, p skill.Proficiency) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %d", skill.ErrUnknownProficiency, int(p))
	}
	s.mu.Lock()
	if s.stage == stageScoring || s.retryingOutcome {
		s.mu.Unlock()
		return ErrBusy
	}
	s.proficiency = p
	s.priorPrompts = nil
	return s.regenerateLocked(ctx, true)
}

// regenerateLocked must be called with mu held; it releases mu. Any grade
// in flight is orphaned: its result is discarded when it returns.
func (s *Session) regenerateLocked(ctx context.Context, reset bool) error {
	if reset {
		s.questions = nil
		s.index = 0
		s.outcome = nil
		s.feedbackVisible = false
		s.pending = nil
		s.resetLevel()
	}
	s.epoch++
	epoch := s.epoch
	s.stage = stageLoading
	s.genErr = nil

	in := questionbank.GenerateInput{
		Skill:        s.skill,
		Proficiency:  s.proficiency,
		Difficulty:   s.level,
		PriorPrompts: append([]string(nil), s.priorPrompts...),
	}
	s.mu.Unlock()

	qs, err := s.deps.Generator.Generate(ctx, in)
	if err == nil && len(qs) == 0 {
		err = fmt.Errorf("%w: empty question set", questionbank.ErrGenerationFailed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return ErrSuperseded
	}
	if err != nil {
		s.stage = stageGenerationFailed
		s.genErr = err
		s.log.Warn("question generation failed", "proficiency", s.proficiency.String(), "error", err)
		return fmt.Errorf("generate questions: %w", err)
	}

	s.questions = make([]questionbank.Question, len(qs))
	for i, q := range qs {
		c := q.Clone()
		c.UserAnswer = nil
		c.Feedback = nil
		s.questions[i] = c
	}
	s.index = 0
	s.stage = stageActive
	s.startedAt = s.deps.Now()
	s.log.Debug("question set loaded", "questions", len(s.questions), "difficulty", s.level.String())
	return nil
}

// GenerationError returns the last generation failure, if any.
func (s *Session) GenerationError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.genErr
}
