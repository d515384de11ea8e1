package assessment

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/skillcheck/internal/questionbank"
)

// Answer records a provisional answer for the current question. Only the
// shape of the answer is checked; nothing is graded.
func (s *Session) Answer(values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkAnswerable(); err != nil {
		return err
	}

	q := &s.questions[s.index]
	if q.Feedback != nil {
		return ErrAnswerLocked
	}
	a := questionbank.Answer{}
	for _, v := range values {
		if q.Type.HasOptions() && strings.TrimSpace(v) == "" {
			continue
		}
		a = append(a, v)
	}
	if !a.Compatible(q.Type) {
		return ErrIncompatibleAnswer
	}
	if q.Type.HasOptions() {
		for _, id := range a {
			if !q.HasOption(id) {
				return fmt.Errorf("%w: unknown option %q", ErrIncompatibleAnswer, id)
			}
		}
	}
	q.UserAnswer = a
	s.feedbackVisible = false
	return nil
}

// SubmitAnswer grades the current question and shows its feedback. A second
// submit of a graded question returns the stored feedback unchanged; one
// issued while the first is still grading waits for it. In adaptive mode the
// controller then retags the next question.
func (s *Session) SubmitAnswer(ctx context.Context) (questionbank.Feedback, error) {
	s.mu.Lock()
	if err := s.checkAnswerable(); err != nil {
		if err == ErrBusy && s.pending.index == s.index && s.pending.epoch == s.epoch {
			p := s.pending
			s.mu.Unlock()
			return s.awaitGrade(ctx, p)
		}
		s.mu.Unlock()
		return questionbank.Feedback{}, err
	}

	q := &s.questions[s.index]
	if q.Feedback != nil {
		s.feedbackVisible = true
		fb := *q.Feedback
		s.mu.Unlock()
		return fb, nil
	}
	if q.UserAnswer.IsEmpty() && !q.Type.AllowsEmpty() {
		s.mu.Unlock()
		return questionbank.Feedback{}, ErrMissingAnswer
	}

	p := &pendingGrade{index: s.index, epoch: s.epoch, done: make(chan struct{})}
	s.pending = p
	question := q.Clone()
	answer := append(questionbank.Answer{}, q.UserAnswer...)
	s.mu.Unlock()

	fb, err := s.deps.Grader.Grade(ctx, question, answer)

	s.mu.Lock()
	defer s.mu.Unlock()
	p.err = err
	close(p.done)
	if s.pending == p {
		s.pending = nil
	}
	if p.epoch != s.epoch {
		return questionbank.Feedback{}, ErrSuperseded
	}
	if err != nil {
		s.log.Warn("grading failed", "question_id", question.ID, "error", err)
		return questionbank.Feedback{}, fmt.Errorf("%w: %w", ErrGradingFailed, err)
	}

	q = &s.questions[p.index]
	q.UserAnswer = answer
	q.Feedback = &fb
	if s.index == p.index {
		s.feedbackVisible = true
	}
	if s.adaptive {
		s.adjustLocked(p.index)
	}
	return fb, nil
}

// awaitGrade blocks until the in-flight grade p finishes, then reports the
// stored feedback or the grade's error.
func (s *Session) awaitGrade(ctx context.Context, p *pendingGrade) (questionbank.Feedback, error) {
	select {
	case <-p.done:
	case <-ctx.Done():
		return questionbank.Feedback{}, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p.epoch != s.epoch {
		return questionbank.Feedback{}, ErrSuperseded
	}
	if p.err != nil {
		return questionbank.Feedback{}, fmt.Errorf("%w: %w", ErrGradingFailed, p.err)
	}
	return *s.questions[p.index].Feedback, nil
}

// adjustLocked runs the controller after question i was graded and tags
// the next question with the resulting level.
func (s *Session) adjustLocked(i int) {
	if i >= len(s.questions)-1 {
		return
	}
	var correct, answered int
	for _, q := range s.questions {
		if q.Feedback == nil {
			continue
		}
		answered++
		if q.Feedback.Correct {
			correct++
		}
	}

	next, changed := s.deps.Controller.Adjust(s.level, correct, answered)
	if !changed {
		return
	}
	s.level = next
	s.path = append(s.path, next)
	if nq := &s.questions[i+1]; nq.Feedback == nil {
		nq.Difficulty = next
	}
	s.log.Debug("difficulty adjusted", "level", next.String(), "correct", correct, "answered", answered)
}

// Next advances to the following question; on the last question it moves
// the session to the completed phase instead. In adaptive mode an ungraded
// current question is submitted first.
func (s *Session) Next(ctx context.Context) error {
	s.mu.Lock()
	if err := s.checkAnswerable(); err != nil {
		s.mu.Unlock()
		return err
	}
	needsGrade := s.adaptive && s.stage == stageActive && s.questions[s.index].Feedback == nil
	epoch, index := s.epoch, s.index
	s.mu.Unlock()

	if needsGrade {
		if _, err := s.SubmitAnswer(ctx); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return ErrSuperseded
	}
	if err := s.checkAnswerable(); err != nil {
		return err
	}
	if s.index != index {
		// Another Next or Previous moved first.
		return nil
	}
	if s.index == len(s.questions)-1 {
		s.stage = stageCompleted
		return nil
	}
	s.index++
	s.feedbackVisible = s.questions[s.index].Feedback != nil
	return nil
}

// Previous steps back one question and re-shows its stored feedback. It is a
// no-op on the first question.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkAnswerable(); err != nil {
		return err
	}
	if s.stage == stageCompleted {
		s.stage = stageActive
	}
	if s.index == 0 {
		return nil
	}
	s.index--
	s.feedbackVisible = s.questions[s.index].Feedback != nil
	return nil
}

// ToggleAdaptiveMode flips adaptive mode and hides any visible feedback.
// It is rejected once scoring has begun.
func (s *Session) ToggleAdaptiveMode() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.stage == stageScoring || s.stage == stageScored:
		return s.adaptive, ErrScoringStarted
	case s.pending != nil:
		return s.adaptive, ErrBusy
	}
	s.adaptive = !s.adaptive
	s.feedbackVisible = false
	return s.adaptive, nil
}
