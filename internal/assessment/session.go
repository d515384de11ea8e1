// Package assessment implements the adaptive assessment session: a
// mutex-guarded state machine that drives question generation, grading,
// difficulty adjustment and scoring for one learner and one skill.
package assessment

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/skillcheck/internal/difficulty"
	"github.com/abhisek/skillcheck/internal/grading"
	"github.com/abhisek/skillcheck/internal/logger"
	"github.com/abhisek/skillcheck/internal/questionbank"
	"github.com/abhisek/skillcheck/internal/scoring"
	"github.com/abhisek/skillcheck/internal/skill"
)

// Phase is the externally visible state of a session.
type Phase string

const (
	PhaseLoading          Phase = "loading"
	PhaseReady            Phase = "ready"
	PhaseAnswering        Phase = "answering"
	PhaseFeedback         Phase = "feedback"
	PhaseCompleted        Phase = "completed"
	PhaseScored           Phase = "scored"
	PhaseGenerationFailed Phase = "generation_failed"
)

// stage is the stored part of the phase; Ready, Answering and Feedback are
// derived from the current question while active.
type stage int

const (
	stageLoading stage = iota
	stageActive
	stageCompleted
	stageScoring
	stageScored
	stageGenerationFailed
)

// Deps are the collaborators a session calls. Generator, Grader and
// Completer are required.
type Deps struct {
	Generator  questionbank.Generator
	Grader     grading.Grader
	Controller *difficulty.Controller
	Completer  *scoring.Completer
	Logger     *logger.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Config holds per-session options.
type Config struct {
	Adaptive bool
}

type pendingGrade struct {
	index int
	epoch uint64
	done  chan struct{}
	err   error
}

// Session is one live assessment. All methods are safe for concurrent use;
// the lock is never held while a collaborator runs.
type Session struct {
	id        string
	learnerID string
	skill     skill.Skill
	deps      Deps
	log       *logger.Logger

	mu              sync.Mutex
	proficiency     skill.Proficiency
	questions       []questionbank.Question
	index           int
	adaptive        bool
	feedbackVisible bool
	level           difficulty.Level
	path            []difficulty.Level
	stage           stage
	epoch           uint64
	pending         *pendingGrade
	retryingOutcome bool
	outcome         *scoring.Outcome
	genErr          error
	priorPrompts    []string
	startedAt       time.Time
}

// New creates a session in the loading phase. Call Start to load questions.
func New(learnerID string, sk skill.Skill, p skill.Proficiency, cfg Config, deps Deps) (*Session, error) {
	if !p.Valid() {
		return nil, skill.ErrUnknownProficiency
	}
	if deps.Generator == nil || deps.Grader == nil || deps.Completer == nil {
		return nil, errors.New("assessment: generator, grader and completer are required")
	}
	if deps.Controller == nil {
		deps.Controller = difficulty.NewController(difficulty.DefaultConfig())
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	s := &Session{
		id:          uuid.NewString(),
		learnerID:   learnerID,
		skill:       sk,
		deps:        deps,
		proficiency: p,
		adaptive:    cfg.Adaptive,
		stage:       stageLoading,
	}
	s.log = log.With("session_id", s.id, "skill_id", sk.ID)
	s.resetLevel()
	return s, nil
}

func (s *Session) ID() string         { return s.id }
func (s *Session) LearnerID() string  { return s.learnerID }
func (s *Session) Skill() skill.Skill { return s.skill }

// resetLevel puts the difficulty back at the proficiency's starting tier.
// Caller holds mu or owns s exclusively.
func (s *Session) resetLevel() {
	s.level = s.deps.Controller.Clamp(difficulty.ForProficiency(s.proficiency))
	s.path = []difficulty.Level{s.level}
}

func (s *Session) phaseLocked() Phase {
	switch s.stage {
	case stageLoading:
		return PhaseLoading
	case stageGenerationFailed:
		return PhaseGenerationFailed
	case stageCompleted, stageScoring:
		return PhaseCompleted
	case stageScored:
		return PhaseScored
	}
	q := &s.questions[s.index]
	switch {
	case q.Feedback != nil && s.feedbackVisible:
		return PhaseFeedback
	case q.UserAnswer != nil:
		return PhaseAnswering
	}
	return PhaseReady
}

// hasAnswer reports whether q holds an answer that may be graded. An empty
// answer only counts for types that accept one.
func hasAnswer(q questionbank.Question) bool {
	return q.UserAnswer != nil && (!q.UserAnswer.IsEmpty() || q.Type.AllowsEmpty())
}

// checkAnswerable returns the error for answer-side commands in the current
// stage, or nil when the current question may be changed.
func (s *Session) checkAnswerable() error {
	switch s.stage {
	case stageLoading, stageGenerationFailed:
		return ErrNotReady
	case stageScoring:
		return ErrScoringStarted
	case stageScored:
		return ErrAlreadyScored
	}
	if s.pending != nil {
		return ErrBusy
	}
	return nil
}

// QuestionView is the learner-facing view of a question. CorrectAnswer is
// only filled once the question has feedback.
type QuestionView struct {
	ID            string                    `json:"id"`
	Prompt        string                    `json:"prompt"`
	Type          questionbank.QuestionType `json:"type"`
	Options       []questionbank.Option     `json:"options,omitempty"`
	Difficulty    difficulty.Level          `json:"difficulty"`
	Answer        questionbank.Answer       `json:"answer,omitempty"`
	CorrectAnswer []string                  `json:"correct_answer,omitempty"`
}

// Snapshot is a consistent copy of the session's visible state.
type Snapshot struct {
	ID               string                 `json:"id"`
	LearnerID        string                 `json:"learner_id"`
	SkillID          string                 `json:"skill_id"`
	Proficiency      skill.Proficiency      `json:"proficiency"`
	Phase            Phase                  `json:"phase"`
	CurrentQuestion  *QuestionView          `json:"current_question,omitempty"`
	Index            int                    `json:"index"`
	Total            int                    `json:"total"`
	Answered         int                    `json:"answered"`
	Feedback         *questionbank.Feedback `json:"feedback,omitempty"`
	Score            *int                   `json:"score"`
	Passed           *bool                  `json:"passed"`
	Difficulty       difficulty.Level       `json:"difficulty"`
	AdaptiveMode     bool                   `json:"adaptive_mode"`
	GenerationFailed bool                   `json:"generation_failed"`
	Award            *scoring.Award         `json:"award,omitempty"`

	// CompletionPending is true while a completion side effect failed and
	// can be retried.
	CompletionPending bool `json:"completion_pending"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:               s.id,
		LearnerID:        s.learnerID,
		SkillID:          s.skill.ID,
		Proficiency:      s.proficiency,
		Phase:            s.phaseLocked(),
		Index:            s.index,
		Total:            len(s.questions),
		Difficulty:       s.level,
		AdaptiveMode:     s.adaptive,
		GenerationFailed: s.stage == stageGenerationFailed,
	}
	for _, q := range s.questions {
		if hasAnswer(q) {
			snap.Answered++
		}
	}

	if len(s.questions) > 0 {
		q := s.questions[s.index]
		view := &QuestionView{
			ID:         q.ID,
			Prompt:     q.Prompt,
			Type:       q.Type,
			Options:    append([]questionbank.Option(nil), q.Options...),
			Difficulty: q.Difficulty,
			Answer:     append(questionbank.Answer(nil), q.UserAnswer...),
		}
		if q.Feedback != nil {
			view.CorrectAnswer = append([]string(nil), q.CorrectAnswer...)
			if s.feedbackVisible {
				fb := *q.Feedback
				snap.Feedback = &fb
			}
		}
		snap.CurrentQuestion = view
	}

	if s.stage == stageScored && s.outcome != nil {
		score, passed := s.outcome.Result.Score, s.outcome.Result.Passed
		snap.Score, snap.Passed = &score, &passed
		snap.Award = s.outcome.Award
		snap.CompletionPending = s.outcome.Pending()
	}
	return snap
}
