package assessment

import "errors"

var (
	// ErrMissingAnswer is returned when a submit is attempted without an
	// answer on a question type that does not accept an empty one.
	ErrMissingAnswer = errors.New("answer required")

	// ErrIncompatibleAnswer is returned when an answer does not fit the
	// current question's type or options.
	ErrIncompatibleAnswer = errors.New("answer incompatible with question")

	// ErrAnswerLocked is returned when answering a question that already
	// has feedback.
	ErrAnswerLocked = errors.New("question already graded")

	// ErrIncomplete is returned by Submit while some question is unanswered.
	ErrIncomplete = errors.New("not all questions answered")

	// ErrNotReady is returned when no question set is loaded.
	ErrNotReady = errors.New("assessment not ready")

	// ErrBusy is returned when a grade or scoring call is already in flight.
	ErrBusy = errors.New("assessment busy")

	// ErrSuperseded is returned to the caller of an in-flight operation whose
	// result was discarded because the session was reset meanwhile.
	ErrSuperseded = errors.New("superseded by a newer question set")

	// ErrScoringStarted is returned for changes that are no longer allowed
	// once scoring has begun.
	ErrScoringStarted = errors.New("scoring already started")

	// ErrAlreadyScored is returned for answer commands after scoring.
	ErrAlreadyScored = errors.New("assessment already scored")

	// ErrGradingFailed wraps grader errors. The question keeps no feedback
	// and can be submitted again.
	ErrGradingFailed = errors.New("grading failed")
)
