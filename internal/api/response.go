package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/questionbank"
	"github.com/abhisek/skillcheck/internal/registry"
	"github.com/abhisek/skillcheck/internal/skill"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`

	// Session carries the snapshot when the failure left a usable session,
	// e.g. after a generation failure.
	Session *assessment.Snapshot `json:"session,omitempty"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, ErrorEnvelope{Error: apiError(code, err)})
}

func apiError(code string, err error) APIError {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return APIError{Message: msg, Code: code}
}

// statusFor maps domain errors to an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, registry.ErrSessionLive):
		return http.StatusConflict, "session_live"

	case errors.Is(err, assessment.ErrMissingAnswer):
		return http.StatusUnprocessableEntity, "missing_answer"
	case errors.Is(err, assessment.ErrIncompatibleAnswer):
		return http.StatusUnprocessableEntity, "incompatible_answer"
	case errors.Is(err, assessment.ErrIncomplete):
		return http.StatusUnprocessableEntity, "incomplete"
	case errors.Is(err, skill.ErrUnknownSkill):
		return http.StatusUnprocessableEntity, "unknown_skill"
	case errors.Is(err, skill.ErrUnknownProficiency):
		return http.StatusUnprocessableEntity, "unknown_proficiency"

	case errors.Is(err, assessment.ErrBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, assessment.ErrSuperseded):
		return http.StatusConflict, "superseded"
	case errors.Is(err, assessment.ErrAnswerLocked):
		return http.StatusConflict, "answer_locked"
	case errors.Is(err, assessment.ErrNotReady):
		return http.StatusConflict, "not_ready"
	case errors.Is(err, assessment.ErrScoringStarted):
		return http.StatusConflict, "scoring_started"
	case errors.Is(err, assessment.ErrAlreadyScored):
		return http.StatusConflict, "already_scored"

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, questionbank.ErrGenerationFailed):
		return http.StatusBadGateway, "generation_failed"
	case errors.Is(err, assessment.ErrGradingFailed):
		return http.StatusBadGateway, "grading_failed"
	}
	return http.StatusInternalServerError, "internal"
}

// fail writes err with its mapped status. A non-nil session is attached to
// gateway failures so clients can render the recoverable state.
func fail(c *gin.Context, err error, s *assessment.Session) {
	status, code := statusFor(err)
	_ = c.Error(err)
	var snap *assessment.Snapshot
	if s != nil {
		v := s.Snapshot()
		snap = &v
		if v.GenerationFailed && status == http.StatusInternalServerError {
			status, code = http.StatusBadGateway, "generation_failed"
		}
	}
	env := ErrorEnvelope{Error: apiError(code, err)}
	if status == http.StatusBadGateway {
		env.Session = snap
	}
	c.JSON(status, env)
}
