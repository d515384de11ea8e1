package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/logger"
	"github.com/abhisek/skillcheck/internal/registry"
	"github.com/abhisek/skillcheck/internal/skill"
)

type AssessmentHandler struct {
	catalog    skill.Catalog
	registry   *registry.Registry
	newSession SessionFactory
	log        *logger.Logger
}

type createRequest struct {
	SkillID     string `json:"skill_id" binding:"required"`
	Proficiency string `json:"proficiency" binding:"required"`
	Adaptive    bool   `json:"adaptive"`
}

type answerRequest struct {
	Values []string `json:"values"`
}

type proficiencyRequest struct {
	Proficiency string `json:"proficiency" binding:"required"`
}

// POST /v1/assessments
func (h *AssessmentHandler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p, err := skill.ParseProficiency(req.Proficiency)
	if err != nil {
		fail(c, err, nil)
		return
	}
	ctx := c.Request.Context()
	sk, err := h.catalog.Lookup(ctx, req.SkillID)
	if err != nil {
		fail(c, err, nil)
		return
	}

	s, err := h.newSession(learnerID(c), sk, p, req.Adaptive)
	if err != nil {
		fail(c, err, nil)
		return
	}
	if err := h.registry.Create(ctx, s); err != nil {
		fail(c, err, nil)
		return
	}
	// A failed generation keeps the session registered so the client can
	// call /start or /retry to recover.
	if err := s.Start(ctx); err != nil {
		fail(c, err, s)
		return
	}
	c.JSON(http.StatusCreated, s.Snapshot())
}

// session resolves :id for the calling learner, writing a 404 if missing.
func (h *AssessmentHandler) session(c *gin.Context) (*assessment.Session, bool) {
	s, err := h.registry.Get(c.Request.Context(), c.Param("id"), learnerID(c))
	if err != nil {
		fail(c, err, nil)
		return nil, false
	}
	return s, true
}

// GET /v1/assessments/:id
func (h *AssessmentHandler) Get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// DELETE /v1/assessments/:id
func (h *AssessmentHandler) Delete(c *gin.Context) {
	if err := h.registry.Delete(c.Request.Context(), c.Param("id"), learnerID(c)); err != nil {
		fail(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// run resolves the session, applies op and responds with the new snapshot.
func (h *AssessmentHandler) run(c *gin.Context, op func(s *assessment.Session) error) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := op(s); err != nil {
		fail(c, err, s)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

func (h *AssessmentHandler) Start(c *gin.Context) {
	h.run(c, func(s *assessment.Session) error { return s.Start(c.Request.Context()) })
}

func (h *AssessmentHandler) Answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	h.run(c, func(s *assessment.Session) error { return s.Answer(req.Values) })
}

func (h *AssessmentHandler) SubmitAnswer(c *gin.Context) {
	h.run(c, func(s *assessment.Session) error {
		_, err := s.SubmitAnswer(c.Request.Context())
		return err
	})
}

func (h *AssessmentHandler) Next(c *gin.Context) {
	h.run(c, func(s *assessment.Session) error { return s.Next(c.Request.Context()) })
}

func (h *AssessmentHandler) Previous(c *gin.Context) {
	h.run(c, func(s *assessment.Session) error { return s.Previous() })
}

func (h *AssessmentHandler) Submit(c *gin.Context) {
	h.run(c, func(s *assessment.Session) error {
		_, err := s.Submit(c.Request.Context())
		return err
	})
}

func (h *AssessmentHandler) Retry(c *gin.Context) {
	h.run(c, func(s *assessment.Session) error { return s.Retry(c.Request.Context()) })
}

func (h *AssessmentHandler) ChangeProficiency(c *gin.Context) {
	var req proficiencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p, err := skill.ParseProficiency(req.Proficiency)
	if err != nil {
		fail(c, fmt.Errorf("proficiency: %w", err), nil)
		return
	}
	h.run(c, func(s *assessment.Session) error { return s.ChangeProficiency(c.Request.Context(), p) })
}

func (h *AssessmentHandler) ToggleAdaptive(c *gin.Context) {
	h.run(c, func(s *assessment.Session) error {
		_, err := s.ToggleAdaptiveMode()
		return err
	})
}

func (h *AssessmentHandler) RetryCompletion(c *gin.Context) {
	h.run(c, func(s *assessment.Session) error {
		_, err := s.RetryCompletion(c.Request.Context())
		return err
	})
}
