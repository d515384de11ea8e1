// Package api exposes assessment sessions over HTTP.
package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/logger"
	"github.com/abhisek/skillcheck/internal/registry"
	"github.com/abhisek/skillcheck/internal/scoring"
	"github.com/abhisek/skillcheck/internal/skill"
)

// SessionFactory builds an unstarted session for a learner.
type SessionFactory func(learnerID string, sk skill.Skill, p skill.Proficiency, adaptive bool) (*assessment.Session, error)

// AttemptLister returns a learner's attempts, newest first. An empty
// skillID lists every skill.
type AttemptLister func(ctx context.Context, learnerID, skillID string, limit int) ([]scoring.Attempt, error)

// Deps holds everything the router serves from. Attempts and Health are
// optional.
type Deps struct {
	Catalog    skill.Catalog
	Registry   *registry.Registry
	NewSession SessionFactory
	Attempts   AttemptLister
	Health     func(ctx context.Context) error
	Logger     *logger.Logger

	// AllowOrigins configures CORS. Empty uses the local dev origins.
	AllowOrigins []string
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(d.Logger))
	r.Use(CORS(d.AllowOrigins))

	health := &HealthHandler{check: d.Health}
	r.GET("/healthz", health.HealthCheck)

	v1 := r.Group("/v1")
	v1.Use(RequireLearner())
	{
		catalog := &CatalogHandler{catalog: d.Catalog, attempts: d.Attempts}
		v1.GET("/skills", catalog.ListSkills)
		v1.GET("/attempts", catalog.ListAttempts)

		h := &AssessmentHandler{
			catalog:    d.Catalog,
			registry:   d.Registry,
			newSession: d.NewSession,
			log:        d.Logger,
		}
		v1.POST("/assessments", h.Create)
		v1.GET("/assessments/:id", h.Get)
		v1.DELETE("/assessments/:id", h.Delete)
		v1.POST("/assessments/:id/start", h.Start)
		v1.POST("/assessments/:id/answer", h.Answer)
		v1.POST("/assessments/:id/submit-answer", h.SubmitAnswer)
		v1.POST("/assessments/:id/next", h.Next)
		v1.POST("/assessments/:id/previous", h.Previous)
		v1.POST("/assessments/:id/submit", h.Submit)
		v1.POST("/assessments/:id/retry", h.Retry)
		v1.POST("/assessments/:id/proficiency", h.ChangeProficiency)
		v1.POST("/assessments/:id/adaptive", h.ToggleAdaptive)
		v1.POST("/assessments/:id/completion/retry", h.RetryCompletion)
	}
	return r
}
