package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/skillcheck/internal/skill"
)

type HealthHandler struct {
	check func(ctx context.Context) error
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.check != nil {
		if err := h.check(c.Request.Context()); err != nil {
			c.String(http.StatusServiceUnavailable, "unhealthy: %v", err)
			return
		}
	}
	c.String(http.StatusOK, "ok")
}

type CatalogHandler struct {
	catalog  skill.Catalog
	attempts AttemptLister
}

// GET /v1/skills
func (h *CatalogHandler) ListSkills(c *gin.Context) {
	skills, err := h.catalog.All(c.Request.Context())
	if err != nil {
		fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": skills})
}

const maxAttemptsLimit = 200

var errBadLimit = errors.New("limit must be a positive integer")

// GET /v1/attempts?skill_id=&limit=
func (h *CatalogHandler) ListAttempts(c *gin.Context) {
	if h.attempts == nil {
		c.JSON(http.StatusOK, gin.H{"attempts": []any{}})
		return
	}
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(c, http.StatusBadRequest, "invalid_request", errBadLimit)
			return
		}
		limit = min(n, maxAttemptsLimit)
	}
	attempts, err := h.attempts(c.Request.Context(), learnerID(c), c.Query("skill_id"), limit)
	if err != nil {
		fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}
