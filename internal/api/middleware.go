package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/skillcheck/internal/logger"
)

// LearnerHeader identifies the learner on every /v1 request.
const LearnerHeader = "X-Learner-ID"

const learnerKey = "learner_id"

var errMissingLearner = errors.New(LearnerHeader + " header is required")

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = defaultOrigins
	}
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", LearnerHeader},
		MaxAge:       12 * time.Hour,
	})
}

// RequireLearner rejects requests without a learner header.
func RequireLearner() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(LearnerHeader))
		if id == "" {
			respondError(c, http.StatusBadRequest, "missing_learner", errMissingLearner)
			c.Abort()
			return
		}
		c.Set(learnerKey, id)
		c.Next()
	}
}

func learnerID(c *gin.Context) string {
	return c.GetString(learnerKey)
}

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if id := learnerID(c); id != "" {
			fields = append(fields, "learner_id", id)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
