package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Check reports whether one backing service is usable.
type Check = func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Check
	log    *logrus.Logger
}

func NewHealthHandler(checks map[string]Check, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, log: logger}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	result := gin.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.log.Warnf("Health: %s check failed: %v", name, err)
			result[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		result[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{"status": overall, "checks": result, "time": time.Now().UTC().Format(time.RFC3339)})
}
