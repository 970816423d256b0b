package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/datawizard/backend/internal/logger"
	"github.com/gin-gonic/gin"
)

// Pinger is anything whose reachability the health check reports.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	database Pinger
	cache    Pinger // nil when no cache is configured
}

func NewHealthController(database, cache Pinger) *HealthController {
	return &HealthController{database: database, cache: cache}
}

func (hc *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "healthy", "database": "ok"}

	if err := hc.database.Ping(ctx); err != nil {
		logger.WithError(err, "health").Warn("Database ping failed")
		status = http.StatusServiceUnavailable
		body["status"] = "unhealthy"
		body["database"] = "unreachable"
	}
	if hc.cache != nil {
		body["cache"] = "ok"
		if err := hc.cache.Ping(ctx); err != nil {
			logger.WithError(err, "health").Warn("Cache ping failed")
			body["cache"] = "unreachable"
		}
	}

	c.JSON(status, body)
}
