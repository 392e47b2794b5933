package handlers

import (
	"context"
	"net/http"
	"time"

	"catalog-service/internal/api/interfaces"
	"catalog-service/internal/api/models"
	"catalog-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	version            = "1.0.0"
	healthCheckTimeout = 2 * time.Second
)

// HealthCheck reports the status of the service and its backing stores
func HealthCheck(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		resp := models.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().Unix(),
			Version:   version,
			Checks:    make(map[string]string),
		}
		status := http.StatusOK

		for name, err := range services.HealthChecks(ctx) {
			if err != nil {
				logger.GetLoggerFromContext(c, services.GetLogger()).
					WithError(err).
					WithField("check", name).
					Warning("Health check failed")
				resp.Checks[name] = "unhealthy"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "healthy"
		}

		c.JSON(status, resp)
	}
}

// Metrics exposes Prometheus metrics
func Metrics(services interfaces.Services) gin.HandlerFunc {
	return gin.WrapH(services.GetMetrics().Handler())
}
