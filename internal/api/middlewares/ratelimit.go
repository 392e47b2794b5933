package middlewares

import (
	"math"
	"strconv"

	"catalog-service/internal/api/models"
	"catalog-service/internal/ratelimit"
	"catalog-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RateLimit limits requests per client IP. Limiter failures let the request
// through.
func RateLimit(limiter ratelimit.Limiter, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		res, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			logger.GetLoggerFromContext(c, log).
				WithError(err).
				WithField("client_ip", ip).
				Warning("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			retryAfter := int(math.Ceil(res.ResetAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(models.ErrRateLimited.StatusCode, models.ErrRateLimited.Response())
			return
		}

		c.Next()
	}
}
