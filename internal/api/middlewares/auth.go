package middlewares

import (
	"errors"

	"catalog-service/internal/api/interfaces"
	"catalog-service/internal/api/models"
	"catalog-service/internal/auth"
	"catalog-service/internal/errs"
	"catalog-service/internal/metrics"
	"catalog-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthRequired
const (
	ContextUserID    = "user_id"
	ContextUsername  = "username"
	ContextClaims    = "claims"
	ContextRefreshed = "token_refreshed"
)

// AuthRequired admits requests through the auth gate. When the access token
// was re-issued from the refresh token the new one is returned in the
// X-Access-Token response header.
func AuthRequired(services interfaces.Services) gin.HandlerFunc {
	gate := services.AuthGate()
	m := services.GetMetrics()

	return func(c *gin.Context) {
		admission, err := gate.Admit(
			c.GetHeader(auth.AuthorizationHeader),
			c.GetHeader(auth.RefreshTokenHeader),
		)
		if err != nil {
			log := logger.GetLoggerFromContext(c, services.GetLogger())
			if errors.Is(err, errs.ErrUnauthenticated) {
				m.ObserveAuth(metrics.OutcomeUnauthenticated)
			} else {
				m.ObserveAuth(metrics.OutcomeForbidden)
				log.SecurityLogger("token_rejected", "", c.ClientIP(), err.Error())
			}

			apiErr := models.FromError(err)
			c.AbortWithStatusJSON(apiErr.StatusCode, apiErr.Response())
			return
		}

		claims := admission.Claims
		if admission.Refreshed {
			m.ObserveAuth(metrics.OutcomeRefreshed)
			c.Header(auth.NewAccessTokenHeader, admission.NewAccessToken)
			logger.GetLoggerFromContext(c, services.GetLogger()).
				WithField("user_id", claims.UserID()).
				Debug("Access token refreshed")
		} else {
			m.ObserveAuth(metrics.OutcomeAccess)
		}

		// Set user context from validated claims
		c.Set(ContextUserID, claims.UserID())
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextClaims, claims)
		c.Set(ContextRefreshed, admission.Refreshed)

		c.Next()
	}
}
