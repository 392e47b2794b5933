package middlewares

import (
	"fmt"
	"net/http"

	"catalog-service/internal/api/models"
	"catalog-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery middleware recovers from panics
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.GetLoggerFromContext(c, log).
			WithField("panic", fmt.Sprint(recovered)).
			WithField("path", c.Request.URL.Path).
			Error("Recovered from panic")

		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrInternalServer.Response())
	})
}
