package handlers

import (
	"fmt"

	"catalog-service/internal/api/models"
	"catalog-service/internal/errs"
	"catalog-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// respondError writes the API error for err. internalMsg replaces the
// generic message on 5xx replies, which are also logged.
func respondError(c *gin.Context, log *logger.Logger, err error, internalMsg string) {
	apiErr := models.FromError(err)
	if apiErr.StatusCode >= 500 {
		logger.GetLoggerFromContext(c, log).
			WithError(err).
			WithField("reply", internalMsg).
			Error("Request failed")
		if internalMsg != "" {
			apiErr = apiErr.WithMessage(internalMsg)
		}
	}
	c.AbortWithStatusJSON(apiErr.StatusCode, apiErr.Response())
}

// bindJSON decodes and validates the request body into req.
func bindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}
	return nil
}
