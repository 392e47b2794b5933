package handlers

import (
	"errors"
	"net/http"

	"catalog-service/internal/api/interfaces"
	"catalog-service/internal/api/models"
	"catalog-service/internal/auth"
	"catalog-service/internal/errs"

	"github.com/gin-gonic/gin"
)

// Register creates a new account
func Register(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterRequest
		if err := bindJSON(c, &req); err != nil {
			respondError(c, services.GetLogger(), err, "")
			return
		}

		if _, err := services.AccountService().Register(c.Request.Context(), req.Username, req.Password); err != nil {
			respondError(c, services.GetLogger(), err, "Error registering user")
			return
		}

		c.JSON(http.StatusCreated, models.MessageResponse{Message: "User registered successfully"})
	}
}

// Login exchanges credentials for an access and refresh token
func Login(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := bindJSON(c, &req); err != nil {
			respondError(c, services.GetLogger(), err, "")
			return
		}

		pair, err := services.AccountService().Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, errs.ErrInvalidCredentials) {
				services.GetLogger().SecurityLogger("login_failed", req.Username, c.ClientIP(), "invalid credentials")
			}
			respondError(c, services.GetLogger(), err, "Error logging in")
			return
		}

		c.JSON(http.StatusOK, models.LoginResponse{
			Token:        pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		})
	}
}

// RefreshToken issues a new access token for the Refresh-Token header
func RefreshToken(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _, err := services.AccountService().Refresh(c.Request.Context(), c.GetHeader(auth.RefreshTokenHeader))
		if err != nil {
			if errors.Is(err, errs.ErrForbidden) {
				services.GetLogger().SecurityLogger("refresh_rejected", "", c.ClientIP(), err.Error())
			}
			respondError(c, services.GetLogger(), err, "Error refreshing token")
			return
		}

		c.JSON(http.StatusOK, models.TokenResponse{Token: token})
	}
}
