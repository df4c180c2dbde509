package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prodledger/prodledger/internal/api/dto"
	"github.com/prodledger/prodledger/internal/application"
	"github.com/prodledger/prodledger/internal/platform/logging"
	"github.com/prodledger/prodledger/internal/platform/middleware"
)

// Login exchanges credentials for an access token
func Login(service *application.AuthService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.LoginRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			middleware.AbortWithAppError(c, appErr)
			return
		}

		token, user, err := service.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, dto.LoginResponse{
			Token: token,
			User:  dto.FromUser(user),
		})
	}
}

// ResetPassword sets a new password after verifying the registered
// mobile number
func ResetPassword(service *application.AuthService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ResetPasswordRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			middleware.AbortWithAppError(c, appErr)
			return
		}

		err := service.ResetPassword(c.Request.Context(), req.Email, req.Mobile, req.NewPassword)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
	}
}
