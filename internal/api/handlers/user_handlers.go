package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prodledger/prodledger/internal/api/dto"
	"github.com/prodledger/prodledger/internal/application"
	"github.com/prodledger/prodledger/internal/domain"
	"github.com/prodledger/prodledger/internal/platform/logging"
	"github.com/prodledger/prodledger/internal/platform/middleware"
)

// CreateUser registers an account. Admin only.
func CreateUser(service *application.UserService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreateUserRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			middleware.AbortWithAppError(c, appErr)
			return
		}

		user, err := service.Create(c.Request.Context(), application.CreateUserCommand{
			Principal:    principalFrom(c),
			Name:         req.Name,
			Email:        req.Email,
			Mobile:       req.Mobile,
			Password:     req.Password,
			Role:         domain.Role(req.Role),
			PricePerUnit: req.PricePerUnit,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, dto.FromUser(user))
	}
}

func updateUserCommand(c *gin.Context, req dto.UpdateUserRequest, userID string) application.UpdateUserCommand {
	cmd := application.UpdateUserCommand{
		Principal:    principalFrom(c),
		UserID:       userID,
		Name:         req.Name,
		Mobile:       req.Mobile,
		Password:     req.Password,
		PricePerUnit: req.PricePerUnit,
		Active:       req.Active,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		cmd.Role = &role
	}
	return cmd
}

// UpdateUser changes account fields. Admin only.
func UpdateUser(service *application.UserService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpdateUserRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			middleware.AbortWithAppError(c, appErr)
			return
		}

		user, err := service.Update(c.Request.Context(), updateUserCommand(c, req, c.Param("id")))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, dto.FromUser(user))
	}
}

// DeleteUser removes an account. Admin only.
func DeleteUser(service *application.UserService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := service.Delete(c.Request.Context(), principalFrom(c), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
	}
}

// GetUser returns one account by ID
func GetUser(service *application.UserService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := service.GetByID(c.Request.Context(), principalFrom(c), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, dto.FromUser(user))
	}
}

// ListUsers returns every account. Admin only.
func ListUsers(service *application.UserService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := service.ListAll(c.Request.Context(), principalFrom(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, dto.FromUsers(users))
	}
}

// GetProfile returns the caller's own account
func GetProfile(service *application.UserService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := principalFrom(c)

		user, err := service.GetByID(c.Request.Context(), principal, principal.UserID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, dto.FromUser(user))
	}
}

// UpdateProfile changes the caller's own name, mobile or password
func UpdateProfile(service *application.UserService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpdateUserRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			middleware.AbortWithAppError(c, appErr)
			return
		}

		principal := principalFrom(c)

		user, err := service.Update(c.Request.Context(), updateUserCommand(c, req, principal.UserID))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, dto.FromUser(user))
	}
}
