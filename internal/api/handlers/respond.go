package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/prodledger/prodledger/internal/domain"
	apperrors "github.com/prodledger/prodledger/internal/platform/errors"
	"github.com/prodledger/prodledger/internal/platform/logging"
	"github.com/prodledger/prodledger/internal/platform/middleware"
)

// principalFrom builds the caller identity from the claims the auth
// middleware stored on the request
func principalFrom(c *gin.Context) domain.Principal {
	return domain.Principal{
		UserID: middleware.GetUserID(c),
		Role:   domain.Role(middleware.GetUserRole(c)),
	}
}

// toAppError translates domain errors into API errors with the right
// status code
func toAppError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, domain.ErrNoItems),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPaymentStatus),
		errors.Is(err, domain.ErrInvalidPeriod):
		return apperrors.ErrValidation(err.Error())
	case errors.Is(err, domain.ErrShipmentNotFound):
		return apperrors.ErrNotFound("shipment")
	case errors.Is(err, domain.ErrProductNotFound):
		return apperrors.ErrNotFound("product")
	case errors.Is(err, domain.ErrUserNotFound):
		return apperrors.ErrNotFound("user")
	case errors.Is(err, domain.ErrNotAuthorized),
		errors.Is(err, domain.ErrUserInactive):
		return apperrors.ErrForbidden(err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		return apperrors.ErrUnauthorized(err.Error())
	case errors.Is(err, domain.ErrShipmentNotPending):
		return apperrors.ErrInvalidState(err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		return apperrors.ErrConflict(err.Error())
	}

	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	return apperrors.ErrInternal("internal server error")
}

// respondError writes a domain or internal error as a JSON error body
func respondError(c *gin.Context, logger *logging.Logger, err error) {
	responder := middleware.NewErrorResponder(c, logger.Logger)
	responder.RespondWithAppError(toAppError(err))
}
