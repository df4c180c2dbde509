package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prodledger/prodledger/internal/domain"
	apperrors "github.com/prodledger/prodledger/internal/platform/errors"
)

func TestToAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{
			name:       "no items is a validation error",
			err:        domain.ErrNoItems,
			wantCode:   apperrors.CodeValidationError,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid quantity is a validation error",
			err:        domain.ErrInvalidQuantity,
			wantCode:   apperrors.CodeValidationError,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown report period is a validation error",
			err:        domain.ErrInvalidPeriod,
			wantCode:   apperrors.CodeValidationError,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing shipment maps to 404",
			err:        domain.ErrShipmentNotFound,
			wantCode:   apperrors.CodeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "missing product maps to 404",
			err:        domain.ErrProductNotFound,
			wantCode:   apperrors.CodeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "missing user maps to 404",
			err:        domain.ErrUserNotFound,
			wantCode:   apperrors.CodeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "authorization failure maps to 403",
			err:        domain.ErrNotAuthorized,
			wantCode:   apperrors.CodeForbidden,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "inactive account maps to 403",
			err:        domain.ErrUserInactive,
			wantCode:   apperrors.CodeForbidden,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "bad credentials map to 401",
			err:        domain.ErrInvalidCredentials,
			wantCode:   apperrors.CodeUnauthorized,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "editing a settled shipment maps to 409",
			err:        domain.ErrShipmentNotPending,
			wantCode:   apperrors.CodeInvalidState,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "duplicate email maps to 409",
			err:        domain.ErrEmailTaken,
			wantCode:   apperrors.CodeConflict,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "wrapped domain errors unwrap",
			err:        fmt.Errorf("loading shipment: %w", domain.ErrShipmentNotFound),
			wantCode:   apperrors.CodeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown errors stay internal",
			err:        errors.New("connection reset"),
			wantCode:   apperrors.CodeInternalError,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := toAppError(tt.err)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantStatus, appErr.HTTPStatus)
		})
	}
}

func TestToAppErrorPassesThroughAppErrors(t *testing.T) {
	original := apperrors.ErrBadRequest("malformed payload")

	appErr := toAppError(original)

	assert.Same(t, original, appErr)
}

func TestToAppErrorHidesInternalDetail(t *testing.T) {
	appErr := toAppError(errors.New("dial tcp 10.0.0.5:27017: i/o timeout"))

	assert.NotContains(t, appErr.Message, "27017")
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
}
