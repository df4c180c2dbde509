package domain

import "errors"

// Domain errors returned by aggregates and services. The API layer maps
// these onto HTTP status codes.
var (
	ErrNoItems              = errors.New("shipment must contain at least one item")
	ErrInvalidQuantity      = errors.New("item quantity must be greater than zero")
	ErrShipmentNotFound     = errors.New("shipment not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotAuthorized        = errors.New("not authorized to access this resource")
	ErrShipmentNotPending   = errors.New("shipment is no longer pending")
	ErrInvalidStatus        = errors.New("invalid shipment status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidPeriod        = errors.New("invalid report period")
	ErrEmailTaken           = errors.New("email is already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserInactive         = errors.New("user account is deactivated")
)
