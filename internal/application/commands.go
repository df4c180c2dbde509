package application

import "github.com/prodledger/prodledger/internal/domain"

// ShipmentItemInput is one requested line of a shipment. The product
// name and unit price are resolved by the service, never trusted from
// the caller.
type ShipmentItemInput struct {
	ProductID string
	Quantity  int
}

// CreateShipmentCommand creates a new pending shipment for the caller
type CreateShipmentCommand struct {
	Principal domain.Principal
	Items     []ShipmentItemInput
}

// EditShipmentCommand replaces the contents of a pending shipment
type EditShipmentCommand struct {
	Principal  domain.Principal
	ShipmentID string
	Items      []ShipmentItemInput
}

// TransitionShipmentCommand updates the receipt and/or payment status
// of a shipment. Nil fields are left untouched.
type TransitionShipmentCommand struct {
	Principal     domain.Principal
	ShipmentID    string
	Status        *domain.ShipmentStatus
	PaymentStatus *domain.PaymentStatus
}

// CreateProductCommand registers a product for the caller
type CreateProductCommand struct {
	Principal domain.Principal
	Name      string
	Brand     string
	Stock     int
	ImageData []byte
	ImageName string
}

// UpdateProductCommand changes product fields. Nil fields are left
// untouched; a non-empty ImageData replaces the stored image.
type UpdateProductCommand struct {
	Principal domain.Principal
	ProductID string
	Name      *string
	Brand     *string
	Stock     *int
	ImageData []byte
	ImageName string
}

// CreateUserCommand registers a new account
type CreateUserCommand struct {
	Principal    domain.Principal
	Name         string
	Email        string
	Mobile       string
	Password     string
	Role         domain.Role
	PricePerUnit float64
}

// UpdateUserCommand changes account fields. Nil fields are left
// untouched. Role, rate and active flag may only be changed by admins.
type UpdateUserCommand struct {
	Principal    domain.Principal
	UserID       string
	Name         *string
	Mobile       *string
	Password     *string
	Role         *domain.Role
	PricePerUnit *float64
	Active       *bool
}
