package dto

// LoginRequest carries the credentials for token issuance
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ResetPasswordRequest proves account ownership with the registered
// mobile number and sets a new password
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Mobile      string `json:"mobile" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// ShipmentItemRequest is one requested shipment line
type ShipmentItemRequest struct {
	ProductID string `json:"productId" binding:"required,objectid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// CreateShipmentRequest creates a new pending shipment
type CreateShipmentRequest struct {
	Items []ShipmentItemRequest `json:"items" binding:"required,min=1,dive"`
}

// EditShipmentRequest replaces the contents of a pending shipment
type EditShipmentRequest struct {
	Items []ShipmentItemRequest `json:"items" binding:"required,min=1,dive"`
}

// TransitionShipmentRequest updates receipt and/or payment status.
// Omitted fields are left untouched.
type TransitionShipmentRequest struct {
	Status        *string `json:"status" binding:"omitempty,shipment_status"`
	PaymentStatus *string `json:"paymentStatus" binding:"omitempty,payment_status"`
}

// CreateProductRequest registers a product. Sent as multipart form data
// so an image file can ride along.
type CreateProductRequest struct {
	Name  string `form:"name" binding:"required"`
	Brand string `form:"brand"`
	Stock int    `form:"stock" binding:"gte=0"`
}

// UpdateProductRequest changes product fields. Omitted fields are left
// untouched.
type UpdateProductRequest struct {
	Name  *string `form:"name"`
	Brand *string `form:"brand"`
	Stock *int    `form:"stock" binding:"omitempty,gte=0"`
}

// CreateUserRequest registers an account
type CreateUserRequest struct {
	Name         string  `json:"name" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	Mobile       string  `json:"mobile" binding:"required"`
	Password     string  `json:"password" binding:"required,min=6"`
	Role         string  `json:"role" binding:"required,user_role"`
	PricePerUnit float64 `json:"pricePerUnit" binding:"gte=0"`
}

// UpdateUserRequest changes account fields. Omitted fields are left
// untouched.
type UpdateUserRequest struct {
	Name         *string  `json:"name"`
	Mobile       *string  `json:"mobile"`
	Password     *string  `json:"password" binding:"omitempty,min=6"`
	Role         *string  `json:"role" binding:"omitempty,user_role"`
	PricePerUnit *float64 `json:"pricePerUnit" binding:"omitempty,gte=0"`
	Active       *bool    `json:"active"`
}

// ReportQuery selects the reconciliation report window
type ReportQuery struct {
	Period string `form:"period" binding:"omitempty,report_period"`
}
