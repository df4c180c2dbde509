package dto

import (
	"time"

	"github.com/prodledger/prodledger/internal/domain"
)

// UserResponse is the public view of an account
type UserResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile"`
	Role         string    `json:"role"`
	PricePerUnit float64   `json:"pricePerUnit"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// LoginResponse carries the access token and the authenticated user
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// MediaAssetResponse is a stored image reference
type MediaAssetResponse struct {
	URL        string `json:"url"`
	ExternalID string `json:"externalId"`
}

// ProductResponse is the public view of a product
type ProductResponse struct {
	ID        string              `json:"id"`
	OwnerID   string              `json:"ownerId"`
	Name      string              `json:"name"`
	Brand     string              `json:"brand,omitempty"`
	Stock     int                 `json:"stock"`
	Image     *MediaAssetResponse `json:"image,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// ShipmentItemResponse is one line of a shipment
type ShipmentItemResponse struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// ShipmentResponse is the public view of a shipment
type ShipmentResponse struct {
	ID            string                 `json:"id"`
	SenderID      string                 `json:"senderId"`
	Items         []ShipmentItemResponse `json:"items"`
	TotalQuantity int                    `json:"totalQuantity"`
	TotalPrice    float64                `json:"totalPrice"`
	Status        string                 `json:"status"`
	PaymentStatus string                 `json:"paymentStatus"`
	ShippedAt     time.Time              `json:"shippedAt"`
	ReceivedAt    *time.Time             `json:"receivedAt,omitempty"`
	PaidAt        *time.Time             `json:"paidAt,omitempty"`
}

// SenderTotalResponse is one row of the per-sender report
type SenderTotalResponse struct {
	SenderID      string  `json:"senderId"`
	SenderName    string  `json:"senderName"`
	SenderEmail   string  `json:"senderEmail"`
	ShipmentCount int     `json:"shipmentCount"`
	TotalQuantity int     `json:"totalQuantity"`
	TotalPrice    float64 `json:"totalPrice"`
	UnpaidPrice   float64 `json:"unpaidPrice"`
}

// WeeklyBucketResponse is one day of the weekly production report
type WeeklyBucketResponse struct {
	DayOfWeek     int     `json:"dayOfWeek"`
	Day           string  `json:"day"`
	ShipmentCount int     `json:"shipmentCount"`
	TotalQuantity int     `json:"totalQuantity"`
	TotalPrice    float64 `json:"totalPrice"`
}

var dayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// FromUser maps a domain user to its response form
func FromUser(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Mobile:       user.Mobile,
		Role:         string(user.Role),
		PricePerUnit: user.PricePerUnit,
		Active:       user.Active,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

// FromUsers maps a slice of domain users
func FromUsers(users []*domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, user := range users {
		out[i] = FromUser(user)
	}
	return out
}

// FromProduct maps a domain product to its response form
func FromProduct(product *domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:        product.ID,
		OwnerID:   product.OwnerID,
		Name:      product.Name,
		Brand:     product.Brand,
		Stock:     product.Stock,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
	if product.Image != nil {
		resp.Image = &MediaAssetResponse{
			URL:        product.Image.URL,
			ExternalID: product.Image.ExternalID,
		}
	}
	return resp
}

// FromProducts maps a slice of domain products
func FromProducts(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, product := range products {
		out[i] = FromProduct(product)
	}
	return out
}

// FromShipment maps a domain shipment to its response form
func FromShipment(shipment *domain.Shipment) ShipmentResponse {
	items := make([]ShipmentItemResponse, len(shipment.Items))
	for i, item := range shipment.Items {
		items[i] = ShipmentItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	return ShipmentResponse{
		ID:            shipment.ID,
		SenderID:      shipment.SenderID,
		Items:         items,
		TotalQuantity: shipment.TotalQuantity,
		TotalPrice:    shipment.TotalPrice,
		Status:        string(shipment.Status),
		PaymentStatus: string(shipment.PaymentStatus),
		ShippedAt:     shipment.ShippedAt,
		ReceivedAt:    shipment.ReceivedAt,
		PaidAt:        shipment.PaidAt,
	}
}

// FromShipments maps a slice of domain shipments
func FromShipments(shipments []*domain.Shipment) []ShipmentResponse {
	out := make([]ShipmentResponse, len(shipments))
	for i, shipment := range shipments {
		out[i] = FromShipment(shipment)
	}
	return out
}

// FromSenderTotals maps report rows
func FromSenderTotals(totals []domain.SenderTotal) []SenderTotalResponse {
	out := make([]SenderTotalResponse, len(totals))
	for i, row := range totals {
		out[i] = SenderTotalResponse{
			SenderID:      row.SenderID,
			SenderName:    row.SenderName,
			SenderEmail:   row.SenderEmail,
			ShipmentCount: row.ShipmentCount,
			TotalQuantity: row.TotalQuantity,
			TotalPrice:    row.TotalPrice,
			UnpaidPrice:   row.UnpaidPrice,
		}
	}
	return out
}

// FromWeeklyBuckets maps weekly report rows, attaching the day name.
// DayOfWeek is 1 for Sunday through 7 for Saturday.
func FromWeeklyBuckets(buckets []domain.WeeklyBucket) []WeeklyBucketResponse {
	out := make([]WeeklyBucketResponse, len(buckets))
	for i, bucket := range buckets {
		day := ""
		if bucket.DayOfWeek >= 1 && bucket.DayOfWeek <= 7 {
			day = dayNames[bucket.DayOfWeek-1]
		}
		out[i] = WeeklyBucketResponse{
			DayOfWeek:     bucket.DayOfWeek,
			Day:           day,
			ShipmentCount: bucket.ShipmentCount,
			TotalQuantity: bucket.TotalQuantity,
			TotalPrice:    bucket.TotalPrice,
		}
	}
	return out
}
