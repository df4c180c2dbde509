package domain

import (
	"context"
	"time"
)

// UserRepository persists user accounts
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	Delete(ctx context.Context, id string) error
}

// ProductRepository persists products and their stock levels
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*Product, error)
	FindAll(ctx context.Context) ([]*Product, error)
	Delete(ctx context.Context, id string) error

	// ApplyStockDelta atomically adjusts a product's stock by delta,
	// which may be negative. Returns ErrProductNotFound when the
	// product does not exist.
	ApplyStockDelta(ctx context.Context, productID string, delta int) error
}

// ShipmentFilter narrows shipment report queries to a time window
type ShipmentFilter struct {
	Since time.Time
}

// SenderTotal is one row of the per-sender reconciliation report
type SenderTotal struct {
	SenderID      string  `bson:"_id" json:"senderId"`
	SenderName    string  `bson:"senderName" json:"senderName"`
	SenderEmail   string  `bson:"senderEmail" json:"senderEmail"`
	ShipmentCount int     `bson:"shipmentCount" json:"shipmentCount"`
	TotalQuantity int     `bson:"totalQuantity" json:"totalQuantity"`
	TotalPrice    float64 `bson:"totalPrice" json:"totalPrice"`
	UnpaidPrice   float64 `bson:"unpaidPrice" json:"unpaidPrice"`
}

// WeeklyBucket is one day of the weekly production report. DayOfWeek
// follows the MongoDB convention, 1 for Sunday through 7 for Saturday.
type WeeklyBucket struct {
	DayOfWeek     int     `bson:"_id" json:"dayOfWeek"`
	ShipmentCount int     `bson:"shipmentCount" json:"shipmentCount"`
	TotalQuantity int     `bson:"totalQuantity" json:"totalQuantity"`
	TotalPrice    float64 `bson:"totalPrice" json:"totalPrice"`
}

// ShipmentRepository persists shipments and runs reconciliation reports
type ShipmentRepository interface {
	Save(ctx context.Context, shipment *Shipment) error
	FindByID(ctx context.Context, id string) (*Shipment, error)
	FindBySender(ctx context.Context, senderID string) ([]*Shipment, error)
	FindAll(ctx context.Context) ([]*Shipment, error)

	// SenderTotals groups shipments by sender within the filter window
	// and joins the sender's account details.
	SenderTotals(ctx context.Context, filter ShipmentFilter) ([]SenderTotal, error)

	// WeeklyProduction buckets the last seven days of shipments by day
	// of week.
	WeeklyProduction(ctx context.Context) ([]WeeklyBucket, error)
}

// UnitOfWork runs a function inside a single storage transaction. The
// context passed to fn must be used for every repository call made
// within it.
type UnitOfWork interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier publishes domain events to the admin notification channel.
// Publishing is best effort; a failed publish never fails the
// operation that produced the event.
type Notifier interface {
	Publish(ctx context.Context, event DomainEvent)
	Close() error
}

// MediaStore uploads and removes product images in an external service
type MediaStore interface {
	Store(ctx context.Context, data []byte, filename string) (*MediaAsset, error)
	Delete(ctx context.Context, externalID string) error
}
