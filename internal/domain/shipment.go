package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShipmentStatus tracks whether the admin has received the goods
type ShipmentStatus string

const (
	StatusPending  ShipmentStatus = "pending"
	StatusReceived ShipmentStatus = "received"
	StatusRejected ShipmentStatus = "rejected"
)

// IsValid checks whether the status is a known one
func (s ShipmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusReceived, StatusRejected:
		return true
	}
	return false
}

// PaymentStatus tracks whether the sender has been paid for a shipment
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// IsValid checks whether the payment status is a known one
func (s PaymentStatus) IsValid() bool {
	return s == PaymentUnpaid || s == PaymentPaid
}

// ShipmentItem is a line in a shipment. UnitPrice is frozen from the
// sender's rate at the time the shipment is created or edited.
type ShipmentItem struct {
	ProductID   string  `bson:"productId" json:"productId"`
	ProductName string  `bson:"productName" json:"productName"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	UnitPrice   float64 `bson:"unitPrice" json:"unitPrice"`
}

// Shipment is a batch of products a production user sends in for
// reconciliation. Totals are derived from the items and never stored
// independently of them.
type Shipment struct {
	ID            string         `bson:"_id" json:"id"`
	SenderID      string         `bson:"senderId" json:"senderId"`
	Items         []ShipmentItem `bson:"items" json:"items"`
	TotalQuantity int            `bson:"totalQuantity" json:"totalQuantity"`
	TotalPrice    float64        `bson:"totalPrice" json:"totalPrice"`
	Status        ShipmentStatus `bson:"status" json:"status"`
	PaymentStatus PaymentStatus  `bson:"paymentStatus" json:"paymentStatus"`
	ShippedAt     time.Time      `bson:"shippedAt" json:"shippedAt"`
	ReceivedAt    *time.Time     `bson:"receivedAt,omitempty" json:"receivedAt,omitempty"`
	PaidAt        *time.Time     `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	CreatedAt     time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time      `bson:"updatedAt" json:"updatedAt"`

	uncommittedEvents []DomainEvent `bson:"-" json:"-"`
}

// NewShipment creates a pending shipment. Every item's unit price is
// set to the sender's current rate.
func NewShipment(senderID string, items []ShipmentItem, pricePerUnit float64) (*Shipment, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	s := &Shipment{
		ID:            primitive.NewObjectID().Hex(),
		SenderID:      senderID,
		Items:         priceItems(items, pricePerUnit),
		Status:        StatusPending,
		PaymentStatus: PaymentUnpaid,
		ShippedAt:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.recomputeTotals()

	s.addEvent(&ShipmentCreatedEvent{
		ShipmentID:    s.ID,
		SenderID:      s.SenderID,
		TotalQuantity: s.TotalQuantity,
		TotalPrice:    s.TotalPrice,
		OccurredAt:    now,
	})

	return s, nil
}

// ReplaceItems swaps the shipment's contents for a new item list and
// reprices every line at the sender's current rate. Only pending
// shipments can be edited.
func (s *Shipment) ReplaceItems(items []ShipmentItem, pricePerUnit float64) error {
	if s.Status != StatusPending {
		return ErrShipmentNotPending
	}
	if err := validateItems(items); err != nil {
		return err
	}

	s.Items = priceItems(items, pricePerUnit)
	s.recomputeTotals()
	s.UpdatedAt = time.Now().UTC()

	s.addEvent(&ShipmentEditedEvent{
		ShipmentID:    s.ID,
		SenderID:      s.SenderID,
		TotalQuantity: s.TotalQuantity,
		TotalPrice:    s.TotalPrice,
		OccurredAt:    s.UpdatedAt,
	})

	return nil
}

// SetStatus moves the shipment to a new receipt status. Any valid
// status can be set from any other; moving to received stamps the
// receipt time.
func (s *Shipment) SetStatus(status ShipmentStatus) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}

	previous := s.Status
	s.Status = status
	s.UpdatedAt = time.Now().UTC()

	if status == StatusReceived && s.ReceivedAt == nil {
		t := s.UpdatedAt
		s.ReceivedAt = &t
	}

	s.addEvent(&ShipmentStatusChangedEvent{
		ShipmentID: s.ID,
		SenderID:   s.SenderID,
		Field:      "status",
		Previous:   string(previous),
		Current:    string(status),
		OccurredAt: s.UpdatedAt,
	})

	return nil
}

// SetPaymentStatus moves the shipment to a new payment status. Moving
// to paid stamps the payment time.
func (s *Shipment) SetPaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return ErrInvalidPaymentStatus
	}

	previous := s.PaymentStatus
	s.PaymentStatus = status
	s.UpdatedAt = time.Now().UTC()

	if status == PaymentPaid && s.PaidAt == nil {
		t := s.UpdatedAt
		s.PaidAt = &t
	}

	s.addEvent(&ShipmentStatusChangedEvent{
		ShipmentID: s.ID,
		SenderID:   s.SenderID,
		Field:      "paymentStatus",
		Previous:   string(previous),
		Current:    string(status),
		OccurredAt: s.UpdatedAt,
	})

	return nil
}

// CanBeViewedBy reports whether the principal may read this shipment
func (s *Shipment) CanBeViewedBy(p Principal) bool {
	return p.IsAdmin() || s.SenderID == p.UserID
}

// CanBeEditedBy reports whether the principal may change this
// shipment's contents
func (s *Shipment) CanBeEditedBy(p Principal) bool {
	return p.IsAdmin() || s.SenderID == p.UserID
}

// Events returns the uncommitted domain events
func (s *Shipment) Events() []DomainEvent {
	return s.uncommittedEvents
}

// ClearEvents drops the uncommitted events after they are published
func (s *Shipment) ClearEvents() {
	s.uncommittedEvents = nil
}

func (s *Shipment) addEvent(event DomainEvent) {
	s.uncommittedEvents = append(s.uncommittedEvents, event)
}

func (s *Shipment) recomputeTotals() {
	quantity := 0
	price := 0.0
	for _, item := range s.Items {
		quantity += item.Quantity
		price += float64(item.Quantity) * item.UnitPrice
	}
	s.TotalQuantity = quantity
	s.TotalPrice = price
}

func validateItems(items []ShipmentItem) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

func priceItems(items []ShipmentItem, pricePerUnit float64) []ShipmentItem {
	priced := make([]ShipmentItem, len(items))
	for i, item := range items {
		item.UnitPrice = pricePerUnit
		priced[i] = item
	}
	return priced
}
