package domain

import "time"

// DomainEvent is raised by an aggregate when something notable happens.
// Events feed the admin notification channel; delivery is best effort.
type DomainEvent interface {
	EventType() string
	AggregateID() string
	Timestamp() time.Time
}

// ShipmentCreatedEvent is raised when a production user sends a new shipment
type ShipmentCreatedEvent struct {
	ShipmentID    string    `json:"shipmentId"`
	SenderID      string    `json:"senderId"`
	TotalQuantity int       `json:"totalQuantity"`
	TotalPrice    float64   `json:"totalPrice"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func (e *ShipmentCreatedEvent) EventType() string    { return "shipment.created" }
func (e *ShipmentCreatedEvent) AggregateID() string  { return e.ShipmentID }
func (e *ShipmentCreatedEvent) Timestamp() time.Time { return e.OccurredAt }

// ShipmentEditedEvent is raised when a pending shipment's contents change
type ShipmentEditedEvent struct {
	ShipmentID    string    `json:"shipmentId"`
	SenderID      string    `json:"senderId"`
	TotalQuantity int       `json:"totalQuantity"`
	TotalPrice    float64   `json:"totalPrice"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func (e *ShipmentEditedEvent) EventType() string    { return "shipment.edited" }
func (e *ShipmentEditedEvent) AggregateID() string  { return e.ShipmentID }
func (e *ShipmentEditedEvent) Timestamp() time.Time { return e.OccurredAt }

// ShipmentStatusChangedEvent is raised when the admin updates either the
// receipt status or the payment status of a shipment
type ShipmentStatusChangedEvent struct {
	ShipmentID string    `json:"shipmentId"`
	SenderID   string    `json:"senderId"`
	Field      string    `json:"field"`
	Previous   string    `json:"previous"`
	Current    string    `json:"current"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (e *ShipmentStatusChangedEvent) EventType() string    { return "shipment.status_changed" }
func (e *ShipmentStatusChangedEvent) AggregateID() string  { return e.ShipmentID }
func (e *ShipmentStatusChangedEvent) Timestamp() time.Time { return e.OccurredAt }
