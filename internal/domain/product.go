package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaAsset is an image stored in the external media store
type MediaAsset struct {
	URL        string `bson:"url" json:"url"`
	ExternalID string `bson:"externalId" json:"externalId"`
}

// Product is an item a production user manufactures and keeps in stock.
// Stock counts units available for shipping; it is adjusted whenever a
// shipment referencing the product is created, edited or deleted.
type Product struct {
	ID        string      `bson:"_id" json:"id"`
	OwnerID   string      `bson:"ownerId" json:"ownerId"`
	Name      string      `bson:"name" json:"name"`
	Brand     string      `bson:"brand,omitempty" json:"brand,omitempty"`
	Stock     int         `bson:"stock" json:"stock"`
	Image     *MediaAsset `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// NewProduct registers a product for a production user
func NewProduct(ownerID, name, brand string, stock int, image *MediaAsset) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:        primitive.NewObjectID().Hex(),
		OwnerID:   ownerID,
		Name:      name,
		Brand:     brand,
		Stock:     stock,
		Image:     image,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OwnedBy reports whether the product belongs to the given user
func (p *Product) OwnedBy(userID string) bool {
	return p.OwnerID == userID
}

// Touch bumps the update timestamp after a field change
func (p *Product) Touch() {
	p.UpdatedAt = time.Now().UTC()
}
