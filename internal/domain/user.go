package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role determines what a user is allowed to do
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleProduction Role = "production"
)

// IsValid checks whether the role is a known one
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleProduction
}

// User represents an account in the system. Production users register
// products and send shipments; admins reconcile and pay them.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	Mobile       string    `bson:"mobile" json:"mobile"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         Role      `bson:"role" json:"role"`
	PricePerUnit float64   `bson:"pricePerUnit" json:"pricePerUnit"`
	Active       bool      `bson:"active" json:"active"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewUser creates a user account. The password hash is computed by the
// application layer before the user is persisted.
func NewUser(name, email, mobile, passwordHash string, role Role, pricePerUnit float64) *User {
	now := time.Now().UTC()
	return &User{
		ID:           primitive.NewObjectID().Hex(),
		Name:         name,
		Email:        email,
		Mobile:       mobile,
		PasswordHash: passwordHash,
		Role:         role,
		PricePerUnit: pricePerUnit,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Deactivate blocks the account from logging in
func (u *User) Deactivate() {
	u.Active = false
	u.UpdatedAt = time.Now().UTC()
}

// Activate re-enables a previously deactivated account
func (u *User) Activate() {
	u.Active = true
	u.UpdatedAt = time.Now().UTC()
}

// Touch bumps the update timestamp after a field change
func (u *User) Touch() {
	u.UpdatedAt = time.Now().UTC()
}
