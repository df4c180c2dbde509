package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/prodledger/prodledger/internal/platform/mongodb"
)

// UnitOfWork runs repository operations inside a MongoDB multi-document
// transaction. The session context it hands to fn carries the session,
// so repository calls made with it join the transaction automatically.
// Requires a replica set deployment.
type UnitOfWork struct {
	client *mongodb.Client
}

// NewUnitOfWork creates a transaction runner on the shared client
func NewUnitOfWork(client *mongodb.Client) *UnitOfWork {
	return &UnitOfWork{client: client}
}

// WithinTransaction executes fn inside a single transaction, committing
// on nil and aborting on error
func (u *UnitOfWork) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return u.client.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return fn(sessCtx)
	})
}
