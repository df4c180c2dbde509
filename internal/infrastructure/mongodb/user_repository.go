package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/prodledger/prodledger/internal/domain"
	"github.com/prodledger/prodledger/internal/platform/logging"
	"github.com/prodledger/prodledger/internal/platform/metrics"
	"github.com/prodledger/prodledger/internal/platform/mongodb"
)

const usersCollection = "users"

// UserRepository is the MongoDB implementation of domain.UserRepository
type UserRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

// NewUserRepository creates a user repository backed by the users collection
func NewUserRepository(client *mongodb.Client, logger *logging.Logger, m *metrics.Metrics) *UserRepository {
	return &UserRepository{
		collection: client.Collection(usersCollection),
		logger:     logger.WithComponent("user-repository"),
		metrics:    m,
	}
}

// EnsureIndexes creates the indexes the repository relies on
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

// Save upserts a user by ID. A duplicate email surfaces as
// domain.ErrEmailTaken so concurrent registrations cannot race past the
// application-level check.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	start := time.Now()

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user, opts)

	observe(ctx, r.logger, r.metrics, usersCollection, "save", start, err)

	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// FindByID loads a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	start := time.Now()

	var user domain.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)

	observe(ctx, r.logger, r.metrics, usersCollection, "find_by_id", start, err)

	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindByEmail loads a user by email address
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	start := time.Now()

	var user domain.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)

	observe(ctx, r.logger, r.metrics, usersCollection, "find_by_email", start, err)

	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

// FindAll returns every user, newest first
func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	start := time.Now()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)

	observe(ctx, r.logger, r.metrics, usersCollection, "find_all", start, err)

	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// Delete removes a user account
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})

	observe(ctx, r.logger, r.metrics, usersCollection, "delete", start, err)

	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
