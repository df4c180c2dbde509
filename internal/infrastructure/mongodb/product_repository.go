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

const productsCollection = "products"

// ProductRepository is the MongoDB implementation of domain.ProductRepository
type ProductRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

// NewProductRepository creates a product repository backed by the
// products collection
func NewProductRepository(client *mongodb.Client, logger *logging.Logger, m *metrics.Metrics) *ProductRepository {
	return &ProductRepository{
		collection: client.Collection(productsCollection),
		logger:     logger.WithComponent("product-repository"),
		metrics:    m,
	}
}

// EnsureIndexes creates the indexes the repository relies on
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "ownerId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "name", Value: 1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}

// Save upserts a product by ID
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) error {
	start := time.Now()

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product, opts)

	observe(ctx, r.logger, r.metrics, productsCollection, "save", start, err)

	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// FindByID loads a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	start := time.Now()

	var product domain.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)

	observe(ctx, r.logger, r.metrics, productsCollection, "find_by_id", start, err)

	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

// FindByOwner returns every product registered by the given user,
// newest first
func (r *ProductRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Product, error) {
	return r.find(ctx, bson.M{"ownerId": ownerID}, "find_by_owner")
}

// FindAll returns every product, newest first
func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	return r.find(ctx, bson.M{}, "find_all")
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M, operation string) ([]*domain.Product, error) {
	start := time.Now()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)

	observe(ctx, r.logger, r.metrics, productsCollection, operation, start, err)

	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// Delete removes a product
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})

	observe(ctx, r.logger, r.metrics, productsCollection, "delete", start, err)

	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// ApplyStockDelta atomically adjusts a product's stock with a single
// $inc so concurrent shipment edits never lose an adjustment
func (r *ProductRepository) ApplyStockDelta(ctx context.Context, productID string, delta int) error {
	if delta == 0 {
		return nil
	}

	start := time.Now()

	update := bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": productID}, update)

	observe(ctx, r.logger, r.metrics, productsCollection, "apply_stock_delta", start, err)

	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}

	if r.metrics != nil {
		r.metrics.RecordStockAdjustment(delta)
	}
	return nil
}
