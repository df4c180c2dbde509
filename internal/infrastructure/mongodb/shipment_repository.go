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

const shipmentsCollection = "shipments"

// ShipmentRepository is the MongoDB implementation of
// domain.ShipmentRepository
type ShipmentRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

// NewShipmentRepository creates a shipment repository backed by the
// shipments collection
func NewShipmentRepository(client *mongodb.Client, logger *logging.Logger, m *metrics.Metrics) *ShipmentRepository {
	return &ShipmentRepository{
		collection: client.Collection(shipmentsCollection),
		logger:     logger.WithComponent("shipment-repository"),
		metrics:    m,
	}
}

// EnsureIndexes creates the indexes the repository relies on
func (r *ShipmentRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "senderId", Value: 1}, {Key: "shippedAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "shippedAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "paymentStatus", Value: 1}},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create shipment indexes: %w", err)
	}
	return nil
}

// Save upserts a shipment by ID
func (r *ShipmentRepository) Save(ctx context.Context, shipment *domain.Shipment) error {
	start := time.Now()

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": shipment.ID}, shipment, opts)

	observe(ctx, r.logger, r.metrics, shipmentsCollection, "save", start, err)

	if err != nil {
		return fmt.Errorf("failed to save shipment: %w", err)
	}
	return nil
}

// FindByID loads a shipment by ID
func (r *ShipmentRepository) FindByID(ctx context.Context, id string) (*domain.Shipment, error) {
	start := time.Now()

	var shipment domain.Shipment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&shipment)

	observe(ctx, r.logger, r.metrics, shipmentsCollection, "find_by_id", start, err)

	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrShipmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find shipment: %w", err)
	}
	return &shipment, nil
}

// FindBySender returns a user's shipments, newest first
func (r *ShipmentRepository) FindBySender(ctx context.Context, senderID string) ([]*domain.Shipment, error) {
	return r.find(ctx, bson.M{"senderId": senderID}, "find_by_sender")
}

// FindAll returns every shipment, newest first
func (r *ShipmentRepository) FindAll(ctx context.Context) ([]*domain.Shipment, error) {
	return r.find(ctx, bson.M{}, "find_all")
}

func (r *ShipmentRepository) find(ctx context.Context, filter bson.M, operation string) ([]*domain.Shipment, error) {
	start := time.Now()

	opts := options.Find().SetSort(bson.D{{Key: "shippedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)

	observe(ctx, r.logger, r.metrics, shipmentsCollection, operation, start, err)

	if err != nil {
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}
	defer cursor.Close(ctx)

	var shipments []*domain.Shipment
	if err := cursor.All(ctx, &shipments); err != nil {
		return nil, fmt.Errorf("failed to decode shipments: %w", err)
	}
	return shipments, nil
}

// SenderTotals groups shipments by sender within the filter window and
// joins each sender's account details from the users collection
func (r *ShipmentRepository) SenderTotals(ctx context.Context, filter domain.ShipmentFilter) ([]domain.SenderTotal, error) {
	start := time.Now()

	pipeline := mongo.Pipeline{}

	if !filter.Since.IsZero() {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{
			"shippedAt": bson.M{"$gte": filter.Since},
		}}})
	}

	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           "$senderId",
			"shipmentCount": bson.M{"$sum": 1},
			"totalQuantity": bson.M{"$sum": "$totalQuantity"},
			"totalPrice":    bson.M{"$sum": "$totalPrice"},
			"unpaidPrice": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$paymentStatus", "unpaid"}},
				"$totalPrice",
				0,
			}}},
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "sender",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$sender",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"senderName":  "$sender.name",
			"senderEmail": "$sender.email",
		}}},
		bson.D{{Key: "$project", Value: bson.M{"sender": 0}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "totalPrice", Value: -1}}}},
	)

	cursor, err := r.collection.Aggregate(ctx, pipeline)

	observe(ctx, r.logger, r.metrics, shipmentsCollection, "sender_totals", start, err)

	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sender totals: %w", err)
	}
	defer cursor.Close(ctx)

	var totals []domain.SenderTotal
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("failed to decode sender totals: %w", err)
	}
	return totals, nil
}

// WeeklyProduction buckets the last seven days of shipments by day of
// week, 1 for Sunday through 7 for Saturday
func (r *ShipmentRepository) WeeklyProduction(ctx context.Context) ([]domain.WeeklyBucket, error) {
	start := time.Now()

	since := time.Now().UTC().AddDate(0, 0, -7)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"shippedAt": bson.M{"$gte": since},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$dayOfWeek": "$shippedAt"},
			"shipmentCount": bson.M{"$sum": 1},
			"totalQuantity": bson.M{"$sum": "$totalQuantity"},
			"totalPrice":    bson.M{"$sum": "$totalPrice"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)

	observe(ctx, r.logger, r.metrics, shipmentsCollection, "weekly_production", start, err)

	if err != nil {
		return nil, fmt.Errorf("failed to aggregate weekly production: %w", err)
	}
	defer cursor.Close(ctx)

	var buckets []domain.WeeklyBucket
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("failed to decode weekly production: %w", err)
	}
	return buckets, nil
}
