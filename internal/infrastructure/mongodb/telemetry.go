package mongodb

import (
	"context"
	"time"

	"github.com/prodledger/prodledger/internal/platform/logging"
	"github.com/prodledger/prodledger/internal/platform/metrics"
)

// observe records the outcome of a storage operation in both the log
// stream and the metrics registry
func observe(ctx context.Context, logger *logging.Logger, m *metrics.Metrics, collection, operation string, start time.Time, err error) {
	duration := time.Since(start)
	success := err == nil

	logger.DatabaseQuery(ctx, collection, operation, duration, success)
	if m != nil {
		m.RecordMongoDBOperation(collection, operation, success, duration)
	}
}
