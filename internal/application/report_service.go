package application

import (
	"context"
	"time"

	"github.com/prodledger/prodledger/internal/domain"
	"github.com/prodledger/prodledger/internal/platform/logging"
)

// ReportService runs reconciliation reports for admins
type ReportService struct {
	shipments domain.ShipmentRepository
	logger    *logging.Logger
	now       func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(shipments domain.ShipmentRepository, logger *logging.Logger) *ReportService {
	return &ReportService{
		shipments: shipments,
		logger:    logger.WithComponent("report-service"),
		now:       time.Now,
	}
}

// SenderTotals groups shipments by sender over the requested period.
// Valid periods are weekly, monthly, yearly and all; an empty period
// means all. Admin only.
func (s *ReportService) SenderTotals(ctx context.Context, principal domain.Principal, period string) ([]domain.SenderTotal, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrNotAuthorized
	}

	since, err := s.periodStart(period)
	if err != nil {
		return nil, err
	}

	return s.shipments.SenderTotals(ctx, domain.ShipmentFilter{Since: since})
}

// WeeklyStats buckets the last seven days of shipments by day of week.
// Admin only.
func (s *ReportService) WeeklyStats(ctx context.Context, principal domain.Principal) ([]domain.WeeklyBucket, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrNotAuthorized
	}

	return s.shipments.WeeklyProduction(ctx)
}

// periodStart translates a report period into the start of its window.
// A zero time means no lower bound.
func (s *ReportService) periodStart(period string) (time.Time, error) {
	now := s.now().UTC()

	switch period {
	case "weekly":
		return now.AddDate(0, 0, -7), nil
	case "monthly":
		return now.AddDate(0, -1, 0), nil
	case "yearly":
		return now.AddDate(-1, 0, 0), nil
	case "", "all":
		return time.Time{}, nil
	default:
		return time.Time{}, domain.ErrInvalidPeriod
	}
}
