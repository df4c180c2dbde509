package application

import (
	"context"

	"github.com/prodledger/prodledger/internal/domain"
	"github.com/prodledger/prodledger/internal/platform/logging"
	"github.com/prodledger/prodledger/internal/platform/metrics"
)

// ShipmentService drives the shipment lifecycle: creation, edits while
// pending, and the admin's receipt and payment transitions. Stock moves
// with the shipment: units are deducted when a shipment claims them and
// credited back when an edit releases them.
type ShipmentService struct {
	shipments domain.ShipmentRepository
	products  domain.ProductRepository
	users     domain.UserRepository
	uow       domain.UnitOfWork
	notifier  domain.Notifier
	logger    *logging.Logger
	metrics   *metrics.Metrics
}

// NewShipmentService creates a new ShipmentService
func NewShipmentService(
	shipments domain.ShipmentRepository,
	products domain.ProductRepository,
	users domain.UserRepository,
	uow domain.UnitOfWork,
	notifier domain.Notifier,
	logger *logging.Logger,
	m *metrics.Metrics,
) *ShipmentService {
	return &ShipmentService{
		shipments: shipments,
		products:  products,
		users:     users,
		uow:       uow,
		notifier:  notifier,
		logger:    logger.WithComponent("shipment-service"),
		metrics:   m,
	}
}

// Create builds a pending shipment from the caller's own products,
// priced at the caller's rate, and deducts the shipped units from
// stock. The stock deductions and the shipment write commit together.
func (s *ShipmentService) Create(ctx context.Context, cmd CreateShipmentCommand) (*domain.Shipment, error) {
	sender, err := s.users.FindByID(ctx, cmd.Principal.UserID)
	if err != nil {
		return nil, err
	}

	items, err := s.resolveItems(ctx, cmd.Items, &cmd.Principal)
	if err != nil {
		return nil, err
	}

	shipment, err := domain.NewShipment(sender.ID, items, sender.PricePerUnit)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		for _, item := range shipment.Items {
			if err := s.products.ApplyStockDelta(txCtx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}
		return s.shipments.Save(txCtx, shipment)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, shipment)
	if s.metrics != nil {
		s.metrics.RecordShipmentCreated()
	}

	s.logger.Audit(ctx, "shipment.create", "shipment", shipment.ID, sender.ID, map[string]any{
		"totalQuantity": shipment.TotalQuantity,
		"totalPrice":    shipment.TotalPrice,
	})

	return shipment, nil
}

// Edit replaces the contents of a pending shipment. The old items are
// credited back to stock, the new items deducted, and every line is
// repriced at the rate of the shipment's sender, not the caller's. All
// of it commits in a single transaction, so a failed deduction leaves
// both stock and the shipment untouched.
func (s *ShipmentService) Edit(ctx context.Context, cmd EditShipmentCommand) (*domain.Shipment, error) {
	shipment, err := s.shipments.FindByID(ctx, cmd.ShipmentID)
	if err != nil {
		return nil, err
	}

	if !shipment.CanBeEditedBy(cmd.Principal) {
		return nil, domain.ErrNotAuthorized
	}

	// Settled shipments reject the edit before any product lookup, so a
	// stale item list cannot turn the refusal into a not-found error.
	if shipment.Status != domain.StatusPending {
		return nil, domain.ErrShipmentNotPending
	}

	sender, err := s.users.FindByID(ctx, shipment.SenderID)
	if err != nil {
		return nil, err
	}

	items, err := s.resolveItems(ctx, cmd.Items, nil)
	if err != nil {
		return nil, err
	}

	previousItems := shipment.Items

	if err := shipment.ReplaceItems(items, sender.PricePerUnit); err != nil {
		return nil, err
	}

	err = s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		// Release the units the old revision was holding. A product
		// deleted since the shipment was created simply has nothing to
		// credit back.
		for _, item := range previousItems {
			err := s.products.ApplyStockDelta(txCtx, item.ProductID, item.Quantity)
			if err != nil && err != domain.ErrProductNotFound {
				return err
			}
		}

		for _, item := range shipment.Items {
			if err := s.products.ApplyStockDelta(txCtx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}

		return s.shipments.Save(txCtx, shipment)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, shipment)
	if s.metrics != nil {
		s.metrics.RecordShipmentEdited()
	}

	s.logger.Audit(ctx, "shipment.edit", "shipment", shipment.ID, cmd.Principal.UserID, map[string]any{
		"totalQuantity": shipment.TotalQuantity,
		"totalPrice":    shipment.TotalPrice,
	})

	return shipment, nil
}

// Transition updates the receipt and/or payment status of a shipment.
// Only admins reconcile shipments.
func (s *ShipmentService) Transition(ctx context.Context, cmd TransitionShipmentCommand) (*domain.Shipment, error) {
	if !cmd.Principal.IsAdmin() {
		return nil, domain.ErrNotAuthorized
	}

	shipment, err := s.shipments.FindByID(ctx, cmd.ShipmentID)
	if err != nil {
		return nil, err
	}

	if cmd.Status != nil {
		if err := shipment.SetStatus(*cmd.Status); err != nil {
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.RecordStatusTransition("status", string(*cmd.Status))
		}
	}

	if cmd.PaymentStatus != nil {
		if err := shipment.SetPaymentStatus(*cmd.PaymentStatus); err != nil {
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.RecordStatusTransition("paymentStatus", string(*cmd.PaymentStatus))
		}
	}

	if err := s.shipments.Save(ctx, shipment); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, shipment)

	s.logger.Audit(ctx, "shipment.transition", "shipment", shipment.ID, cmd.Principal.UserID, map[string]any{
		"status":        shipment.Status,
		"paymentStatus": shipment.PaymentStatus,
	})

	return shipment, nil
}

// GetByID loads one shipment. Production users see only their own.
func (s *ShipmentService) GetByID(ctx context.Context, principal domain.Principal, id string) (*domain.Shipment, error) {
	shipment, err := s.shipments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !shipment.CanBeViewedBy(principal) {
		return nil, domain.ErrNotAuthorized
	}

	return shipment, nil
}

// ListMine returns the caller's shipments, newest first
func (s *ShipmentService) ListMine(ctx context.Context, principal domain.Principal) ([]*domain.Shipment, error) {
	return s.shipments.FindBySender(ctx, principal.UserID)
}

// ListAll returns every shipment. Admin only.
func (s *ShipmentService) ListAll(ctx context.Context, principal domain.Principal) ([]*domain.Shipment, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrNotAuthorized
	}
	return s.shipments.FindAll(ctx)
}

// resolveItems loads each referenced product to freeze its name into
// the shipment line. When owner is non-nil, every product must belong
// to that principal.
func (s *ShipmentService) resolveItems(ctx context.Context, inputs []ShipmentItemInput, owner *domain.Principal) ([]domain.ShipmentItem, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrNoItems
	}

	items := make([]domain.ShipmentItem, 0, len(inputs))
	for _, input := range inputs {
		if input.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}

		product, err := s.products.FindByID(ctx, input.ProductID)
		if err != nil {
			return nil, err
		}

		if owner != nil && !product.OwnedBy(owner.UserID) {
			return nil, domain.ErrNotAuthorized
		}

		items = append(items, domain.ShipmentItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    input.Quantity,
		})
	}

	return items, nil
}

func (s *ShipmentService) publishEvents(ctx context.Context, shipment *domain.Shipment) {
	for _, event := range shipment.Events() {
		s.notifier.Publish(ctx, event)
	}
	shipment.ClearEvents()
}
