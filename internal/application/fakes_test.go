package application

import (
	"context"
	"sync"

	"github.com/prodledger/prodledger/internal/domain"
	"github.com/prodledger/prodledger/internal/platform/logging"
)

func testLogger() *logging.Logger {
	cfg := logging.DefaultConfig("prodledger-test")
	cfg.Level = logging.LevelError
	return logging.New(cfg)
}

// memUserRepo is an in-memory domain.UserRepository
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo(users ...*domain.User) *memUserRepo {
	r := &memUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		copied := *u
		r.users[u.ID] = &copied
	}
	return r
}

func (r *memUserRepo) Save(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email && existing.ID != user.ID {
			return domain.ErrEmailTaken
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindAll(ctx context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		copied := *user
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// memProductRepo is an in-memory domain.ProductRepository
type memProductRepo struct {
	mu       sync.Mutex
	products map[string]*domain.Product
}

func newMemProductRepo(products ...*domain.Product) *memProductRepo {
	r := &memProductRepo{products: make(map[string]*domain.Product)}
	for _, p := range products {
		copied := *p
		r.products[p.ID] = &copied
	}
	return r
}

func (r *memProductRepo) Save(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *memProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (r *memProductRepo) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Product
	for _, product := range r.products {
		if product.OwnerID == ownerID {
			copied := *product
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memProductRepo) FindAll(ctx context.Context) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		copied := *product
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memProductRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) ApplyStockDelta(ctx context.Context, productID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	product.Stock += delta
	return nil
}

func (r *memProductRepo) stock(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].Stock
}

func (r *memProductRepo) snapshot() map[string]domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[string]domain.Product, len(r.products))
	for id, product := range r.products {
		snap[id] = *product
	}
	return snap
}

func (r *memProductRepo) restore(snap map[string]domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = make(map[string]*domain.Product, len(snap))
	for id := range snap {
		copied := snap[id]
		r.products[id] = &copied
	}
}

// memShipmentRepo is an in-memory domain.ShipmentRepository
type memShipmentRepo struct {
	mu        sync.Mutex
	shipments map[string]*domain.Shipment

	totalsFilter domain.ShipmentFilter
	totals       []domain.SenderTotal
	weekly       []domain.WeeklyBucket
}

func newMemShipmentRepo(shipments ...*domain.Shipment) *memShipmentRepo {
	r := &memShipmentRepo{shipments: make(map[string]*domain.Shipment)}
	for _, s := range shipments {
		copied := *s
		r.shipments[s.ID] = &copied
	}
	return r
}

func (r *memShipmentRepo) Save(ctx context.Context, shipment *domain.Shipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *shipment
	copied.ClearEvents()
	r.shipments[shipment.ID] = &copied
	return nil
}

func (r *memShipmentRepo) FindByID(ctx context.Context, id string) (*domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	shipment, ok := r.shipments[id]
	if !ok {
		return nil, domain.ErrShipmentNotFound
	}
	copied := *shipment
	return &copied, nil
}

func (r *memShipmentRepo) FindBySender(ctx context.Context, senderID string) ([]*domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Shipment
	for _, shipment := range r.shipments {
		if shipment.SenderID == senderID {
			copied := *shipment
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memShipmentRepo) FindAll(ctx context.Context) ([]*domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Shipment, 0, len(r.shipments))
	for _, shipment := range r.shipments {
		copied := *shipment
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memShipmentRepo) SenderTotals(ctx context.Context, filter domain.ShipmentFilter) ([]domain.SenderTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totalsFilter = filter
	return r.totals, nil
}

func (r *memShipmentRepo) WeeklyProduction(ctx context.Context) ([]domain.WeeklyBucket, error) {
	return r.weekly, nil
}

func (r *memShipmentRepo) snapshot() map[string]domain.Shipment {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[string]domain.Shipment, len(r.shipments))
	for id, shipment := range r.shipments {
		snap[id] = *shipment
	}
	return snap
}

func (r *memShipmentRepo) restore(snap map[string]domain.Shipment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shipments = make(map[string]*domain.Shipment, len(snap))
	for id := range snap {
		copied := snap[id]
		r.shipments[id] = &copied
	}
}

// fakeUnitOfWork mimics transactional semantics by snapshotting the
// in-memory repositories and restoring them when fn fails
type fakeUnitOfWork struct {
	products  *memProductRepo
	shipments *memShipmentRepo
}

func (u *fakeUnitOfWork) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	productSnap := u.products.snapshot()
	shipmentSnap := u.shipments.snapshot()

	if err := fn(ctx); err != nil {
		u.products.restore(productSnap)
		u.shipments.restore(shipmentSnap)
		return err
	}
	return nil
}

// recordingNotifier captures published events
type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.DomainEvent
}

func (n *recordingNotifier) Publish(ctx context.Context, event domain.DomainEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Close() error { return nil }

func (n *recordingNotifier) published() []domain.DomainEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.DomainEvent(nil), n.events...)
}

// fakeMediaStore records uploads and deletions
type fakeMediaStore struct {
	mu       sync.Mutex
	uploads  int
	deleted  []string
	storeErr error
}

func (m *fakeMediaStore) Store(ctx context.Context, data []byte, filename string) (*domain.MediaAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storeErr != nil {
		return nil, m.storeErr
	}
	m.uploads++
	return &domain.MediaAsset{
		URL:        "https://media.example.com/" + filename,
		ExternalID: "ext-" + filename,
	}, nil
}

func (m *fakeMediaStore) Delete(ctx context.Context, externalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, externalID)
	return nil
}
