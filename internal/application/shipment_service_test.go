package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodledger/prodledger/internal/domain"
)

type shipmentFixture struct {
	service   *ShipmentService
	users     *memUserRepo
	products  *memProductRepo
	shipments *memShipmentRepo
	notifier  *recordingNotifier

	sender *domain.User
	admin  *domain.User
	p1     *domain.Product
	p2     *domain.Product
}

func newShipmentFixture(t *testing.T) *shipmentFixture {
	t.Helper()

	sender := domain.NewUser("Asha", "asha@example.com", "111", "hash", domain.RoleProduction, 2.0)
	admin := domain.NewUser("Root", "admin@example.com", "999", "hash", domain.RoleAdmin, 0)

	p1 := domain.NewProduct(sender.ID, "Widget", "", 100, nil)
	p2 := domain.NewProduct(sender.ID, "Gadget", "", 50, nil)

	users := newMemUserRepo(sender, admin)
	products := newMemProductRepo(p1, p2)
	shipments := newMemShipmentRepo()
	notifier := &recordingNotifier{}
	uow := &fakeUnitOfWork{products: products, shipments: shipments}

	service := NewShipmentService(shipments, products, users, uow, notifier, testLogger(), nil)

	return &shipmentFixture{
		service:   service,
		users:     users,
		products:  products,
		shipments: shipments,
		notifier:  notifier,
		sender:    sender,
		admin:     admin,
		p1:        p1,
		p2:        p2,
	}
}

func (f *shipmentFixture) senderPrincipal() domain.Principal {
	return domain.Principal{UserID: f.sender.ID, Role: domain.RoleProduction}
}

func (f *shipmentFixture) adminPrincipal() domain.Principal {
	return domain.Principal{UserID: f.admin.ID, Role: domain.RoleAdmin}
}

func TestShipmentServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("deducts stock and prices at the sender rate", func(t *testing.T) {
		f := newShipmentFixture(t)

		shipment, err := f.service.Create(ctx, CreateShipmentCommand{
			Principal: f.senderPrincipal(),
			Items: []ShipmentItemInput{
				{ProductID: f.p1.ID, Quantity: 10},
				{ProductID: f.p2.ID, Quantity: 5},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, 15, shipment.TotalQuantity)
		assert.Equal(t, 30.0, shipment.TotalPrice)
		assert.Equal(t, "Widget", shipment.Items[0].ProductName)

		assert.Equal(t, 90, f.products.stock(f.p1.ID))
		assert.Equal(t, 45, f.products.stock(f.p2.ID))

		saved, err := f.shipments.FindByID(ctx, shipment.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, saved.Status)

		events := f.notifier.published()
		require.Len(t, events, 1)
		assert.Equal(t, "shipment.created", events[0].EventType())
	})

	t.Run("rejects products owned by someone else", func(t *testing.T) {
		f := newShipmentFixture(t)
		other := domain.NewProduct("someone-else", "Theirs", "", 10, nil)
		require.NoError(t, f.products.Save(ctx, other))

		_, err := f.service.Create(ctx, CreateShipmentCommand{
			Principal: f.senderPrincipal(),
			Items:     []ShipmentItemInput{{ProductID: other.ID, Quantity: 1}},
		})

		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
		assert.Equal(t, 10, f.products.stock(other.ID))
	})

	t.Run("admin cannot ship another user's products", func(t *testing.T) {
		f := newShipmentFixture(t)

		_, err := f.service.Create(ctx, CreateShipmentCommand{
			Principal: f.adminPrincipal(),
			Items:     []ShipmentItemInput{{ProductID: f.p1.ID, Quantity: 5}},
		})

		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
		assert.Equal(t, 100, f.products.stock(f.p1.ID))

		all, findErr := f.shipments.FindAll(ctx)
		require.NoError(t, findErr)
		assert.Empty(t, all)
		assert.Empty(t, f.notifier.published())
	})

	t.Run("missing product rolls back earlier deductions", func(t *testing.T) {
		f := newShipmentFixture(t)

		_, err := f.service.Create(ctx, CreateShipmentCommand{
			Principal: f.senderPrincipal(),
			Items: []ShipmentItemInput{
				{ProductID: f.p1.ID, Quantity: 10},
				{ProductID: "missing", Quantity: 5},
			},
		})

		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.Equal(t, 100, f.products.stock(f.p1.ID))
		assert.Empty(t, f.notifier.published())
	})

	t.Run("empty items rejected", func(t *testing.T) {
		f := newShipmentFixture(t)

		_, err := f.service.Create(ctx, CreateShipmentCommand{
			Principal: f.senderPrincipal(),
		})

		assert.ErrorIs(t, err, domain.ErrNoItems)
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		f := newShipmentFixture(t)

		_, err := f.service.Create(ctx, CreateShipmentCommand{
			Principal: f.senderPrincipal(),
			Items:     []ShipmentItemInput{{ProductID: f.p1.ID, Quantity: 0}},
		})

		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		assert.Equal(t, 100, f.products.stock(f.p1.ID))
	})
}

func TestShipmentServiceEdit(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, f *shipmentFixture, items ...ShipmentItemInput) *domain.Shipment {
		t.Helper()
		shipment, err := f.service.Create(ctx, CreateShipmentCommand{
			Principal: f.senderPrincipal(),
			Items:     items,
		})
		require.NoError(t, err)
		return shipment
	}

	t.Run("credits old items and deducts new ones", func(t *testing.T) {
		f := newShipmentFixture(t)
		shipment := create(t, f, ShipmentItemInput{ProductID: f.p1.ID, Quantity: 10})
		require.Equal(t, 90, f.products.stock(f.p1.ID))

		edited, err := f.service.Edit(ctx, EditShipmentCommand{
			Principal:  f.senderPrincipal(),
			ShipmentID: shipment.ID,
			Items:      []ShipmentItemInput{{ProductID: f.p2.ID, Quantity: 4}},
		})

		require.NoError(t, err)
		assert.Equal(t, 100, f.products.stock(f.p1.ID))
		assert.Equal(t, 46, f.products.stock(f.p2.ID))
		assert.Equal(t, 4, edited.TotalQuantity)
		assert.Equal(t, 8.0, edited.TotalPrice)
	})

	t.Run("editing twice never double counts stock", func(t *testing.T) {
		f := newShipmentFixture(t)
		shipment := create(t, f, ShipmentItemInput{ProductID: f.p1.ID, Quantity: 10})

		_, err := f.service.Edit(ctx, EditShipmentCommand{
			Principal:  f.senderPrincipal(),
			ShipmentID: shipment.ID,
			Items:      []ShipmentItemInput{{ProductID: f.p2.ID, Quantity: 4}},
		})
		require.NoError(t, err)

		_, err = f.service.Edit(ctx, EditShipmentCommand{
			Principal:  f.senderPrincipal(),
			ShipmentID: shipment.ID,
			Items:      []ShipmentItemInput{{ProductID: f.p1.ID, Quantity: 6}},
		})
		require.NoError(t, err)

		assert.Equal(t, 94, f.products.stock(f.p1.ID))
		assert.Equal(t, 50, f.products.stock(f.p2.ID))
	})

	t.Run("reprices at the sender rate even when an admin edits", func(t *testing.T) {
		f := newShipmentFixture(t)
		shipment := create(t, f, ShipmentItemInput{ProductID: f.p1.ID, Quantity: 10})

		edited, err := f.service.Edit(ctx, EditShipmentCommand{
			Principal:  f.adminPrincipal(),
			ShipmentID: shipment.ID,
			Items:      []ShipmentItemInput{{ProductID: f.p1.ID, Quantity: 3}},
		})

		require.NoError(t, err)
		// Sender's rate is 2.0; the admin's own rate (0) must not leak in
		assert.Equal(t, 6.0, edited.TotalPrice)
	})

	t.Run("other production user cannot edit", func(t *testing.T) {
		f := newShipmentFixture(t)
		shipment := create(t, f, ShipmentItemInput{ProductID: f.p1.ID, Quantity: 10})

		_, err := f.service.Edit(ctx, EditShipmentCommand{
			Principal:  domain.Principal{UserID: "intruder", Role: domain.RoleProduction},
			ShipmentID: shipment.ID,
			Items:      []ShipmentItemInput{{ProductID: f.p1.ID, Quantity: 1}},
		})

		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
		assert.Equal(t, 90, f.products.stock(f.p1.ID))
	})

	t.Run("received shipment cannot be edited", func(t *testing.T) {
		f := newShipmentFixture(t)
		shipment := create(t, f, ShipmentItemInput{ProductID: f.p1.ID, Quantity: 10})

		_, err := f.service.Transition(ctx, TransitionShipmentCommand{
			Principal:  f.adminPrincipal(),
			ShipmentID: shipment.ID,
			Status:     statusPtr(domain.StatusReceived),
		})
		require.NoError(t, err)

		_, err = f.service.Edit(ctx, EditShipmentCommand{
			Principal:  f.senderPrincipal(),
			ShipmentID: shipment.ID,
			Items:      []ShipmentItemInput{{ProductID: f.p2.ID, Quantity: 1}},
		})

		assert.ErrorIs(t, err, domain.ErrShipmentNotPending)
		assert.Equal(t, 90, f.products.stock(f.p1.ID))
		assert.Equal(t, 50, f.products.stock(f.p2.ID))
	})

	t.Run("settled shipment refuses the edit before product lookup", func(t *testing.T) {
		f := newShipmentFixture(t)
		shipment := create(t, f, ShipmentItemInput{ProductID: f.p1.ID, Quantity: 10})

		_, err := f.service.Transition(ctx, TransitionShipmentCommand{
			Principal:  f.adminPrincipal(),
			ShipmentID: shipment.ID,
			Status:     statusPtr(domain.StatusReceived),
		})
		require.NoError(t, err)

		_, err = f.service.Edit(ctx, EditShipmentCommand{
			Principal:  f.senderPrincipal(),
			ShipmentID: shipment.ID,
			Items:      []ShipmentItemInput{{ProductID: "missing", Quantity: 1}},
		})

		assert.ErrorIs(t, err, domain.ErrShipmentNotPending)
	})

	t.Run("old item for a deleted product is skipped on credit", func(t *testing.T) {
		f := newShipmentFixture(t)
		shipment := create(t, f,
			ShipmentItemInput{ProductID: f.p1.ID, Quantity: 10},
			ShipmentItemInput{ProductID: f.p2.ID, Quantity: 5},
		)
		require.NoError(t, f.products.Delete(ctx, f.p1.ID))

		edited, err := f.service.Edit(ctx, EditShipmentCommand{
			Principal:  f.senderPrincipal(),
			ShipmentID: shipment.ID,
			Items:      []ShipmentItemInput{{ProductID: f.p2.ID, Quantity: 2}},
		})

		require.NoError(t, err)
		assert.Equal(t, 2, edited.TotalQuantity)
		// 50 - 5 on create, +5 credited, -2 for the new revision
		assert.Equal(t, 48, f.products.stock(f.p2.ID))
	})

	t.Run("missing new product rolls the whole edit back", func(t *testing.T) {
		f := newShipmentFixture(t)
		shipment := create(t, f, ShipmentItemInput{ProductID: f.p1.ID, Quantity: 10})

		_, err := f.service.Edit(ctx, EditShipmentCommand{
			Principal:  f.senderPrincipal(),
			ShipmentID: shipment.ID,
			Items:      []ShipmentItemInput{{ProductID: "missing", Quantity: 1}},
		})

		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.Equal(t, 90, f.products.stock(f.p1.ID))

		unchanged, err := f.shipments.FindByID(ctx, shipment.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, unchanged.TotalQuantity)
	})
}

func TestShipmentServiceTransition(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, f *shipmentFixture) *domain.Shipment {
		t.Helper()
		shipment, err := f.service.Create(ctx, CreateShipmentCommand{
			Principal: f.senderPrincipal(),
			Items:     []ShipmentItemInput{{ProductID: f.p1.ID, Quantity: 10}},
		})
		require.NoError(t, err)
		return shipment
	}

	t.Run("production user cannot transition", func(t *testing.T) {
		f := newShipmentFixture(t)
		shipment := create(t, f)

		_, err := f.service.Transition(ctx, TransitionShipmentCommand{
			Principal:  f.senderPrincipal(),
			ShipmentID: shipment.ID,
			Status:     statusPtr(domain.StatusReceived),
		})

		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("admin marks received and paid", func(t *testing.T) {
		f := newShipmentFixture(t)
		shipment := create(t, f)

		updated, err := f.service.Transition(ctx, TransitionShipmentCommand{
			Principal:     f.adminPrincipal(),
			ShipmentID:    shipment.ID,
			Status:        statusPtr(domain.StatusReceived),
			PaymentStatus: paymentPtr(domain.PaymentPaid),
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusReceived, updated.Status)
		assert.Equal(t, domain.PaymentPaid, updated.PaymentStatus)
		assert.NotNil(t, updated.ReceivedAt)
		assert.NotNil(t, updated.PaidAt)
	})

	t.Run("unknown shipment", func(t *testing.T) {
		f := newShipmentFixture(t)

		_, err := f.service.Transition(ctx, TransitionShipmentCommand{
			Principal:  f.adminPrincipal(),
			ShipmentID: "missing",
			Status:     statusPtr(domain.StatusReceived),
		})

		assert.ErrorIs(t, err, domain.ErrShipmentNotFound)
	})
}

func TestShipmentServiceQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("sender sees own shipment, stranger does not", func(t *testing.T) {
		f := newShipmentFixture(t)
		shipment, err := f.service.Create(ctx, CreateShipmentCommand{
			Principal: f.senderPrincipal(),
			Items:     []ShipmentItemInput{{ProductID: f.p1.ID, Quantity: 1}},
		})
		require.NoError(t, err)

		_, err = f.service.GetByID(ctx, f.senderPrincipal(), shipment.ID)
		assert.NoError(t, err)

		_, err = f.service.GetByID(ctx, f.adminPrincipal(), shipment.ID)
		assert.NoError(t, err)

		_, err = f.service.GetByID(ctx, domain.Principal{UserID: "intruder", Role: domain.RoleProduction}, shipment.ID)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("list all is admin only", func(t *testing.T) {
		f := newShipmentFixture(t)

		_, err := f.service.ListAll(ctx, f.senderPrincipal())
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)

		_, err = f.service.ListAll(ctx, f.adminPrincipal())
		assert.NoError(t, err)
	})
}

func statusPtr(s domain.ShipmentStatus) *domain.ShipmentStatus { return &s }
func paymentPtr(s domain.PaymentStatus) *domain.PaymentStatus  { return &s }
