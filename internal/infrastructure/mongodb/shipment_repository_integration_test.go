package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/prodledger/prodledger/internal/domain"
	"github.com/prodledger/prodledger/internal/platform/logging"
	"github.com/prodledger/prodledger/internal/platform/mongodb"
)

type RepositoryIntegrationTestSuite struct {
	suite.Suite
	container *tcmongo.MongoDBContainer
	client    *mongodb.Client
	users     *UserRepository
	products  *ProductRepository
	shipments *ShipmentRepository
	uow       *UnitOfWork
	ctx       context.Context
}

func TestRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	suite.Run(t, new(RepositoryIntegrationTestSuite))
}

func (s *RepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	// Replica set is required for the multi-document transactions the
	// unit of work runs
	container, err := tcmongo.Run(s.ctx, "mongo:6",
		tcmongo.WithReplicaSet("rs"),
	)
	s.Require().NoError(err)
	s.container = container

	uri, err := container.ConnectionString(s.ctx)
	s.Require().NoError(err)

	cfg := mongodb.DefaultConfig()
	cfg.URI = uri
	cfg.Database = "prodledger_test"

	client, err := mongodb.NewClient(s.ctx, cfg)
	s.Require().NoError(err)
	s.client = client

	logger := logging.New(logging.DefaultConfig("prodledger-test"))

	s.users = NewUserRepository(client, logger, nil)
	s.products = NewProductRepository(client, logger, nil)
	s.shipments = NewShipmentRepository(client, logger, nil)
	s.uow = NewUnitOfWork(client)

	s.Require().NoError(s.users.EnsureIndexes(s.ctx))
	s.Require().NoError(s.products.EnsureIndexes(s.ctx))
	s.Require().NoError(s.shipments.EnsureIndexes(s.ctx))
}

func (s *RepositoryIntegrationTestSuite) TearDownSuite() {
	if s.client != nil {
		s.client.Close(s.ctx)
	}
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(s.ctx))
	}
}

func (s *RepositoryIntegrationTestSuite) TearDownTest() {
	db := s.client.Database()
	db.Collection(shipmentsCollection).Drop(s.ctx)
	db.Collection(productsCollection).Drop(s.ctx)
	db.Collection(usersCollection).Drop(s.ctx)

	s.Require().NoError(s.users.EnsureIndexes(s.ctx))
}

func (s *RepositoryIntegrationTestSuite) newShipment(senderID string, quantity int, rate float64) *domain.Shipment {
	shipment, err := domain.NewShipment(senderID, []domain.ShipmentItem{
		{ProductID: "p1", ProductName: "Widget", Quantity: quantity},
	}, rate)
	s.Require().NoError(err)
	return shipment
}

func (s *RepositoryIntegrationTestSuite) TestShipmentSaveAndFindByID() {
	shipment := s.newShipment("sender-1", 10, 2.5)

	err := s.shipments.Save(s.ctx, shipment)
	s.Require().NoError(err)

	found, err := s.shipments.FindByID(s.ctx, shipment.ID)
	s.Require().NoError(err)
	s.Equal(shipment.ID, found.ID)
	s.Equal(10, found.TotalQuantity)
	s.Equal(25.0, found.TotalPrice)
	s.Equal(domain.StatusPending, found.Status)
}

func (s *RepositoryIntegrationTestSuite) TestShipmentFindByIDNotFound() {
	_, err := s.shipments.FindByID(s.ctx, "missing")
	s.ErrorIs(err, domain.ErrShipmentNotFound)
}

func (s *RepositoryIntegrationTestSuite) TestShipmentSaveUpdatesExisting() {
	shipment := s.newShipment("sender-1", 10, 2.5)
	s.Require().NoError(s.shipments.Save(s.ctx, shipment))

	s.Require().NoError(shipment.SetStatus(domain.StatusReceived))
	s.Require().NoError(s.shipments.Save(s.ctx, shipment))

	found, err := s.shipments.FindByID(s.ctx, shipment.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusReceived, found.Status)
	s.NotNil(found.ReceivedAt)
}

func (s *RepositoryIntegrationTestSuite) TestShipmentFindBySenderFiltersAndSorts() {
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.shipments.Save(s.ctx, s.newShipment("sender-1", i+1, 1.0)))
		time.Sleep(5 * time.Millisecond)
	}
	s.Require().NoError(s.shipments.Save(s.ctx, s.newShipment("sender-2", 99, 1.0)))

	found, err := s.shipments.FindBySender(s.ctx, "sender-1")
	s.Require().NoError(err)
	s.Len(found, 3)

	for i := 0; i < len(found)-1; i++ {
		s.False(found[i].ShippedAt.Before(found[i+1].ShippedAt))
	}
}

func (s *RepositoryIntegrationTestSuite) TestUserDuplicateEmailRejected() {
	first := domain.NewUser("Asha", "asha@example.com", "111", "hash", domain.RoleProduction, 2.0)
	second := domain.NewUser("Ravi", "asha@example.com", "222", "hash", domain.RoleProduction, 3.0)

	s.Require().NoError(s.users.Save(s.ctx, first))

	err := s.users.Save(s.ctx, second)
	s.ErrorIs(err, domain.ErrEmailTaken)
}

func (s *RepositoryIntegrationTestSuite) TestApplyStockDelta() {
	product := domain.NewProduct("owner-1", "Widget", "", 100, nil)
	s.Require().NoError(s.products.Save(s.ctx, product))

	s.Require().NoError(s.products.ApplyStockDelta(s.ctx, product.ID, -30))
	s.Require().NoError(s.products.ApplyStockDelta(s.ctx, product.ID, 5))

	found, err := s.products.FindByID(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Equal(75, found.Stock)
}

func (s *RepositoryIntegrationTestSuite) TestApplyStockDeltaMissingProduct() {
	err := s.products.ApplyStockDelta(s.ctx, "missing", -1)
	s.ErrorIs(err, domain.ErrProductNotFound)
}

func (s *RepositoryIntegrationTestSuite) TestTransactionRollsBackOnError() {
	product := domain.NewProduct("owner-1", "Widget", "", 100, nil)
	s.Require().NoError(s.products.Save(s.ctx, product))

	err := s.uow.WithinTransaction(s.ctx, func(ctx context.Context) error {
		if err := s.products.ApplyStockDelta(ctx, product.ID, -40); err != nil {
			return err
		}
		// Second adjustment targets a product that does not exist, so
		// the whole transaction must abort
		return s.products.ApplyStockDelta(ctx, "missing", -1)
	})
	s.ErrorIs(err, domain.ErrProductNotFound)

	found, err := s.products.FindByID(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Equal(100, found.Stock)
}

func (s *RepositoryIntegrationTestSuite) TestSenderTotalsJoinsSenderDetails() {
	sender := domain.NewUser("Asha", "asha@example.com", "111", "hash", domain.RoleProduction, 2.0)
	s.Require().NoError(s.users.Save(s.ctx, sender))

	first := s.newShipment(sender.ID, 10, 2.0)
	s.Require().NoError(s.shipments.Save(s.ctx, first))

	second := s.newShipment(sender.ID, 5, 2.0)
	s.Require().NoError(second.SetPaymentStatus(domain.PaymentPaid))
	s.Require().NoError(s.shipments.Save(s.ctx, second))

	totals, err := s.shipments.SenderTotals(s.ctx, domain.ShipmentFilter{})
	s.Require().NoError(err)
	s.Require().Len(totals, 1)

	row := totals[0]
	s.Equal(sender.ID, row.SenderID)
	s.Equal("Asha", row.SenderName)
	s.Equal("asha@example.com", row.SenderEmail)
	s.Equal(2, row.ShipmentCount)
	s.Equal(15, row.TotalQuantity)
	s.Equal(30.0, row.TotalPrice)
	s.Equal(20.0, row.UnpaidPrice)
}

func (s *RepositoryIntegrationTestSuite) TestSenderTotalsRespectsWindow() {
	s.Require().NoError(s.shipments.Save(s.ctx, s.newShipment("sender-1", 10, 1.0)))

	totals, err := s.shipments.SenderTotals(s.ctx, domain.ShipmentFilter{
		Since: time.Now().UTC().Add(time.Hour),
	})
	s.Require().NoError(err)
	s.Empty(totals)
}

func (s *RepositoryIntegrationTestSuite) TestWeeklyProduction() {
	s.Require().NoError(s.shipments.Save(s.ctx, s.newShipment("sender-1", 10, 1.0)))
	s.Require().NoError(s.shipments.Save(s.ctx, s.newShipment("sender-1", 5, 1.0)))

	buckets, err := s.shipments.WeeklyProduction(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(buckets, 1)
	s.Equal(2, buckets[0].ShipmentCount)
	s.Equal(15, buckets[0].TotalQuantity)
	s.GreaterOrEqual(buckets[0].DayOfWeek, 1)
	s.LessOrEqual(buckets[0].DayOfWeek, 7)
}
