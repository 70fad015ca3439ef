package salesrepo_test

import (
	"context"
	"testing"
	"time"

	"pos/internal/adapters/out/postgres/salesrepo"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type SalesHistoryIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	history   *salesrepo.GormSalesHistory
}

func (suite *SalesHistoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&salesrepo.SaleDTO{}))
	suite.history = salesrepo.NewGormSalesHistory(db)
}

func (suite *SalesHistoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE sales_history").Error)
}

func (suite *SalesHistoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *SalesHistoryIntegrationTestSuite) TestAppend_IsIdempotentPerOrder() {
	ctx := context.Background()
	record := ports.SaleRecord{
		OrderID:    "0b6c3c2e-8f55-4f8e-a3f5-3d4c1f1d2a10",
		OrderType:  "DineIn",
		Status:     "Settled",
		TableID:    "t1",
		Subtotal:   decimal.RequireFromString("25"),
		Discount:   decimal.RequireFromString("2.5"),
		TaxTotal:   decimal.RequireFromString("1.575"),
		GrandTotal: decimal.RequireFromString("24.075"),
		Paid:       decimal.RequireFromString("25"),
		Payments:   []order.Payment{{Method: "cash", Amount: decimal.RequireFromString("25")}},
		ClosedAt:   time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC),
	}

	suite.Require().NoError(suite.history.Append(ctx, record))
	suite.Require().NoError(suite.history.Append(ctx, record))

	var stored []salesrepo.SaleDTO
	suite.Require().NoError(suite.db.Find(&stored).Error)
	suite.Require().Len(stored, 1)
	suite.True(stored[0].GrandTotal.Equal(record.GrandTotal))
	suite.Require().Len(stored[0].Payments, 1)
	suite.Equal("cash", stored[0].Payments[0].Method)
	suite.True(stored[0].Payments[0].Amount.Equal(decimal.RequireFromString("25")))
}

func TestSalesHistoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(SalesHistoryIntegrationTestSuite))
}
