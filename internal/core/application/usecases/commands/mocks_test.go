package commands_test

import (
	"context"
	"testing"
	"time"

	"pos/internal/core/application/usecases/commands"
	"pos/internal/core/domain/model/billing"
	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)

func clock() time.Time {
	return now
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decEq(s string) any {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(dec(s)) })
}

var (
	pasta = menu.Entry{ID: "pasta", Name: "Pasta", Variations: []menu.Variation{{Name: "regular", Price: dec("10")}}}
	salad = menu.Entry{ID: "salad", Name: "Salad", Variations: []menu.Variation{{Name: "side", Price: dec("5")}}}
)

// referenceOrder is two pasta and a salad on table t1, 10% off, taxed 5%
// and 2%: grand total 24.075.
func referenceOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), order.DineIn, billing.TaxSchedule{
		{ID: "vat", Name: "VAT", Rate: dec("5")},
		{ID: "svc", Name: "Service", Rate: dec("2")},
	}, now)
	require.NoError(t, err)
	require.NoError(t, o.BindTable("t1"))
	line, err := o.AddItem(pasta, "", nil)
	require.NoError(t, err)
	require.NoError(t, o.UpdateQuantity(line, 2))
	_, err = o.AddItem(salad, "", nil)
	require.NoError(t, err)
	discount, err := billing.NewDiscount(billing.PercentageDiscount, dec("10"))
	require.NoError(t, err)
	require.NoError(t, o.ApplyDiscount(discount))
	return o
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Exists(ctx context.Context, id kernel.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetOpenByTable(ctx context.Context, tableID string) (*order.Order, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockTicketRepository struct{ mock.Mock }

func (m *MockTicketRepository) Add(ctx context.Context, t *kitchen.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTicketRepository) Update(ctx context.Context, t *kitchen.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTicketRepository) Get(ctx context.Context, id kernel.UUID) (*kitchen.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*kitchen.Ticket), args.Error(1)
}

func (m *MockTicketRepository) NextNumber(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockTicketRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*kitchen.Ticket, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*kitchen.Ticket), args.Error(1)
}

type MockCustomerLedger struct{ mock.Mock }

func (m *MockCustomerLedger) AddDue(ctx context.Context, customerID string, amount decimal.Decimal) error {
	args := m.Called(ctx, customerID, amount)
	return args.Error(0)
}

// MockUoW serves every unit of work shape used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) TicketRepository() ports.TicketRepository {
	args := m.Called()
	return args.Get(0).(ports.TicketRepository)
}

func (m *MockUoW) CustomerLedger() ports.CustomerLedger {
	args := m.Called()
	return args.Get(0).(ports.CustomerLedger)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockDispatchUoWFactory struct{ mock.Mock }

func (m *MockDispatchUoWFactory) Create() commands.DispatchUoW {
	args := m.Called()
	return args.Get(0).(commands.DispatchUoW)
}

type MockSettlementUoWFactory struct{ mock.Mock }

func (m *MockSettlementUoWFactory) Create() commands.SettlementUoW {
	args := m.Called()
	return args.Get(0).(commands.SettlementUoW)
}

type MockTicketUoWFactory struct{ mock.Mock }

func (m *MockTicketUoWFactory) Create() commands.TicketUoW {
	args := m.Called()
	return args.Get(0).(commands.TicketUoW)
}

type MockDirectory struct{ mock.Mock }

func (m *MockDirectory) MenuEntry(id string) (menu.Entry, bool) {
	args := m.Called(id)
	return args.Get(0).(menu.Entry), args.Bool(1)
}

func (m *MockDirectory) Menu() []menu.Entry {
	args := m.Called()
	return args.Get(0).([]menu.Entry)
}

func (m *MockDirectory) TaxSchedule() billing.TaxSchedule {
	args := m.Called()
	return args.Get(0).(billing.TaxSchedule)
}

func (m *MockDirectory) Table(id string) (ports.Table, bool) {
	args := m.Called(id)
	return args.Get(0).(ports.Table), args.Bool(1)
}

func (m *MockDirectory) Waiter(id string) (ports.Person, bool) {
	args := m.Called(id)
	return args.Get(0).(ports.Person), args.Bool(1)
}

func (m *MockDirectory) Customer(id string) (ports.Customer, bool) {
	args := m.Called(id)
	return args.Get(0).(ports.Customer), args.Bool(1)
}

func (m *MockDirectory) DeliveryPartner(id string) (ports.Person, bool) {
	args := m.Called(id)
	return args.Get(0).(ports.Person), args.Bool(1)
}

func (m *MockDirectory) PaymentMethodEnabled(method string) bool {
	args := m.Called(method)
	return args.Bool(0)
}

func (m *MockDirectory) SoundEnabled() bool {
	args := m.Called()
	return args.Bool(0)
}

type MockTicketPublisher struct{ mock.Mock }

func (m *MockTicketPublisher) PublishTicket(ctx context.Context, t *kitchen.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Play(ctx context.Context, cue ports.Cue) error {
	args := m.Called(ctx, cue)
	return args.Error(0)
}

type MockSalesHistory struct{ mock.Mock }

func (m *MockSalesHistory) Append(ctx context.Context, record ports.SaleRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type MockSalesSpool struct{ mock.Mock }

func (m *MockSalesSpool) Put(ctx context.Context, record ports.SaleRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSalesSpool) Pending(ctx context.Context, limit int) ([]ports.SpooledSale, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.SpooledSale), args.Error(1)
}

func (m *MockSalesSpool) Remove(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSalesSpool) MarkFailed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTableLifecycle struct{ mock.Mock }

func (m *MockTableLifecycle) RequestRelease(ctx context.Context, tableID string) error {
	args := m.Called(ctx, tableID)
	return args.Error(0)
}
