package session_test

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pos/internal/core/application/session"
	"pos/internal/core/application/usecases/commands"
	"pos/internal/core/domain/model/billing"
	"pos/internal/core/domain/model/display"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var now = time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type stubDirectory struct{}

func (stubDirectory) MenuEntry(id string) (menu.Entry, bool) {
	for _, e := range (stubDirectory{}).Menu() {
		if e.ID == id {
			return e, true
		}
	}
	return menu.Entry{}, false
}

func (stubDirectory) Menu() []menu.Entry {
	return []menu.Entry{
		{ID: "pasta", Name: "Pasta", Variations: []menu.Variation{{Name: "regular", Price: dec("10")}}},
		{ID: "salad", Name: "Salad", Variations: []menu.Variation{{Name: "side", Price: dec("5")}}},
		{ID: "bread", Name: "Bread", Variations: []menu.Variation{{Name: "basket", Price: decimal.Zero}}},
	}
}

func (stubDirectory) TaxSchedule() billing.TaxSchedule {
	return billing.TaxSchedule{
		{ID: "vat", Name: "VAT", Rate: dec("5")},
		{ID: "svc", Name: "Service", Rate: dec("2")},
	}
}

func (stubDirectory) Table(id string) (ports.Table, bool) {
	return ports.Table{ID: id, Name: "Table " + id}, id == "t1" || id == "t2"
}

func (stubDirectory) Waiter(id string) (ports.Person, bool) {
	return ports.Person{ID: id}, id == "w1"
}

func (stubDirectory) Customer(id string) (ports.Customer, bool) {
	return ports.Customer{ID: id}, id == "c1"
}

func (stubDirectory) DeliveryPartner(id string) (ports.Person, bool) {
	return ports.Person{ID: id}, id == "d1"
}

func (stubDirectory) PaymentMethodEnabled(string) bool {
	return true
}

func (stubDirectory) SoundEnabled() bool {
	return false
}

// recordingDisplay keeps every projection it was handed.
type recordingDisplay struct {
	mu          sync.Mutex
	projections []display.Projection
	err         error
}

func (d *recordingDisplay) Publish(_ context.Context, p display.Projection) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.projections = append(d.projections, p)
	return d.err
}

func (d *recordingDisplay) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.projections)
}

func (d *recordingDisplay) last() display.Projection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.projections[len(d.projections)-1]
}

type MockOrderFinder struct{ mock.Mock }

func (m *MockOrderFinder) GetOpenByTable(ctx context.Context, tableID string) (*order.Order, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockDispatcher struct{ mock.Mock }

func (m *MockDispatcher) Handle(ctx context.Context, cmd commands.DispatchOrderCommand) (commands.DispatchOrderResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.DispatchOrderResult), args.Error(1)
}

type MockFinalizer struct{ mock.Mock }

func (m *MockFinalizer) Handle(ctx context.Context, cmd commands.FinalizeSaleCommand) (commands.FinalizeSaleResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.FinalizeSaleResult), args.Error(1)
}

type MockCanceller struct{ mock.Mock }

func (m *MockCanceller) Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type fixture struct {
	orders     *MockOrderFinder
	dispatcher *MockDispatcher
	finalizer  *MockFinalizer
	canceller  *MockCanceller
	display    *recordingDisplay
	controller *session.Controller
}

func newFixture() *fixture {
	f := &fixture{
		orders:     new(MockOrderFinder),
		dispatcher: new(MockDispatcher),
		finalizer:  new(MockFinalizer),
		canceller:  new(MockCanceller),
		display:    &recordingDisplay{},
	}
	f.controller = session.NewController(
		"till-1", stubDirectory{}, f.orders, f.dispatcher, f.finalizer, f.canceller, f.display,
		func() time.Time { return now }, slog.New(slog.DiscardHandler),
	)
	return f
}

