package session_test

import (
	"errors"
	"sync"
	"testing"

	"pos/internal/core/application/session"
	"pos/internal/core/application/usecases/commands"
	"pos/internal/core/domain/model/billing"
	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/domain/services"
	"pos/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// buildReferenceCart puts 2 pasta and 1 salad with 10% off on table t1.
func buildReferenceCart(t *testing.T, f *fixture) kernel.UUID {
	t.Helper()
	ctx := t.Context()
	f.orders.On("GetOpenByTable", mock.Anything, "t1").
		Return(nil, errs.NewObjectNotFoundError("open order for table", "t1")).Once()

	require.NoError(t, f.controller.OpenTable(ctx, "t1"))
	pasta, err := f.controller.AddItem(ctx, "pasta", "", nil)
	require.NoError(t, err)
	_, err = f.controller.AddItem(ctx, "pasta", "", nil)
	require.NoError(t, err)
	_, err = f.controller.AddItem(ctx, "salad", "", nil)
	require.NoError(t, err)
	discount, err := billing.NewDiscount(billing.PercentageDiscount, dec("10"))
	require.NoError(t, err)
	require.NoError(t, f.controller.ApplyDiscount(ctx, discount))
	return pasta
}

func TestController_Cart(t *testing.T) {
	t.Run("should start an order on the first item and mirror it", func(t *testing.T) {
		f := newFixture()

		assert.Nil(t, f.controller.Order())
		lineID, err := f.controller.AddItem(t.Context(), "pasta", "", nil)

		require.NoError(t, err)
		o := f.controller.Order()
		require.NotNil(t, o)
		assert.Equal(t, order.DineIn, o.Type())
		item, ok := o.Item(lineID)
		require.True(t, ok)
		assert.Equal(t, "Pasta", item.Name())

		require.Equal(t, 1, f.display.count())
		p := f.display.last()
		assert.Equal(t, "till-1", p.Terminal)
		assert.Equal(t, o.ID().String(), p.OrderID)
		assert.True(t, p.Subtotal.Equal(dec("10")))
	})

	t.Run("should reproduce the reference totals", func(t *testing.T) {
		f := newFixture()
		buildReferenceCart(t, f)

		totals := f.controller.Order().Totals()
		assert.True(t, totals.Subtotal.Equal(dec("25")))
		assert.True(t, totals.Discount.Equal(dec("2.5")))
		assert.True(t, totals.GrandTotal.Equal(dec("24.075")))
		assert.True(t, f.display.last().Total.Equal(dec("24.075")))
	})

	t.Run("should keep the order and stay silent when an operation fails", func(t *testing.T) {
		f := newFixture()
		buildReferenceCart(t, f)
		before := f.controller.Order()
		published := f.display.count()

		_, err := f.controller.AddItem(t.Context(), "bread", "", nil)
		require.ErrorIs(t, err, menu.ErrNoPriceAvailable)
		_, err = f.controller.AddItem(t.Context(), "soup", "", nil)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		require.ErrorIs(t, f.controller.RemoveItem(t.Context(), kernel.NewUUID()), errs.ErrObjectNotFound)
		require.ErrorIs(t, f.controller.SetTip(t.Context(), dec("-1")), errs.ErrValueIsInvalid)
		require.ErrorIs(t, f.controller.AssignCustomer(t.Context(), "c9"), errs.ErrObjectNotFound)

		after := f.controller.Order()
		assert.Equal(t, before.Items(), after.Items())
		assert.Equal(t, before.Totals(), after.Totals())
		assert.Equal(t, published, f.display.count())
	})

	t.Run("should hand out copies of the active order", func(t *testing.T) {
		f := newFixture()
		buildReferenceCart(t, f)

		copied := f.controller.Order()
		require.NoError(t, copied.Cancel())

		assert.Equal(t, order.Open, f.controller.Order().Status())
	})

	t.Run("should keep working when the display is unreachable", func(t *testing.T) {
		f := newFixture()
		f.display.err = errors.New("display offline")

		_, err := f.controller.AddItem(t.Context(), "salad", "", nil)

		require.NoError(t, err)
		assert.Len(t, f.controller.Order().Items(), 1)
	})

	t.Run("should reject cart operations while idle", func(t *testing.T) {
		f := newFixture()

		require.ErrorIs(t, f.controller.SetTip(t.Context(), dec("1")), session.ErrNoActiveOrder)
		require.ErrorIs(t, f.controller.BindTable(t.Context(), "t1"), session.ErrNoActiveOrder)
		require.NoError(t, f.controller.Clear(t.Context(), false))
		assert.Zero(t, f.display.count())
	})

	t.Run("should serialize concurrent calls", func(t *testing.T) {
		f := newFixture()
		lineID, err := f.controller.AddItem(t.Context(), "pasta", "", nil)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = f.controller.AddItem(t.Context(), "pasta", "", nil)
			}()
		}
		wg.Wait()

		item, ok := f.controller.Order().Item(lineID)
		require.True(t, ok)
		assert.Equal(t, 21, item.Quantity())
	})
}

func TestController_Tables(t *testing.T) {
	t.Run("should rehydrate the open order of a table", func(t *testing.T) {
		f := newFixture()
		held, err := order.NewOrder(kernel.NewUUID(), order.DineIn, stubDirectory{}.TaxSchedule(), now)
		require.NoError(t, err)
		require.NoError(t, held.BindTable("t2"))
		f.orders.On("GetOpenByTable", mock.Anything, "t2").Return(held, nil).Once()

		require.NoError(t, f.controller.OpenTable(t.Context(), "t2"))

		assert.True(t, held.IsEqual(f.controller.Order()))
		assert.Equal(t, held.ID().String(), f.display.last().OrderID)
	})

	t.Run("should start a bound order on a free table", func(t *testing.T) {
		f := newFixture()
		buildReferenceCart(t, f)

		assert.Equal(t, "t1", f.controller.Order().TableID())
	})

	t.Run("should not leave unsent items behind", func(t *testing.T) {
		f := newFixture()
		buildReferenceCart(t, f)

		err := f.controller.OpenTable(t.Context(), "t2")

		require.ErrorIs(t, err, session.ErrUnsentItems)
		require.ErrorIs(t, f.controller.Start(t.Context(), order.Pickup), session.ErrUnsentItems)
		assert.Equal(t, "t1", f.controller.Order().TableID())
	})

	t.Run("should refuse a table held by another open order", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.controller.Start(t.Context(), order.DineIn))
		other, err := order.NewOrder(kernel.NewUUID(), order.DineIn, nil, now)
		require.NoError(t, err)
		f.orders.On("GetOpenByTable", mock.Anything, "t2").Return(other, nil).Once()

		err = f.controller.BindTable(t.Context(), "t2")

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Empty(t, f.controller.Order().TableID())
	})

	t.Run("should reject unknown tables", func(t *testing.T) {
		f := newFixture()

		require.ErrorIs(t, f.controller.OpenTable(t.Context(), "t9"), errs.ErrObjectNotFound)
		f.orders.AssertNotCalled(t, "GetOpenByTable", mock.Anything, mock.Anything)
	})
}

func TestController_Dispatch(t *testing.T) {
	t.Run("should adopt the dispatched order", func(t *testing.T) {
		f := newFixture()
		buildReferenceCart(t, f)
		sent := f.controller.Order()
		_, err := sent.MarkDispatched()
		require.NoError(t, err)
		ticket := &kitchen.Ticket{}
		f.dispatcher.On("Handle", mock.Anything, mock.AnythingOfType("commands.DispatchOrderCommand")).
			Return(commands.DispatchOrderResult{Order: sent, Ticket: ticket}, nil).Once()

		got, err := f.controller.Dispatch(t.Context())

		require.NoError(t, err)
		assert.Same(t, ticket, got)
		assert.False(t, f.controller.Order().HasPendingItems())
		assert.Equal(t, order.Sent, f.controller.Order().KitchenStatus())
	})

	t.Run("should keep pending lines when dispatch fails", func(t *testing.T) {
		f := newFixture()
		buildReferenceCart(t, f)
		f.dispatcher.On("Handle", mock.Anything, mock.Anything).
			Return(commands.DispatchOrderResult{}, errors.New("database is down")).Once()

		_, err := f.controller.Dispatch(t.Context())

		require.EqualError(t, err, "database is down")
		assert.True(t, f.controller.Order().HasPendingItems())
	})

	t.Run("should report nothing to send while idle", func(t *testing.T) {
		f := newFixture()

		_, err := f.controller.Dispatch(t.Context())

		require.ErrorIs(t, err, services.ErrNoNewItems)
		f.dispatcher.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("should not clear an order the kitchen is working on", func(t *testing.T) {
		f := newFixture()
		buildReferenceCart(t, f)
		sent := f.controller.Order()
		_, err := sent.MarkDispatched()
		require.NoError(t, err)
		f.dispatcher.On("Handle", mock.Anything, mock.Anything).
			Return(commands.DispatchOrderResult{Order: sent}, nil).Once()
		_, err = f.controller.Dispatch(t.Context())
		require.NoError(t, err)

		err = f.controller.Clear(t.Context(), false)

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.True(t, sent.IsEqual(f.controller.Order()))
	})
}

func TestController_Finalize(t *testing.T) {
	finalized := func(t *testing.T, f *fixture, payments []order.Payment) commands.FinalizeSaleResult {
		t.Helper()
		work := f.controller.Order()
		settlement, err := services.NewSettlementEngine().Finalize(work, payments, decimal.Zero, nil)
		require.NoError(t, err)
		return commands.FinalizeSaleResult{Order: work, Settlement: settlement}
	}

	t.Run("should clear the cart once the sale is settled", func(t *testing.T) {
		f := newFixture()
		buildReferenceCart(t, f)
		before := f.controller.Order()
		payments := []order.Payment{{Method: "cash", Amount: dec("24.075")}}
		f.finalizer.On("Handle", mock.Anything, mock.AnythingOfType("commands.FinalizeSaleCommand")).
			Return(finalized(t, f, payments), nil).Once()

		result, err := f.controller.Finalize(t.Context(), payments, decimal.Zero, nil)

		require.NoError(t, err)
		assert.True(t, result.Settlement.Settled)
		assert.True(t, result.Settlement.Balance.IsZero())
		after := f.controller.Order()
		assert.False(t, before.IsEqual(after), "a fresh order ID")
		assert.True(t, after.IsEmpty())
		assert.Empty(t, after.TableID())
		assert.Equal(t, order.Open, after.Status())
		assert.True(t, f.display.last().Total.IsZero())
	})

	t.Run("should keep a short sale without customer open", func(t *testing.T) {
		f := newFixture()
		buildReferenceCart(t, f)
		payments := []order.Payment{{Method: "cash", Amount: dec("20")}}
		f.finalizer.On("Handle", mock.Anything, mock.Anything).
			Return(finalized(t, f, payments), nil).Once()

		result, err := f.controller.Finalize(t.Context(), payments, decimal.Zero, nil)

		require.NoError(t, err)
		assert.False(t, result.Settlement.Settled)
		assert.True(t, result.Settlement.Due.Equal(dec("4.075")))
		active := f.controller.Order()
		assert.Equal(t, order.Open, active.Status())
		assert.Len(t, active.Payments(), 1)
	})

	t.Run("should retain the order when storing the sale fails", func(t *testing.T) {
		f := newFixture()
		buildReferenceCart(t, f)
		before := f.controller.Order()
		f.finalizer.On("Handle", mock.Anything, mock.Anything).
			Return(commands.FinalizeSaleResult{}, errors.New("database is down")).Once()

		_, err := f.controller.Finalize(t.Context(), []order.Payment{{Method: "cash", Amount: dec("30")}}, decimal.Zero, nil)

		require.Error(t, err)
		assert.True(t, before.IsEqual(f.controller.Order()))
		assert.Empty(t, f.controller.Order().Payments())
	})

	t.Run("should refuse to finalize while idle", func(t *testing.T) {
		f := newFixture()

		_, err := f.controller.Finalize(t.Context(), nil, decimal.Zero, nil)

		require.ErrorIs(t, err, session.ErrNoActiveOrder)
	})
}

func TestController_Cancel(t *testing.T) {
	t.Run("should empty the cart after cancelling", func(t *testing.T) {
		f := newFixture()
		buildReferenceCart(t, f)
		cancelled := f.controller.Order()
		require.NoError(t, cancelled.Cancel())
		f.canceller.On("Handle", mock.Anything, mock.AnythingOfType("commands.CancelOrderCommand")).
			Return(cancelled, nil).Once()

		require.NoError(t, f.controller.Cancel(t.Context()))

		after := f.controller.Order()
		assert.False(t, cancelled.IsEqual(after))
		assert.True(t, after.IsEmpty())
		assert.Equal(t, order.Open, after.Status())
	})

	t.Run("should keep the order when cancelling fails", func(t *testing.T) {
		f := newFixture()
		buildReferenceCart(t, f)
		f.canceller.On("Handle", mock.Anything, mock.Anything).Return(nil, errors.New("database is down")).Once()

		require.Error(t, f.controller.Cancel(t.Context()))
		assert.Len(t, f.controller.Order().Items(), 2)
	})
}

func TestRegistry(t *testing.T) {
	t.Run("should hand out one controller per terminal", func(t *testing.T) {
		created := 0
		registry := session.NewRegistry(func(terminal string) *session.Controller {
			created++
			return newFixture().controller
		})

		a, err := registry.Get("till-1")
		require.NoError(t, err)
		b, err := registry.Get("till-1")
		require.NoError(t, err)
		c, err := registry.Get("till-2")
		require.NoError(t, err)

		assert.Same(t, a, b)
		assert.NotSame(t, a, c)
		assert.Equal(t, 2, created)
	})

	t.Run("should require a terminal", func(t *testing.T) {
		registry := session.NewRegistry(func(string) *session.Controller { return nil })

		_, err := registry.Get("")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
