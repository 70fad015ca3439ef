package order_test

import (
	"testing"

	"pos/internal/core/domain/model/order"
	"pos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Transitions(t *testing.T) {
	t.Run("should settle an open order", func(t *testing.T) {
		next, err := order.Open.Settle()

		require.NoError(t, err)
		assert.Equal(t, order.Settled, next)
	})

	t.Run("should close an open order on account", func(t *testing.T) {
		next, err := order.Open.CloseOnAccount()

		require.NoError(t, err)
		assert.Equal(t, order.OnAccount, next)
		assert.True(t, next.IsClosed())
	})

	t.Run("should reject leaving a closed status", func(t *testing.T) {
		for _, s := range []order.Status{order.Settled, order.Cancelled, order.OnAccount} {
			_, err := s.Settle()
			require.ErrorIs(t, err, errs.ErrInvalidState)

			_, err = s.Cancel()
			require.ErrorIs(t, err, errs.ErrInvalidState)
			assert.Contains(t, err.Error(), s.String())
		}
	})

	t.Run("should not treat open as closed", func(t *testing.T) {
		assert.False(t, order.Open.IsClosed())
	})
}

func TestStatus_Validate(t *testing.T) {
	t.Run("should accept named statuses", func(t *testing.T) {
		for _, s := range []order.Status{order.Open, order.Settled, order.Cancelled, order.OnAccount} {
			require.NoError(t, s.Validate())
		}
	})

	t.Run("should reject unknown statuses", func(t *testing.T) {
		require.ErrorIs(t, order.UnknownStatus.Validate(), errs.ErrValueIsInvalid)
		require.ErrorIs(t, order.Status(42).Validate(), errs.ErrValueIsInvalid)
		assert.Equal(t, "Unknown", order.Status(42).String())
	})
}

func TestType(t *testing.T) {
	t.Run("should parse every channel name", func(t *testing.T) {
		for _, ty := range []order.Type{order.DineIn, order.Delivery, order.Pickup, order.Messaging} {
			parsed, err := order.ParseType(ty.String())

			require.NoError(t, err)
			assert.Equal(t, ty, parsed)
		}
	})

	t.Run("should reject an unknown channel", func(t *testing.T) {
		_, err := order.ParseType("drive-through")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		require.Error(t, order.UnknownType.Validate())
	})
}

func TestDispatchState_Validate(t *testing.T) {
	require.NoError(t, order.Pending.Validate())
	require.NoError(t, order.Dispatched.Validate())
	require.Error(t, order.UnknownDispatchState.Validate())
	assert.Equal(t, "Sent", order.Sent.String())
	assert.Equal(t, "NotSent", order.NotSent.String())
}
