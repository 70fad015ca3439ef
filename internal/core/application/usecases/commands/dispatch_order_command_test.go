package commands_test

import (
	"testing"

	"pos/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDispatchOrderCommand(t *testing.T) {
	t.Run("should create command for a constructed order", func(t *testing.T) {
		o := referenceOrder(t)

		cmd, err := commands.NewDispatchOrderCommand(o)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Same(t, o, cmd.Order())
	})

	t.Run("should reject a nil order", func(t *testing.T) {
		_, err := commands.NewDispatchOrderCommand(nil)

		require.Error(t, err)
	})

	t.Run("should reject a zero value command", func(t *testing.T) {
		var cmd commands.DispatchOrderCommand

		require.ErrorIs(t, cmd.Validate(), commands.ErrDispatchOrderCommandIsNotConstructed)
	})
}
