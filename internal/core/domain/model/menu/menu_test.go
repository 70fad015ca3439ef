package menu_test

import (
	"testing"

	"pos/internal/core/domain/model/menu"
	"pos/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func burger() menu.Entry {
	return menu.Entry{
		ID:   "burger",
		Name: "Burger",
		Variations: []menu.Variation{
			{Name: "Kids", Price: decimal.Zero},
			{Name: "Regular", Price: decimal.NewFromInt(10)},
			{Name: "Double", Price: decimal.NewFromInt(14)},
		},
		AddonGroups: []menu.AddonGroup{{
			Name: "Extras",
			Addons: []menu.Addon{
				{ID: "cheese", Name: "Cheese", Price: decimal.RequireFromString("1.5")},
				{ID: "bacon", Name: "Bacon", Price: decimal.NewFromInt(2)},
			},
		}},
	}
}

func TestEntry_SelectVariation(t *testing.T) {
	t.Run("empty name picks first priced variation", func(t *testing.T) {
		v, err := burger().SelectVariation("")

		require.NoError(t, err)
		assert.Equal(t, "Regular", v.Name)
	})

	t.Run("named variation", func(t *testing.T) {
		v, err := burger().SelectVariation("Double")

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(14).Equal(v.Price))
	})

	t.Run("unpriced variation is rejected", func(t *testing.T) {
		_, err := burger().SelectVariation("Kids")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("entry without priced variation", func(t *testing.T) {
		entry := menu.Entry{ID: "water", Name: "Water", Variations: []menu.Variation{{Name: "Glass"}}}

		_, err := entry.SelectVariation("")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "no price available")
	})
}

func TestEntry_ResolveAddons(t *testing.T) {
	addons, err := burger().ResolveAddons([]string{"bacon", "cheese"})

	require.NoError(t, err)
	require.Len(t, addons, 2)
	assert.Equal(t, "Bacon", addons[0].Name)

	_, err = burger().ResolveAddons([]string{"pineapple"})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
