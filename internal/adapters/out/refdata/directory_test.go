package refdata_test

import (
	"path/filepath"
	"testing"

	"pos/internal/adapters/out/refdata"
	"pos/internal/core/domain/model/menu"
	"pos/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	d, err := refdata.Load(filepath.Join("testdata", "outlet.yaml"))
	require.NoError(t, err)

	t.Run("should load settings", func(t *testing.T) {
		assert.Equal(t, "Harbour Kitchen", d.Outlet())
		assert.True(t, d.SoundEnabled())
		assert.True(t, d.PaymentMethodEnabled("card"))
		assert.False(t, d.PaymentMethodEnabled("voucher"))
	})

	t.Run("should load the catalog with exact prices", func(t *testing.T) {
		pasta, ok := d.MenuEntry("pasta")
		require.True(t, ok)
		assert.True(t, pasta.Variations[0].Price.Equal(decimal.RequireFromString("12.5")))
		assert.True(t, pasta.AddonGroups[0].Addons[0].Price.Equal(decimal.RequireFromString("1.25")))
		assert.Len(t, d.Menu(), 3)

		bread, ok := d.MenuEntry("bread")
		require.True(t, ok)
		_, err := bread.SelectVariation("")
		require.ErrorIs(t, err, menu.ErrNoPriceAvailable)

		salad, _ := d.MenuEntry("salad")
		v, err := salad.SelectVariation("")
		require.NoError(t, err)
		assert.Equal(t, "house", v.Name)
	})

	t.Run("should load the tax schedule in order", func(t *testing.T) {
		taxes := d.TaxSchedule()
		require.Len(t, taxes, 2)
		assert.Equal(t, "vat", taxes[0].ID)
		assert.True(t, taxes[1].Rate.Equal(decimal.NewFromInt(2)))
	})

	t.Run("should resolve rosters", func(t *testing.T) {
		table, ok := d.Table("t1")
		require.True(t, ok)
		assert.Equal(t, "Terrace 1", table.Name)

		waiter, ok := d.Waiter("w1")
		require.True(t, ok)
		assert.Equal(t, "Ana", waiter.Name)

		customer, ok := d.Customer("c1")
		require.True(t, ok)
		assert.True(t, customer.Due.Equal(decimal.RequireFromString("12.3")))

		partner, ok := d.DeliveryPartner("d1")
		require.True(t, ok)
		assert.Equal(t, "Rapid Riders", partner.Name)

		_, ok = d.Table("t9")
		assert.False(t, ok)
	})

	t.Run("should not leak internal slices", func(t *testing.T) {
		d.TaxSchedule()[0].Name = "changed"
		assert.Equal(t, "VAT", d.TaxSchedule()[0].Name)
	})
}

func TestParse(t *testing.T) {
	t.Run("should reject unknown fields", func(t *testing.T) {
		_, err := refdata.Parse([]byte("outlet: x\ntabels: []\n"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "tabels")
	})

	t.Run("should reject an invalid tax schedule", func(t *testing.T) {
		_, err := refdata.Parse([]byte("taxes:\n  - id: vat\n    rate: -1\n"))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject duplicate menu entries", func(t *testing.T) {
		_, err := refdata.Parse([]byte("menu:\n  - id: a\n    name: A\n  - id: a\n    name: B\n"))

		require.ErrorContains(t, err, "duplicate menu entry")
	})

	t.Run("should fail on a missing file", func(t *testing.T) {
		_, err := refdata.Load(filepath.Join(t.TempDir(), "missing.yaml"))

		require.ErrorContains(t, err, "failed to read reference data")
	})
}
