package billing_test

import (
	"testing"

	"pos/internal/core/domain/model/billing"
	"pos/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got)
}

func schedule() billing.TaxSchedule {
	return billing.TaxSchedule{
		{ID: "vat", Name: "VAT", Rate: d("5")},
		{ID: "svc", Name: "Service", Rate: d("2")},
	}
}

func TestCalculate_ReferenceExample(t *testing.T) {
	lines := []billing.Line{
		{UnitPrice: d("10"), Quantity: 2},
		{UnitPrice: d("5"), Quantity: 1},
	}
	discount, err := billing.NewDiscount(billing.PercentageDiscount, d("10"))
	require.NoError(t, err)

	totals := billing.Calculate(lines, discount, schedule(), decimal.Zero)

	assertDecimal(t, "25", totals.Subtotal)
	assertDecimal(t, "2.5", totals.Discount)
	assertDecimal(t, "22.5", totals.Taxable())
	require.Len(t, totals.TaxLines, 2)
	assertDecimal(t, "1.125", totals.TaxLines[0].Amount)
	assertDecimal(t, "0.45", totals.TaxLines[1].Amount)
	assertDecimal(t, "24.075", totals.GrandTotal)
}

func TestCalculate_TaxesAreNotCascaded(t *testing.T) {
	lines := []billing.Line{{UnitPrice: d("100"), Quantity: 1}}

	totals := billing.Calculate(lines, billing.Discount{}, schedule(), decimal.Zero)

	// 2% of 100, not 2% of 105
	assertDecimal(t, "2", totals.TaxLines[1].Amount)
	assertDecimal(t, "107", totals.GrandTotal)
}

func TestCalculate_Tip(t *testing.T) {
	lines := []billing.Line{{UnitPrice: d("10"), Quantity: 1}}

	totals := billing.Calculate(lines, billing.Discount{}, nil, d("1.5"))

	assertDecimal(t, "1.5", totals.Tip)
	assertDecimal(t, "11.5", totals.GrandTotal)
	assert.Empty(t, totals.TaxLines)
}

func TestCalculate_EmptyCart(t *testing.T) {
	totals := billing.Calculate(nil, billing.Discount{}, schedule(), decimal.Zero)

	assertDecimal(t, "0", totals.Subtotal)
	assertDecimal(t, "0", totals.GrandTotal)
	assertDecimal(t, "0", totals.TaxTotal())
}

func TestCalculate_Idempotent(t *testing.T) {
	lines := []billing.Line{{UnitPrice: d("3.33"), Quantity: 3}, {UnitPrice: d("7.1"), Quantity: 2}}
	discount, _ := billing.NewDiscount(billing.FixedDiscount, d("4"))

	first := billing.Calculate(lines, discount, schedule(), d("2"))
	second := billing.Calculate(lines, discount, schedule(), d("2"))

	assertDecimal(t, first.GrandTotal.String(), second.GrandTotal)
	require.Len(t, second.TaxLines, len(first.TaxLines))
	for i := range first.TaxLines {
		assertDecimal(t, first.TaxLines[i].Amount.String(), second.TaxLines[i].Amount)
	}
}

func TestDiscount_Amount(t *testing.T) {
	testCases := []struct {
		name     string
		kind     billing.DiscountType
		value    string
		subtotal string
		want     string
	}{
		{"fixed below subtotal", billing.FixedDiscount, "5", "25", "5"},
		{"fixed capped at subtotal", billing.FixedDiscount, "40", "25", "25"},
		{"percentage", billing.PercentageDiscount, "10", "25", "2.5"},
		{"full percentage", billing.PercentageDiscount, "100", "25", "25"},
		{"none", billing.NoDiscount, "10", "25", "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			discount, err := billing.NewDiscount(tc.kind, d(tc.value))
			require.NoError(t, err)

			assertDecimal(t, tc.want, discount.Amount(d(tc.subtotal)))
		})
	}
}

func TestNewDiscount_Validation(t *testing.T) {
	_, err := billing.NewDiscount(billing.FixedDiscount, d("-1"))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = billing.NewDiscount(billing.PercentageDiscount, d("120"))
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = billing.NewDiscount(billing.DiscountType(9), d("1"))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestParseDiscountType(t *testing.T) {
	kind, err := billing.ParseDiscountType("percentage")
	require.NoError(t, err)
	assert.Equal(t, billing.PercentageDiscount, kind)

	_, err = billing.ParseDiscountType("bogus")
	require.Error(t, err)
}

func TestTaxSchedule_Validate(t *testing.T) {
	require.NoError(t, schedule().Validate())

	dup := billing.TaxSchedule{{ID: "vat", Rate: d("5")}, {ID: "vat", Rate: d("2")}}
	require.ErrorIs(t, dup.Validate(), errs.ErrValueIsInvalid)

	negative := billing.TaxSchedule{{ID: "vat", Rate: d("-5")}}
	require.ErrorIs(t, negative.Validate(), errs.ErrValueIsInvalid)

	missing := billing.TaxSchedule{{Rate: d("5")}}
	require.ErrorIs(t, missing.Validate(), errs.ErrValueIsRequired)
}
