package billing

import (
	"fmt"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DiscountType selects how a discount value is interpreted.
type DiscountType int

const (
	NoDiscount DiscountType = iota
	FixedDiscount
	PercentageDiscount
)

var discountTypeNames = map[DiscountType]string{
	NoDiscount:         "none",
	FixedDiscount:      "fixed",
	PercentageDiscount: "percentage",
}

func (t DiscountType) String() string {
	if s, ok := discountTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseDiscountType accepts the names returned by String.
func ParseDiscountType(s string) (DiscountType, error) {
	for t, name := range discountTypeNames {
		if name == s {
			return t, nil
		}
	}
	return NoDiscount, errs.NewValueIsInvalidErrorWithCause("discount type", fmt.Errorf("%q is not a discount type", s))
}

// Discount is an order-level reduction applied before tax.
type Discount struct {
	kind  DiscountType
	value decimal.Decimal
}

// NewDiscount validates the value: it must not be negative, and percentages
// may not exceed 100.
func NewDiscount(kind DiscountType, value decimal.Decimal) (Discount, error) {
	if _, ok := discountTypeNames[kind]; !ok {
		return Discount{}, errs.NewValueIsInvalidErrorWithCause("discount type", fmt.Errorf("%d is not a discount type", kind))
	}
	if kind == NoDiscount {
		return Discount{}, nil
	}
	if err := kernel.NonNegative("discount", value); err != nil {
		return Discount{}, err
	}
	if kind == PercentageDiscount && value.GreaterThan(decimal.NewFromInt(100)) {
		return Discount{}, errs.NewValueIsOutOfRangeError("discount percentage", value, 0, 100)
	}
	return Discount{kind: kind, value: value}, nil
}

func (d Discount) Type() DiscountType {
	return d.kind
}

func (d Discount) Value() decimal.Decimal {
	return d.value
}

// Amount is the reduction for the given subtotal, never more than the subtotal.
func (d Discount) Amount(subtotal decimal.Decimal) decimal.Decimal {
	switch d.kind {
	case FixedDiscount:
		return kernel.Clamp(d.value, decimal.Zero, subtotal)
	case PercentageDiscount:
		return kernel.Clamp(kernel.Percent(subtotal, d.value), decimal.Zero, subtotal)
	default:
		return decimal.Zero
	}
}
