package order

import (
	"errors"
	"fmt"
	"slices"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Payment is an amount tendered with one payment method.
type Payment struct {
	Method string
	Amount decimal.Decimal
}

// NewPayment requires a method and a positive amount.
func NewPayment(method string, amount decimal.Decimal) (Payment, error) {
	if method == "" {
		return Payment{}, errs.NewValueIsRequiredError("payment method")
	}
	if !amount.IsPositive() {
		return Payment{}, errs.NewValueIsInvalidErrorWithCause("payment amount", fmt.Errorf("%s is not greater than 0", amount))
	}
	return Payment{Method: method, Amount: amount}, nil
}

// SumPayments adds the amounts of payments.
func SumPayments(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Split is an independently payable share of an order.
type Split struct {
	id       kernel.UUID
	label    string
	amount   decimal.Decimal
	lineIDs  []kernel.UUID
	payments []Payment
}

// NewSplit creates a share of amount, optionally tied to specific lines.
func NewSplit(id kernel.UUID, label string, amount decimal.Decimal, lineIDs []kernel.UUID) (*Split, error) {
	var amountErr error
	if !amount.IsPositive() {
		amountErr = errs.NewValueIsInvalidErrorWithCause("split amount", fmt.Errorf("%s is not greater than 0", amount))
	}
	if err := errors.Join(id.Validate(), amountErr); err != nil {
		return nil, err
	}
	return &Split{
		id:      id,
		label:   label,
		amount:  amount,
		lineIDs: slices.Clone(lineIDs),
	}, nil
}

// RestoreSplit rebuilds a persisted split with its payments.
func RestoreSplit(id kernel.UUID, label string, amount decimal.Decimal, lineIDs []kernel.UUID, payments []Payment) (*Split, error) {
	s, err := NewSplit(id, label, amount, lineIDs)
	if err != nil {
		return nil, err
	}
	s.payments = slices.Clone(payments)
	return s, nil
}

func (s *Split) ID() kernel.UUID {
	return s.id
}

func (s *Split) Label() string {
	return s.label
}

func (s *Split) Amount() decimal.Decimal {
	return s.amount
}

func (s *Split) LineIDs() []kernel.UUID {
	return slices.Clone(s.lineIDs)
}

func (s *Split) Payments() []Payment {
	return slices.Clone(s.payments)
}

func (s *Split) PaidAmount() decimal.Decimal {
	return SumPayments(s.payments)
}

// AddPayment records a tender against this split.
func (s *Split) AddPayment(p Payment) {
	s.payments = append(s.payments, p)
}

// Paid reports whether the split's payments cover its amount.
func (s *Split) Paid() bool {
	return kernel.Covers(s.PaidAmount(), s.amount)
}

func (s *Split) clone() *Split {
	cp := *s
	cp.lineIDs = slices.Clone(s.lineIDs)
	cp.payments = slices.Clone(s.payments)
	return &cp
}
