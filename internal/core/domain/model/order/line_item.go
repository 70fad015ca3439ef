package order

import (
	"errors"
	"fmt"
	"slices"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/menu"
	"pos/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// LineItem is one cart entry for a menu selection, variation and addon
// combination.
type LineItem struct {
	lineID        kernel.UUID
	menuItemID    string
	name          string
	variation     string
	unitPrice     decimal.Decimal
	basePrice     decimal.Decimal
	quantity      int
	note          string
	addons        []menu.Addon
	dispatchState DispatchState
}

func newLineItem(entry menu.Entry, variation menu.Variation, addons []menu.Addon) (*LineItem, error) {
	if entry.ID == "" {
		return nil, errs.NewValueIsRequiredError("menu item id")
	}
	unit := variation.Price
	for _, a := range addons {
		if err := kernel.NonNegative("addon price", a.Price); err != nil {
			return nil, err
		}
		unit = unit.Add(a.Price)
	}
	return &LineItem{
		lineID:        kernel.NewUUID(),
		menuItemID:    entry.ID,
		name:          entry.Name,
		variation:     variation.Name,
		unitPrice:     unit,
		basePrice:     variation.Price,
		quantity:      1,
		addons:        slices.Clone(addons),
		dispatchState: Pending,
	}, nil
}

// LineItemParams carries a persisted line back into the domain.
type LineItemParams struct {
	LineID        kernel.UUID
	MenuItemID    string
	Name          string
	Variation     string
	UnitPrice     decimal.Decimal
	BasePrice     decimal.Decimal
	Quantity      int
	Note          string
	Addons        []menu.Addon
	DispatchState DispatchState
}

// RestoreLineItem rebuilds a line read from storage.
func RestoreLineItem(p LineItemParams) (*LineItem, error) {
	var qtyErr error
	if p.Quantity < 1 {
		qtyErr = errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", p.Quantity))
	}
	var idErr error
	if p.MenuItemID == "" {
		idErr = errs.NewValueIsRequiredError("menu item id")
	}
	if err := errors.Join(
		p.LineID.Validate(),
		idErr,
		qtyErr,
		kernel.NonNegative("unit price", p.UnitPrice),
		kernel.NonNegative("base price", p.BasePrice),
		p.DispatchState.Validate(),
	); err != nil {
		return nil, err
	}
	return &LineItem{
		lineID:        p.LineID,
		menuItemID:    p.MenuItemID,
		name:          p.Name,
		variation:     p.Variation,
		unitPrice:     p.UnitPrice,
		basePrice:     p.BasePrice,
		quantity:      p.Quantity,
		note:          p.Note,
		addons:        slices.Clone(p.Addons),
		dispatchState: p.DispatchState,
	}, nil
}

func (l *LineItem) LineID() kernel.UUID {
	return l.lineID
}

func (l *LineItem) MenuItemID() string {
	return l.menuItemID
}

func (l *LineItem) Name() string {
	return l.name
}

func (l *LineItem) Variation() string {
	return l.variation
}

func (l *LineItem) UnitPrice() decimal.Decimal {
	return l.unitPrice
}

func (l *LineItem) BasePrice() decimal.Decimal {
	return l.basePrice
}

func (l *LineItem) Quantity() int {
	return l.quantity
}

func (l *LineItem) Note() string {
	return l.note
}

func (l *LineItem) Addons() []menu.Addon {
	return slices.Clone(l.addons)
}

func (l *LineItem) DispatchState() DispatchState {
	return l.dispatchState
}

func (l *LineItem) IsPending() bool {
	return l.dispatchState == Pending
}

func (l *LineItem) LineTotal() decimal.Decimal {
	return l.unitPrice.Mul(decimal.NewFromInt(int64(l.quantity)))
}

// snapshot returns a deep copy that later cart edits cannot reach.
func (l *LineItem) snapshot() LineItem {
	cp := *l
	cp.addons = slices.Clone(l.addons)
	return cp
}

// mergeable reports whether adding one more of (entry, variation) without
// addons can increment this line instead of creating a new one.
func (l *LineItem) mergeable(entry menu.Entry, variation menu.Variation) bool {
	return l.dispatchState == Pending &&
		l.menuItemID == entry.ID &&
		l.variation == variation.Name &&
		l.unitPrice.Equal(variation.Price) &&
		l.note == "" &&
		len(l.addons) == 0
}
