// Package menu describes the catalog entries the cart is built from. The
// catalog itself is owned by master-data tooling; the POS only reads it.
package menu

import (
	"fmt"

	"pos/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrNoPriceAvailable is returned when an entry has no priced variation to sell.
var ErrNoPriceAvailable = errs.NewValueIsRequiredError("no price available")

// Variation is one sellable size or format of an entry.
type Variation struct {
	Name  string          `yaml:"name"`
	Price decimal.Decimal `yaml:"price"`
}

// Priced reports whether the variation can be sold. Zero-priced variations are
// placeholders in the catalog and are not offered at the till.
func (v Variation) Priced() bool {
	return v.Price.IsPositive()
}

// Addon is a chargeable extra attached to a line at creation time.
type Addon struct {
	ID    string          `yaml:"id"`
	Name  string          `yaml:"name"`
	Price decimal.Decimal `yaml:"price"`
}

// AddonGroup groups the extras offered for an entry (sauces, toppings, ...).
type AddonGroup struct {
	Name   string  `yaml:"name"`
	Addons []Addon `yaml:"addons"`
}

// Entry is a catalog item.
type Entry struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Variations  []Variation  `yaml:"variations"`
	AddonGroups []AddonGroup `yaml:"addon_groups"`
}

// PricedVariations returns the variations that carry a price, in catalog order.
func (e Entry) PricedVariations() []Variation {
	priced := make([]Variation, 0, len(e.Variations))
	for _, v := range e.Variations {
		if v.Priced() {
			priced = append(priced, v)
		}
	}
	return priced
}

// SelectVariation resolves the variation to sell. An empty name picks the
// first priced variation.
func (e Entry) SelectVariation(name string) (Variation, error) {
	priced := e.PricedVariations()
	if len(priced) == 0 {
		return Variation{}, ErrNoPriceAvailable
	}
	if name == "" {
		return priced[0], nil
	}
	for _, v := range priced {
		if v.Name == name {
			return v, nil
		}
	}
	return Variation{}, errs.NewValueIsInvalidErrorWithCause(
		"variation",
		fmt.Errorf("%q is not a priced variation of %s", name, e.Name),
	)
}

// Addon looks an extra up across all addon groups of the entry.
func (e Entry) Addon(id string) (Addon, bool) {
	for _, g := range e.AddonGroups {
		for _, a := range g.Addons {
			if a.ID == id {
				return a, true
			}
		}
	}
	return Addon{}, false
}

// ResolveAddons maps addon IDs to the entry's extras, rejecting unknown IDs.
func (e Entry) ResolveAddons(ids []string) ([]Addon, error) {
	addons := make([]Addon, 0, len(ids))
	for _, id := range ids {
		a, ok := e.Addon(id)
		if !ok {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"addon",
				fmt.Errorf("%q is not offered with %s", id, e.Name),
			)
		}
		addons = append(addons, a)
	}
	return addons, nil
}
