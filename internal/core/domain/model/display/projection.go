// Package display defines the read-only projection of a cart that customer
// facing screens render. Projections are versioned; a consumer must reject a
// version it does not know instead of guessing.
package display

import (
	"encoding/json"
	"fmt"
	"time"

	"pos/internal/core/domain/model/order"
	"pos/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// SchemaVersion is the projection layout produced by this package.
const SchemaVersion = 1

type Item struct {
	Name      string          `json:"name"`
	Variation string          `json:"variation,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	Addons    []string        `json:"addons,omitempty"`
	Note      string          `json:"note,omitempty"`
}

type TaxLine struct {
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// Projection mirrors the cart and its billing for a secondary display.
type Projection struct {
	Version     int             `json:"version"`
	Terminal    string          `json:"terminal"`
	OrderID     string          `json:"order_id"`
	Items       []Item          `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	TaxLines    []TaxLine       `json:"tax_lines"`
	Tip         decimal.Decimal `json:"tip"`
	Total       decimal.Decimal `json:"total"`
	PublishedAt time.Time       `json:"published_at"`
}

// FromOrder projects the current state of an order.
func FromOrder(terminal string, o *order.Order, now time.Time) Projection {
	totals := o.Totals()
	p := Projection{
		Version:     SchemaVersion,
		Terminal:    terminal,
		OrderID:     o.ID().String(),
		Items:       make([]Item, 0, len(o.Items())),
		Subtotal:    totals.Subtotal,
		Discount:    totals.Discount,
		TaxLines:    make([]TaxLine, 0, len(totals.TaxLines)),
		Tip:         totals.Tip,
		Total:       totals.GrandTotal,
		PublishedAt: now,
	}
	for _, l := range o.Items() {
		var addons []string
		for _, a := range l.Addons() {
			addons = append(addons, a.Name)
		}
		p.Items = append(p.Items, Item{
			Name:      l.Name(),
			Variation: l.Variation(),
			Quantity:  l.Quantity(),
			UnitPrice: l.UnitPrice(),
			LineTotal: l.LineTotal(),
			Addons:    addons,
			Note:      l.Note(),
		})
	}
	for _, tl := range totals.TaxLines {
		p.TaxLines = append(p.TaxLines, TaxLine{Name: tl.Name, Rate: tl.Rate, Amount: tl.Amount})
	}
	return p
}

// Encode serializes the projection as JSON.
func Encode(p Projection) ([]byte, error) {
	if p.Version != SchemaVersion {
		return nil, errs.NewVersionIsInvalidError("projection", fmt.Errorf("cannot encode version %d", p.Version))
	}
	return json.Marshal(p)
}

// Decode parses a projection and rejects unknown schema versions.
func Decode(data []byte) (Projection, error) {
	var p Projection
	if err := json.Unmarshal(data, &p); err != nil {
		return Projection{}, errs.NewValueIsInvalidErrorWithCause("projection", err)
	}
	if p.Version != SchemaVersion {
		return Projection{}, errs.NewVersionIsInvalidError("projection", fmt.Errorf("got %d, want %d", p.Version, SchemaVersion))
	}
	return p, nil
}
