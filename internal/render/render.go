// Package render produces the printable text of receipts and kitchen
// tickets. Amounts are rounded to currency precision here and nowhere else.
package render

import (
	"fmt"
	"strings"
	"time"

	"pos/internal/core/domain/model/billing"
	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/ports"

	"github.com/shopspring/decimal"
)

// Width is the printable width of a line, in characters.
const Width = 40

const timeLayout = "2006-01-02 15:04"

// ReceiptHeader carries the labels printed above the items.
type ReceiptHeader struct {
	Outlet    string
	Table     string
	Waiter    string
	Customer  string
	PrintedAt time.Time
}

// Labels resolves the names printed in a receipt header.
type Labels interface {
	Outlet() string
	Table(id string) (ports.Table, bool)
	Waiter(id string) (ports.Person, bool)
	Customer(id string) (ports.Customer, bool)
}

// HeaderFor looks up the labels of an order. Unknown references print their
// raw identifier.
func HeaderFor(l Labels, o *order.Order, now time.Time) ReceiptHeader {
	h := ReceiptHeader{Outlet: l.Outlet(), PrintedAt: now}
	if id := o.TableID(); id != "" {
		h.Table = id
		if t, ok := l.Table(id); ok {
			h.Table = t.Name
		}
	}
	if id := o.WaiterID(); id != "" {
		h.Waiter = id
		if w, ok := l.Waiter(id); ok {
			h.Waiter = w.Name
		}
	}
	if id := o.CustomerID(); id != "" {
		h.Customer = id
		if c, ok := l.Customer(id); ok {
			h.Customer = c.Name
		}
	}
	return h
}

// Receipt renders an order with its totals, payments and balance.
func Receipt(h ReceiptHeader, o *order.Order) string {
	var b strings.Builder
	totals := o.Totals()

	center(&b, h.Outlet)
	rule(&b, '=')
	row(&b, "Order", reference(o.ID()))
	row(&b, "Type", o.Type().String())
	if h.Table != "" {
		row(&b, "Table", h.Table)
	}
	if h.Waiter != "" {
		row(&b, "Waiter", h.Waiter)
	}
	if h.Customer != "" {
		row(&b, "Customer", h.Customer)
	}
	row(&b, "Date", h.PrintedAt.Format(timeLayout))
	rule(&b, '-')

	for _, l := range o.Items() {
		row(&b, lineLabel(l.Quantity(), l.Name(), l.Variation()), money(l.LineTotal()))
		for _, a := range l.Addons() {
			indent(&b, "+ "+a.Name)
		}
		if l.Note() != "" {
			indent(&b, "note: "+l.Note())
		}
	}
	rule(&b, '-')

	row(&b, "Subtotal", money(totals.Subtotal))
	if !totals.Discount.IsZero() {
		row(&b, discountLabel(o.Discount()), money(totals.Discount.Neg()))
	}
	for _, t := range totals.TaxLines {
		row(&b, fmt.Sprintf("%s %s%%", t.Name, t.Rate), money(t.Amount))
	}
	if !totals.Tip.IsZero() {
		row(&b, "Tip", money(totals.Tip))
	}
	rule(&b, '=')
	row(&b, "TOTAL", money(totals.GrandTotal))

	payments := o.Payments()
	for _, s := range o.Splits() {
		payments = append(payments, s.Payments()...)
	}
	if len(payments) > 0 {
		rule(&b, '-')
		for _, p := range payments {
			row(&b, p.Method, money(p.Amount))
		}
		paid := o.PaidTotal()
		row(&b, "Paid", money(paid))
		row(&b, "Balance", money(paid.Sub(totals.GrandTotal)))
	}
	if o.Due().IsPositive() {
		row(&b, "Due", money(o.Due()))
	}
	rule(&b, '=')
	center(&b, statusLine(o.Status()))
	return b.String()
}

// KitchenTicket renders a ticket for the kitchen printer: no prices, notes
// indented under their line.
func KitchenTicket(t *kitchen.Ticket) string {
	var b strings.Builder

	center(&b, fmt.Sprintf("KITCHEN TICKET #%d", t.Number()))
	rule(&b, '=')
	row(&b, "Type", t.OrderType().String())
	if t.Labels().Table != "" {
		row(&b, "Table", t.Labels().Table)
	}
	if t.Labels().Waiter != "" {
		row(&b, "Waiter", t.Labels().Waiter)
	}
	row(&b, "Time", t.CreatedAt().Format(timeLayout))
	rule(&b, '-')
	for _, i := range t.Items() {
		b.WriteString(fit(lineLabel(i.Quantity, i.Name, i.Variation), Width))
		b.WriteByte('\n')
		for _, a := range i.Addons {
			indent(&b, "+ "+a)
		}
		if i.Note != "" {
			indent(&b, "** "+i.Note)
		}
	}
	rule(&b, '=')
	return b.String()
}

func money(d decimal.Decimal) string {
	return kernel.Format(d)
}

// reference is the short order reference printed for staff.
func reference(id kernel.UUID) string {
	return strings.ToUpper(id.String()[:8])
}

func lineLabel(qty int, name, variation string) string {
	if variation == "" {
		return fmt.Sprintf("%d x %s", qty, name)
	}
	return fmt.Sprintf("%d x %s (%s)", qty, name, variation)
}

func discountLabel(d billing.Discount) string {
	if d.Type() == billing.PercentageDiscount {
		return fmt.Sprintf("Discount %s%%", d.Value())
	}
	return "Discount"
}

func statusLine(s order.Status) string {
	switch s {
	case order.Settled:
		return "PAID - THANK YOU"
	case order.OnAccount:
		return "CHARGED TO ACCOUNT"
	case order.Cancelled:
		return "CANCELLED"
	default:
		return "NOT PAID"
	}
}

// row prints left and right aligned to the edges, shortening left if needed.
func row(b *strings.Builder, left, right string) {
	room := Width - len([]rune(right)) - 1
	left = fit(left, room)
	fmt.Fprintf(b, "%-*s %s\n", room, left, right)
}

func indent(b *strings.Builder, text string) {
	b.WriteString("    ")
	b.WriteString(fit(text, Width-4))
	b.WriteByte('\n')
}

func center(b *strings.Builder, text string) {
	text = fit(text, Width)
	pad := (Width - len([]rune(text))) / 2
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(text)
	b.WriteByte('\n')
}

func rule(b *strings.Builder, c byte) {
	b.WriteString(strings.Repeat(string(c), Width))
	b.WriteByte('\n')
}

func fit(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
