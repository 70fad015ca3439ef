package http

import (
	"time"

	"pos/internal/core/application/usecases/commands"
	"pos/internal/core/application/usecases/queries"
	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

type (
	MenuVariation struct {
		Name  string          `json:"name"`
		Price decimal.Decimal `json:"price"`
	}

	MenuAddon struct {
		ID    string          `json:"id"`
		Group string          `json:"group"`
		Name  string          `json:"name"`
		Price decimal.Decimal `json:"price"`
	}

	MenuEntry struct {
		ID         string          `json:"id"`
		Name       string          `json:"name"`
		Variations []MenuVariation `json:"variations"`
		Addons     []MenuAddon     `json:"addons"`
	}
)

type (
	OrderItem struct {
		LineID        string          `json:"line_id"`
		MenuItemID    string          `json:"menu_item_id"`
		Name          string          `json:"name"`
		Variation     string          `json:"variation,omitempty"`
		UnitPrice     decimal.Decimal `json:"unit_price"`
		Quantity      int             `json:"quantity"`
		Note          string          `json:"note,omitempty"`
		Addons        []string        `json:"addons,omitempty"`
		LineTotal     decimal.Decimal `json:"line_total"`
		DispatchState string          `json:"dispatch_state"`
	}

	Discount struct {
		Type  string          `json:"type"`
		Value decimal.Decimal `json:"value"`
	}

	TaxLine struct {
		ID     string          `json:"id"`
		Name   string          `json:"name"`
		Rate   decimal.Decimal `json:"rate"`
		Amount decimal.Decimal `json:"amount"`
	}

	Payment struct {
		Method string          `json:"method"`
		Amount decimal.Decimal `json:"amount"`
	}

	Split struct {
		ID       string          `json:"id"`
		Label    string          `json:"label"`
		Amount   decimal.Decimal `json:"amount"`
		Paid     bool            `json:"paid"`
		Payments []Payment       `json:"payments"`
	}

	Order struct {
		ID                string          `json:"id"`
		Type              string          `json:"type"`
		Status            string          `json:"status"`
		KitchenStatus     string          `json:"kitchen_status"`
		TableID           string          `json:"table_id,omitempty"`
		CustomerID        string          `json:"customer_id,omitempty"`
		WaiterID          string          `json:"waiter_id,omitempty"`
		DeliveryPartnerID string          `json:"delivery_partner_id,omitempty"`
		Items             []OrderItem     `json:"items"`
		Discount          Discount        `json:"discount"`
		Subtotal          decimal.Decimal `json:"subtotal"`
		DiscountAmount    decimal.Decimal `json:"discount_amount"`
		TaxLines          []TaxLine       `json:"tax_lines"`
		Tip               decimal.Decimal `json:"tip"`
		GrandTotal        decimal.Decimal `json:"grand_total"`
		Paid              decimal.Decimal `json:"paid"`
		Due               decimal.Decimal `json:"due"`
		Payments          []Payment       `json:"payments"`
		Splits            []Split         `json:"splits,omitempty"`
		CreatedAt         time.Time       `json:"created_at"`
	}
)

type (
	TicketUnit struct {
		Key     string `json:"key"`
		Label   string `json:"label"`
		Checked bool   `json:"checked"`
	}

	Ticket struct {
		ID        string       `json:"id"`
		Number    int          `json:"number"`
		OrderID   string       `json:"order_id"`
		OrderType string       `json:"order_type"`
		Table     string       `json:"table,omitempty"`
		Waiter    string       `json:"waiter,omitempty"`
		Status    string       `json:"status"`
		CreatedAt time.Time    `json:"created_at"`
		Units     []TicketUnit `json:"units"`
	}

	BoardTicket struct {
		Ticket
		ElapsedSeconds int64  `json:"elapsed_seconds"`
		Freshness      string `json:"freshness"`
		ReadyEnabled   bool   `json:"ready_enabled"`
	}

	TicketMove struct {
		Moved  bool   `json:"moved"`
		Ticket Ticket `json:"ticket"`
	}
)

type Settlement struct {
	Order     Order           `json:"order"`
	Settled   bool            `json:"settled"`
	OnAccount bool            `json:"on_account"`
	Paid      decimal.Decimal `json:"paid"`
	Balance   decimal.Decimal `json:"balance"`
	Change    decimal.Decimal `json:"change"`
	Due       decimal.Decimal `json:"due"`
}

type TableOrder struct {
	OrderID    string          `json:"order_id"`
	TableID    string          `json:"table_id"`
	WaiterID   string          `json:"waiter_id,omitempty"`
	Lines      int             `json:"lines"`
	Pending    int             `json:"pending"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	Due        decimal.Decimal `json:"due"`
	CreatedAt  time.Time       `json:"created_at"`
}

type (
	Sale struct {
		OrderID    string          `json:"order_id"`
		OrderType  string          `json:"order_type"`
		Status     string          `json:"status"`
		TableID    string          `json:"table_id,omitempty"`
		CustomerID string          `json:"customer_id,omitempty"`
		GrandTotal decimal.Decimal `json:"grand_total"`
		Paid       decimal.Decimal `json:"paid"`
		Due        decimal.Decimal `json:"due"`
		ClosedAt   time.Time       `json:"closed_at"`
	}

	SalesDay struct {
		Sales      []Sale          `json:"sales"`
		GrandTotal decimal.Decimal `json:"grand_total"`
		TaxTotal   decimal.Decimal `json:"tax_total"`
		Tips       decimal.Decimal `json:"tips"`
		Due        decimal.Decimal `json:"due"`
	}
)

func menuFromDomain(entries []menu.Entry) []MenuEntry {
	response := make([]MenuEntry, 0, len(entries))
	for _, e := range entries {
		entry := MenuEntry{
			ID:         e.ID,
			Name:       e.Name,
			Variations: make([]MenuVariation, 0, len(e.Variations)),
			Addons:     make([]MenuAddon, 0),
		}
		for _, v := range e.PricedVariations() {
			entry.Variations = append(entry.Variations, MenuVariation{Name: v.Name, Price: v.Price})
		}
		for _, g := range e.AddonGroups {
			for _, a := range g.Addons {
				entry.Addons = append(entry.Addons, MenuAddon{ID: a.ID, Group: g.Name, Name: a.Name, Price: a.Price})
			}
		}
		response = append(response, entry)
	}
	return response
}

func orderFromDomain(o *order.Order) Order {
	totals := o.Totals()
	response := Order{
		ID:                o.ID().String(),
		Type:              o.Type().String(),
		Status:            o.Status().String(),
		KitchenStatus:     o.KitchenStatus().String(),
		TableID:           o.TableID(),
		CustomerID:        o.CustomerID(),
		WaiterID:          o.WaiterID(),
		DeliveryPartnerID: o.DeliveryPartnerID(),
		Items:             make([]OrderItem, 0, len(o.Items())),
		Discount: Discount{
			Type:  o.Discount().Type().String(),
			Value: o.Discount().Value(),
		},
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.Discount,
		TaxLines:       make([]TaxLine, 0, len(totals.TaxLines)),
		Tip:            totals.Tip,
		GrandTotal:     totals.GrandTotal,
		Paid:           o.PaidTotal(),
		Due:            o.Due(),
		Payments:       paymentsFromDomain(o.Payments()),
		CreatedAt:      o.CreatedAt(),
	}
	for _, l := range o.Items() {
		var addons []string
		for _, a := range l.Addons() {
			addons = append(addons, a.Name)
		}
		response.Items = append(response.Items, OrderItem{
			LineID:        l.LineID().String(),
			MenuItemID:    l.MenuItemID(),
			Name:          l.Name(),
			Variation:     l.Variation(),
			UnitPrice:     l.UnitPrice(),
			Quantity:      l.Quantity(),
			Note:          l.Note(),
			Addons:        addons,
			LineTotal:     l.LineTotal(),
			DispatchState: l.DispatchState().String(),
		})
	}
	for _, tl := range totals.TaxLines {
		response.TaxLines = append(response.TaxLines, TaxLine{
			ID:     tl.TaxID,
			Name:   tl.Name,
			Rate:   tl.Rate,
			Amount: tl.Amount,
		})
	}
	for _, s := range o.Splits() {
		response.Splits = append(response.Splits, Split{
			ID:       s.ID().String(),
			Label:    s.Label(),
			Amount:   s.Amount(),
			Paid:     s.Paid(),
			Payments: paymentsFromDomain(s.Payments()),
		})
	}
	return response
}

func paymentsFromDomain(payments []order.Payment) []Payment {
	response := make([]Payment, 0, len(payments))
	for _, p := range payments {
		response = append(response, Payment{Method: p.Method, Amount: p.Amount})
	}
	return response
}

func ticketFromDomain(t *kitchen.Ticket) Ticket {
	labels := t.Labels()
	return Ticket{
		ID:        t.ID().String(),
		Number:    t.Number(),
		OrderID:   t.OrderID().String(),
		OrderType: t.OrderType().String(),
		Table:     labels.Table,
		Waiter:    labels.Waiter,
		Status:    t.Status().String(),
		CreatedAt: t.CreatedAt(),
		Units:     unitsFromDomain(t.Units()),
	}
}

func unitsFromDomain(units []kitchen.Unit) []TicketUnit {
	response := make([]TicketUnit, 0, len(units))
	for _, u := range units {
		response = append(response, TicketUnit{Key: u.Key, Label: u.Label, Checked: u.Checked})
	}
	return response
}

func boardFromQuery(board []queries.KitchenBoardTicket) []BoardTicket {
	response := make([]BoardTicket, 0, len(board))
	for _, b := range board {
		response = append(response, BoardTicket{
			Ticket: Ticket{
				ID:        b.ID.String(),
				Number:    b.Number,
				OrderID:   b.OrderID.String(),
				OrderType: b.OrderType,
				Table:     b.Table,
				Waiter:    b.Waiter,
				Status:    b.Status.String(),
				CreatedAt: b.CreatedAt,
				Units:     unitsFromDomain(b.Units),
			},
			ElapsedSeconds: int64(b.Elapsed / time.Second),
			Freshness:      b.Freshness.String(),
			ReadyEnabled:   b.ReadyEnabled,
		})
	}
	return response
}

func settlementFromResult(r commands.FinalizeSaleResult) Settlement {
	return Settlement{
		Order:     orderFromDomain(r.Order),
		Settled:   r.Settlement.Settled,
		OnAccount: r.Settlement.OnAccount,
		Paid:      r.Settlement.Paid,
		Balance:   r.Settlement.Balance,
		Change:    r.Settlement.Change,
		Due:       r.Settlement.Due,
	}
}

func tableOrderFromQuery(s queries.OpenOrderSummary) TableOrder {
	return TableOrder{
		OrderID:    s.ID.String(),
		TableID:    s.TableID,
		WaiterID:   s.WaiterID,
		Lines:      s.Lines,
		Pending:    s.Pending,
		GrandTotal: s.GrandTotal,
		Due:        s.Due,
		CreatedAt:  s.CreatedAt,
	}
}

func salesFromQuery(day queries.SalesDay) SalesDay {
	response := SalesDay{
		Sales:      make([]Sale, 0, len(day.Sales)),
		GrandTotal: day.GrandTotal,
		TaxTotal:   day.TaxTotal,
		Tips:       day.Tips,
		Due:        day.Due,
	}
	for _, s := range day.Sales {
		response.Sales = append(response.Sales, Sale{
			OrderID:    s.OrderID,
			OrderType:  s.OrderType,
			Status:     s.Status,
			TableID:    s.TableID,
			CustomerID: s.CustomerID,
			GrandTotal: s.GrandTotal,
			Paid:       s.Paid,
			Due:        s.Due,
			ClosedAt:   s.ClosedAt,
		})
	}
	return response
}
