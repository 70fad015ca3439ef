// Package rabbitmq publishes kitchen tickets, display projections and table
// requests to RabbitMQ.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pos/internal/core/domain/model/display"
	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/ports"
	"pos/internal/pkg/errs"
)

// Sender is the part of Client the publisher needs.
type Sender interface {
	Publish(ctx context.Context, exchange, key string, body []byte, persistent bool) error
}

type TicketItemMessage struct {
	LineID    string   `json:"line_id"`
	Name      string   `json:"name"`
	Variation string   `json:"variation,omitempty"`
	Quantity  int      `json:"quantity"`
	Note      string   `json:"note,omitempty"`
	Addons    []string `json:"addons,omitempty"`
}

// TicketMessage is the body of a kitchen ticket on KitchenExchange.
type TicketMessage struct {
	TicketID  string              `json:"ticket_id"`
	Number    int                 `json:"number"`
	OrderID   string              `json:"order_id"`
	OrderType string              `json:"order_type"`
	Table     string              `json:"table,omitempty"`
	Waiter    string              `json:"waiter,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	Items     []TicketItemMessage `json:"items"`
}

func TicketMessageFrom(t *kitchen.Ticket) TicketMessage {
	items := t.Items()
	msg := TicketMessage{
		TicketID:  t.ID().String(),
		Number:    t.Number(),
		OrderID:   t.OrderID().String(),
		OrderType: t.OrderType().String(),
		Table:     t.Labels().Table,
		Waiter:    t.Labels().Waiter,
		CreatedAt: t.CreatedAt().UTC(),
		Items:     make([]TicketItemMessage, 0, len(items)),
	}
	for _, i := range items {
		msg.Items = append(msg.Items, TicketItemMessage{
			LineID:    i.LineID.String(),
			Name:      i.Name,
			Variation: i.Variation,
			Quantity:  i.Quantity,
			Note:      i.Note,
			Addons:    i.Addons,
		})
	}
	return msg
}

// TicketRoutingKey is kitchen.<order type>.<ticket number>.
func TicketRoutingKey(t *kitchen.Ticket) string {
	return fmt.Sprintf("kitchen.%s.%d", t.OrderType(), t.Number())
}

type tableReleaseMessage struct {
	TableID     string    `json:"table_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// Publisher implements the kitchen, display and table ports over one Sender.
type Publisher struct {
	sender Sender
	clock  func() time.Time
}

var (
	_ ports.TicketPublisher  = (*Publisher)(nil)
	_ ports.DisplayPublisher = (*Publisher)(nil)
	_ ports.TableLifecycle   = (*Publisher)(nil)
)

func NewPublisher(sender Sender, clock func() time.Time) *Publisher {
	return &Publisher{sender: sender, clock: clock}
}

// PublishTicket sends a persistent ticket message.
func (p *Publisher) PublishTicket(ctx context.Context, ticket *kitchen.Ticket) error {
	if err := ticket.Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(TicketMessageFrom(ticket))
	if err != nil {
		return err
	}
	return p.sender.Publish(ctx, KitchenExchange, TicketRoutingKey(ticket), body, true)
}

// Publish mirrors a projection on the transient display fanout.
func (p *Publisher) Publish(ctx context.Context, projection display.Projection) error {
	body, err := display.Encode(projection)
	if err != nil {
		return err
	}
	return p.sender.Publish(ctx, DisplayExchange, "", body, false)
}

// RequestRelease asks the table service to free a table.
func (p *Publisher) RequestRelease(ctx context.Context, tableID string) error {
	if tableID == "" {
		return errs.NewValueIsRequiredError("table id")
	}
	body, err := json.Marshal(tableReleaseMessage{TableID: tableID, RequestedAt: p.clock().UTC()})
	if err != nil {
		return err
	}
	return p.sender.Publish(ctx, TablesExchange, "table.release", body, true)
}
