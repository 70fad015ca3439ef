// Package ticketrepo persists kitchen tickets. Items are frozen at dispatch
// and stored as jsonb next to the board status and checklist.
package ticketrepo

import (
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// NumberSequence issues ticket numbers. It is created by the schema migration.
const NumberSequence = "kitchen_ticket_number_seq"

type TicketDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number      int       `gorm:"uniqueIndex"`
	OrderID     uuid.UUID `gorm:"type:uuid;index"`
	Items       []ItemDTO `gorm:"type:jsonb;serializer:json"`
	TableLabel  string
	WaiterLabel string
	OrderType   int      `gorm:"type:smallint"`
	Status      int      `gorm:"type:smallint;index"`
	Checked     []string `gorm:"type:jsonb;serializer:json"`
	CreatedAt   time.Time
}

func (TicketDTO) TableName() string {
	return "kitchen_tickets"
}

type ItemDTO struct {
	LineID    string   `json:"line_id"`
	Name      string   `json:"name"`
	Variation string   `json:"variation"`
	Quantity  int      `json:"quantity"`
	Note      string   `json:"note,omitempty"`
	Addons    []string `json:"addons,omitempty"`
}

func fromDomain(t *kitchen.Ticket) TicketDTO {
	items := make([]ItemDTO, 0, len(t.Items()))
	for _, i := range t.Items() {
		items = append(items, ItemDTO{
			LineID:    i.LineID.String(),
			Name:      i.Name,
			Variation: i.Variation,
			Quantity:  i.Quantity,
			Note:      i.Note,
			Addons:    i.Addons,
		})
	}

	checked := t.CheckedKeys()
	if checked == nil {
		checked = []string{}
	}

	return TicketDTO{
		ID:          t.ID().Bytes(),
		Number:      t.Number(),
		OrderID:     t.OrderID().Bytes(),
		Items:       items,
		TableLabel:  t.Labels().Table,
		WaiterLabel: t.Labels().Waiter,
		OrderType:   int(t.OrderType()),
		Status:      int(t.Status()),
		Checked:     checked,
		CreatedAt:   t.CreatedAt(),
	}
}

func toDomain(dto TicketDTO) (*kitchen.Ticket, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	items := make([]kitchen.Item, 0, len(dto.Items))
	for _, i := range dto.Items {
		lineID, idErr := kernel.UUIDFromString(i.LineID)
		if idErr != nil {
			return nil, idErr
		}
		items = append(items, kitchen.Item{
			LineID:    lineID,
			Name:      i.Name,
			Variation: i.Variation,
			Quantity:  i.Quantity,
			Note:      i.Note,
			Addons:    i.Addons,
		})
	}

	return kitchen.RestoreTicket(
		id,
		dto.Number,
		orderID,
		items,
		kitchen.Labels{Table: dto.TableLabel, Waiter: dto.WaiterLabel},
		order.Type(dto.OrderType),
		dto.CreatedAt,
		kitchen.Status(dto.Status),
		dto.Checked,
	)
}
