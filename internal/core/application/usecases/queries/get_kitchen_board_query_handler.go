package queries

import (
	"context"
	"encoding/json"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetKitchenBoardQueryHandler reads the board straight from kitchen_tickets.
// Served tickets are off the board. Cards come oldest first.
type GetKitchenBoardQueryHandler struct {
	db *gorm.DB
}

func NewGetKitchenBoardQueryHandler(db *gorm.DB) GetKitchenBoardQueryHandler {
	return GetKitchenBoardQueryHandler{db: db}
}

type boardItemRow struct {
	LineID    string   `json:"line_id"`
	Name      string   `json:"name"`
	Variation string   `json:"variation"`
	Quantity  int      `json:"quantity"`
	Note      string   `json:"note"`
	Addons    []string `json:"addons"`
}

func (h GetKitchenBoardQueryHandler) Handle(ctx context.Context, query GetKitchenBoardQuery) ([]KitchenBoardTicket, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	board := make([]KitchenBoardTicket, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			order_id,
			items,
			table_label,
			waiter_label,
			order_type,
			status,
			checked,
			created_at
		FROM kitchen_tickets
		WHERE status <> ?
		ORDER BY created_at, number
	`, int(kitchen.Served)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, orderID             uuid.UUID
			number, orderType, st   int
			itemsRaw, checkedRaw    []byte
			tableLabel, waiterLabel string
			createdAt               time.Time
		)
		if err = rows.Scan(
			&id,
			&number,
			&orderID,
			&itemsRaw,
			&tableLabel,
			&waiterLabel,
			&orderType,
			&st,
			&checkedRaw,
			&createdAt,
		); err != nil {
			return nil, err
		}

		ticket, restoreErr := restoreBoardTicket(id, number, orderID, itemsRaw, tableLabel, waiterLabel, orderType, st, checkedRaw, createdAt)
		if restoreErr != nil {
			return nil, restoreErr
		}

		board = append(board, KitchenBoardTicket{
			ID:           ticket.ID(),
			Number:       ticket.Number(),
			OrderID:      ticket.OrderID(),
			OrderType:    ticket.OrderType().String(),
			Table:        ticket.Labels().Table,
			Waiter:       ticket.Labels().Waiter,
			Status:       ticket.Status(),
			CreatedAt:    ticket.CreatedAt(),
			Elapsed:      ticket.Elapsed(query.Now()),
			Freshness:    ticket.Freshness(query.Now()),
			Items:        ticket.Items(),
			Units:        ticket.Units(),
			ReadyEnabled: ticket.CanMarkReady(),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return board, nil
}

func restoreBoardTicket(
	rawID uuid.UUID,
	number int,
	rawOrderID uuid.UUID,
	itemsRaw []byte,
	tableLabel, waiterLabel string,
	orderType, status int,
	checkedRaw []byte,
	createdAt time.Time,
) (*kitchen.Ticket, error) {
	id, err := kernel.UUIDFromBytes(rawID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(rawOrderID[:])
	if err != nil {
		return nil, err
	}

	var itemRows []boardItemRow
	if err = json.Unmarshal(itemsRaw, &itemRows); err != nil {
		return nil, err
	}
	var checked []string
	if len(checkedRaw) > 0 {
		if err = json.Unmarshal(checkedRaw, &checked); err != nil {
			return nil, err
		}
	}

	items := make([]kitchen.Item, 0, len(itemRows))
	for _, r := range itemRows {
		lineID, idErr := kernel.UUIDFromString(r.LineID)
		if idErr != nil {
			return nil, idErr
		}
		items = append(items, kitchen.Item{
			LineID:    lineID,
			Name:      r.Name,
			Variation: r.Variation,
			Quantity:  r.Quantity,
			Note:      r.Note,
			Addons:    r.Addons,
		})
	}

	return kitchen.RestoreTicket(
		id,
		number,
		orderID,
		items,
		kitchen.Labels{Table: tableLabel, Waiter: waiterLabel},
		order.Type(orderType),
		createdAt,
		kitchen.Status(status),
		checked,
	)
}
