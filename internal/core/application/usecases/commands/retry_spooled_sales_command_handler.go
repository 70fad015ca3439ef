package commands

import (
	"context"
	"log/slog"

	"pos/internal/core/ports"
)

// RetrySpooledSalesCommandHandler appends spooled sales to sales history.
// A sale leaves the spool only once history accepted it.
type RetrySpooledSalesCommandHandler struct {
	spool   ports.SalesSpool
	history ports.SalesHistory
	logger  *slog.Logger
}

func NewRetrySpooledSalesCommandHandler(
	spool ports.SalesSpool,
	history ports.SalesHistory,
	logger *slog.Logger,
) RetrySpooledSalesCommandHandler {
	return RetrySpooledSalesCommandHandler{
		spool:   spool,
		history: history,
		logger:  logger.With("component", "retry_spooled_sales"),
	}
}

// Handle returns how many sales were recorded.
func (h RetrySpooledSalesCommandHandler) Handle(ctx context.Context, cmd RetrySpooledSalesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	pending, err := h.spool.Pending(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	recorded := 0
	for _, sale := range pending {
		if err = h.history.Append(ctx, sale.Record); err != nil {
			h.logger.Warn("sale still not recorded", "order", sale.Record.OrderID, "attempts", sale.Attempts+1, "error", err)
			if markErr := h.spool.MarkFailed(ctx, sale.ID); markErr != nil {
				return recorded, markErr
			}
			continue
		}
		if err = h.spool.Remove(ctx, sale.ID); err != nil {
			return recorded, err
		}
		recorded++
	}

	return recorded, nil
}
