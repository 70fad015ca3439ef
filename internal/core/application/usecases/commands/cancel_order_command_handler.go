package commands

import (
	"context"
	"log/slog"

	"pos/internal/core/domain/model/order"
	"pos/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order. An order that never reached
// storage is only cancelled in memory; a stored one is updated so its table
// stops counting as occupied.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	tables     ports.TableLifecycle
	logger     *slog.Logger
}

func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	tables ports.TableLifecycle,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		tables:     tables,
		logger:     logger.With("component", "cancel_order"),
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	work := cmd.Order().Clone()
	if err := work.Cancel(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	exists, err := repo.Exists(ctx, work.ID())
	if err != nil {
		return nil, err
	}
	if !exists {
		return work, nil
	}

	if err = repo.Update(ctx, work); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if work.TableID() != "" {
		if err := h.tables.RequestRelease(ctx, work.TableID()); err != nil {
			h.logger.Warn("failed to request table release", "table", work.TableID(), "error", err)
		}
	}
	return work, nil
}
