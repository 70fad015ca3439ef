package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pos/internal/core/domain/model/order"
	"pos/internal/core/domain/services"
	"pos/internal/core/ports"
	"pos/internal/pkg/errs"
)

// FinalizeSaleResult carries the order as stored and the settlement outcome.
type FinalizeSaleResult struct {
	Order      *order.Order
	Settlement services.Settlement
}

// FinalizeSaleCommandHandler settles an order.
//
// The order and, for a sale closed on account, the customer's due are
// stored in one transaction. A closed sale is then appended to sales history;
// if that fails the sale is spooled for the retry job. The table release
// request and the audio cue are advisory and only logged on failure.
type FinalizeSaleCommandHandler struct {
	uowFactory SettlementUoWFactory
	directory  ports.Directory
	history    ports.SalesHistory
	spool      ports.SalesSpool
	tables     ports.TableLifecycle
	notifier   ports.Notifier
	engine     services.SettlementEngine
	clock      func() time.Time
	logger     *slog.Logger
}

func NewFinalizeSaleCommandHandler(
	uowFactory SettlementUoWFactory,
	directory ports.Directory,
	history ports.SalesHistory,
	spool ports.SalesSpool,
	tables ports.TableLifecycle,
	notifier ports.Notifier,
	clock func() time.Time,
	logger *slog.Logger,
) FinalizeSaleCommandHandler {
	return FinalizeSaleCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		history:    history,
		spool:      spool,
		tables:     tables,
		notifier:   notifier,
		engine:     services.NewSettlementEngine(),
		clock:      clock,
		logger:     logger.With("component", "finalize_sale"),
	}
}

// Handle settles a copy of the command's order. When storing fails the
// caller still holds the unsettled order and may retry.
func (h FinalizeSaleCommandHandler) Handle(ctx context.Context, cmd FinalizeSaleCommand) (FinalizeSaleResult, error) {
	if err := cmd.Validate(); err != nil {
		return FinalizeSaleResult{}, err
	}
	for _, method := range cmd.Methods() {
		if !h.directory.PaymentMethodEnabled(method) {
			return FinalizeSaleResult{}, errs.NewValueIsInvalidErrorWithCause(
				"payment method", fmt.Errorf("%q is not enabled", method))
		}
	}

	work := cmd.Order().Clone()
	settlement, err := h.engine.Finalize(work, cmd.Payments(), cmd.Tip(), cmd.Splits())
	if err != nil {
		return FinalizeSaleResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return FinalizeSaleResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = saveOrder(ctx, uow.OrderRepository(), work); err != nil {
		return FinalizeSaleResult{}, err
	}

	if settlement.OnAccount && settlement.Due.IsPositive() {
		if err = uow.CustomerLedger().AddDue(ctx, work.CustomerID(), settlement.Due); err != nil {
			return FinalizeSaleResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return FinalizeSaleResult{}, err
	}

	if work.Status().IsClosed() {
		h.record(ctx, work)
		h.releaseTable(ctx, work)
		h.cue(ctx)
	}

	return FinalizeSaleResult{Order: work, Settlement: settlement}, nil
}

func (h FinalizeSaleCommandHandler) record(ctx context.Context, o *order.Order) {
	record := ports.SaleRecordFromOrder(o, h.clock())
	err := h.history.Append(ctx, record)
	if err == nil {
		return
	}

	h.logger.Error("failed to append sale to history, spooling", "order", record.OrderID, "error", err)
	if spoolErr := h.spool.Put(ctx, record); spoolErr != nil {
		h.logger.Error("failed to spool sale", "order", record.OrderID, "error", spoolErr)
	}
}

func (h FinalizeSaleCommandHandler) releaseTable(ctx context.Context, o *order.Order) {
	if o.TableID() == "" {
		return
	}
	if err := h.tables.RequestRelease(ctx, o.TableID()); err != nil {
		h.logger.Warn("failed to request table release", "table", o.TableID(), "error", err)
	}
}

func (h FinalizeSaleCommandHandler) cue(ctx context.Context) {
	if !h.directory.SoundEnabled() {
		return
	}
	if err := h.notifier.Play(ctx, ports.SettlementCue); err != nil {
		h.logger.Warn("failed to play settlement cue", "error", err)
	}
}
