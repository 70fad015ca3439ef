package ports

import (
	"context"

	"pos/internal/core/domain/model/display"
	"pos/internal/core/domain/model/kitchen"
)

// TicketPublisher delivers new tickets to kitchen printers and boards.
type TicketPublisher interface {
	PublishTicket(ctx context.Context, ticket *kitchen.Ticket) error
}

// DisplayPublisher mirrors cart projections to customer displays. Delivery
// is at most once; only the latest projection of a terminal matters.
type DisplayPublisher interface {
	Publish(ctx context.Context, projection display.Projection) error
}

// TableLifecycle owns table status. The core only asks; it never sets.
type TableLifecycle interface {
	RequestRelease(ctx context.Context, tableID string) error
}

// Cue is an audio notification.
type Cue string

const (
	DispatchCue   Cue = "dispatch"
	SettlementCue Cue = "settlement"
)

// Notifier plays audio cues when the outlet has sound enabled.
type Notifier interface {
	Play(ctx context.Context, cue Cue) error
}
