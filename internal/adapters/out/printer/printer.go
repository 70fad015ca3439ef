// Package printer hands rendered kitchen tickets to the kitchen printers.
// Printers poll a spool directory; a ticket is one text file.
package printer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/ports"
	"pos/internal/render"
)

// DirPrinter writes each ticket to dir as ticket-<number>.txt.
type DirPrinter struct {
	dir string
}

var _ ports.TicketPublisher = (*DirPrinter)(nil)

func NewDirPrinter(dir string) (*DirPrinter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create printer spool: %w", err)
	}
	return &DirPrinter{dir: dir}, nil
}

// PublishTicket writes the ticket atomically so a printer never picks up a
// half-written file.
func (p *DirPrinter) PublishTicket(_ context.Context, ticket *kitchen.Ticket) error {
	if err := ticket.Validate(); err != nil {
		return err
	}
	name := filepath.Join(p.dir, fmt.Sprintf("ticket-%06d.txt", ticket.Number()))
	tmp := name + ".tmp"
	if err := os.WriteFile(tmp, []byte(render.KitchenTicket(ticket)), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, name)
}

// Fanout delivers a ticket to every target. A failing target does not keep
// the others from receiving it; all failures are returned together.
type Fanout []ports.TicketPublisher

func (f Fanout) PublishTicket(ctx context.Context, ticket *kitchen.Ticket) error {
	var errList []error
	for _, target := range f {
		if err := target.PublishTicket(ctx, ticket); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}
