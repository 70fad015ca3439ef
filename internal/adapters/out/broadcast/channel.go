// Package broadcast fans state out to in-process views: cart projections per
// terminal and the shared kitchen clock. Delivery never blocks the
// publisher; a subscriber that falls behind only sees the latest value.
package broadcast

import (
	"context"
	"fmt"
	"sync"

	"pos/internal/core/domain/model/display"
	"pos/internal/core/ports"
	"pos/internal/pkg/errs"
)

var _ ports.DisplayPublisher = (*Channel)(nil)

// Channel keeps the latest projection of every terminal and pushes new ones
// to the displays subscribed to that terminal.
type Channel struct {
	mu     sync.Mutex
	latest map[string]display.Projection
	subs   map[string]map[chan display.Projection]struct{}
}

func NewChannel() *Channel {
	return &Channel{
		latest: map[string]display.Projection{},
		subs:   map[string]map[chan display.Projection]struct{}{},
	}
}

// Publish replaces the terminal's projection. It fails only on a projection
// it cannot route or a schema version it does not produce.
func (c *Channel) Publish(_ context.Context, p display.Projection) error {
	if p.Terminal == "" {
		return errs.NewValueIsRequiredError("terminal")
	}
	if p.Version != display.SchemaVersion {
		return errs.NewVersionIsInvalidError("projection", fmt.Errorf("got %d, want %d", p.Version, display.SchemaVersion))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.latest[p.Terminal] = p
	for sub := range c.subs[p.Terminal] {
		offer(sub, p)
	}
	return nil
}

// Latest returns the last projection published for a terminal.
func (c *Channel) Latest(terminal string) (display.Projection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.latest[terminal]
	return p, ok
}

// Subscribe returns a stream of the terminal's projections, starting with
// the current one if any. The returned func unsubscribes and closes the
// stream.
func (c *Channel) Subscribe(terminal string) (<-chan display.Projection, func()) {
	sub := make(chan display.Projection, 1)

	c.mu.Lock()
	if c.subs[terminal] == nil {
		c.subs[terminal] = map[chan display.Projection]struct{}{}
	}
	c.subs[terminal][sub] = struct{}{}
	if p, ok := c.latest[terminal]; ok {
		sub <- p
	}
	c.mu.Unlock()

	var once sync.Once
	return sub, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs[terminal], sub)
			if len(c.subs[terminal]) == 0 {
				delete(c.subs, terminal)
			}
			close(sub)
		})
	}
}

// Subscribers counts the open streams of a terminal.
func (c *Channel) Subscribers(terminal string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs[terminal])
}
