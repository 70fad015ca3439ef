package broadcast

import (
	"sync"
	"time"
)

// Ticker is the one kitchen clock every board view listens to.
type Ticker struct {
	fanout fanout[time.Time]

	mu   sync.Mutex
	last time.Time
}

func NewTicker() *Ticker {
	return &Ticker{fanout: newFanout[time.Time]()}
}

// Tick hands now to every subscriber.
func (t *Ticker) Tick(now time.Time) {
	t.mu.Lock()
	t.last = now
	t.mu.Unlock()

	t.fanout.send(now)
}

// Last is the time of the latest tick, zero before the first one.
func (t *Ticker) Last() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Subscribe returns the tick stream and a func that stops it.
func (t *Ticker) Subscribe() (<-chan time.Time, func()) {
	return t.fanout.subscribe()
}

func (t *Ticker) Subscribers() int {
	return t.fanout.count()
}
