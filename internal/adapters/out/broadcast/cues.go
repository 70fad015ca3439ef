package broadcast

import (
	"context"
	"time"

	"pos/internal/core/ports"
	"pos/internal/pkg/errs"
)

var _ ports.Notifier = (*Cues)(nil)

// CueEvent asks the terminals to play a sound.
type CueEvent struct {
	Cue ports.Cue `json:"cue"`
	At  time.Time `json:"at"`
}

// Cues forwards audio cues to the connected terminals, which own the
// speakers. A cue nobody listens to is dropped.
type Cues struct {
	fanout fanout[CueEvent]
	clock  func() time.Time
}

func NewCues(clock func() time.Time) *Cues {
	return &Cues{fanout: newFanout[CueEvent](), clock: clock}
}

func (c *Cues) Play(_ context.Context, cue ports.Cue) error {
	if cue != ports.DispatchCue && cue != ports.SettlementCue {
		return errs.NewValueIsInvalidError("cue " + string(cue))
	}
	c.fanout.send(CueEvent{Cue: cue, At: c.clock()})
	return nil
}

func (c *Cues) Subscribe() (<-chan CueEvent, func()) {
	return c.fanout.subscribe()
}

func (c *Cues) Subscribers() int {
	return c.fanout.count()
}
