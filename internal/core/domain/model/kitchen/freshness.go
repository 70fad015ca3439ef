package kitchen

import "time"

// Freshness grades how long a ticket has been waiting. It is only shown,
// never acted upon.
type Freshness int

const (
	Fresh Freshness = iota
	Warning
	Late
)

const (
	WarningAfter = 5 * time.Minute
	LateAfter    = 15 * time.Minute
)

func (f Freshness) String() string {
	switch f {
	case Warning:
		return "warning"
	case Late:
		return "late"
	default:
		return "fresh"
	}
}

// FreshnessOf grades an elapsed duration.
func FreshnessOf(elapsed time.Duration) Freshness {
	switch {
	case elapsed >= LateAfter:
		return Late
	case elapsed >= WarningAfter:
		return Warning
	default:
		return Fresh
	}
}
