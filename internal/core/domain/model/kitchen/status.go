package kitchen

import (
	"fmt"

	"pos/internal/pkg/errs"
)

// Status is the position of a ticket on the kitchen board.
type Status int

const (
	UnknownStatus Status = iota
	New
	InProgress
	OnHold
	Ready
	Served
)

var statusNames = map[Status]string{
	New:        "New",
	InProgress: "InProgress",
	OnHold:     "OnHold",
	Ready:      "Ready",
	Served:     "Served",
}

func (s Status) String() string {
	if str, ok := statusNames[s]; ok {
		return str
	}
	return "Unknown"
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("ticket status is invalid", fmt.Errorf("%d is not a valid ticket status", s))
	}
	return nil
}

// ParseStatus accepts the names returned by String.
func ParseStatus(name string) (Status, error) {
	for s, str := range statusNames {
		if str == name {
			return s, nil
		}
	}
	return UnknownStatus, errs.NewValueIsInvalidErrorWithCause("ticket status is invalid", fmt.Errorf("%q is not a valid ticket status", name))
}

// Checkable reports whether the checklist may be edited in this status.
func (s Status) Checkable() bool {
	return s == New || s == InProgress || s == OnHold
}

func (s Status) Start() (Status, error) {
	return s.transition("start", InProgress, New)
}

func (s Status) Hold() (Status, error) {
	return s.transition("hold", OnHold, New, InProgress)
}

func (s Status) Resume() (Status, error) {
	return s.transition("resume", InProgress, OnHold)
}

func (s Status) MarkReady() (Status, error) {
	return s.transition("mark ready", Ready, InProgress)
}

func (s Status) Recall() (Status, error) {
	return s.transition("recall", InProgress, Ready)
}

func (s Status) Serve() (Status, error) {
	return s.transition("serve", Served, Ready)
}

func (s Status) transition(action string, to Status, from ...Status) (Status, error) {
	for _, f := range from {
		if s == f {
			return to, nil
		}
	}
	return UnknownStatus, errs.NewInvalidStateErrorWithCause("ticket", s.String(), fmt.Errorf("cannot %s", action))
}
