package order

import (
	"fmt"

	"pos/internal/pkg/errs"
)

// Status is the lifecycle of an order.
//
//	Open ──┬──> Settled
//	       ├──> OnAccount (closed short, due charged to the customer)
//	       └──> Cancelled
type Status int

const (
	UnknownStatus Status = iota
	Open
	Settled
	Cancelled
	OnAccount
)

var statusNames = map[Status]string{
	UnknownStatus: "Unknown",
	Open:          "Open",
	Settled:       "Settled",
	Cancelled:     "Cancelled",
	OnAccount:     "OnAccount",
}

func (s Status) String() string {
	if str, ok := statusNames[s]; ok {
		return str
	}
	return "Unknown"
}

// Validate accepts every named status except UnknownStatus.
func (s Status) Validate() error {
	if s == UnknownStatus || statusNames[s] == "" {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// Settle transitions Open to Settled.
func (s Status) Settle() (Status, error) {
	if s != Open {
		return UnknownStatus, errs.NewInvalidStateErrorWithCause("order", s.String(), fmt.Errorf("only open orders can be settled"))
	}
	return Settled, nil
}

// CloseOnAccount transitions Open to OnAccount.
func (s Status) CloseOnAccount() (Status, error) {
	if s != Open {
		return UnknownStatus, errs.NewInvalidStateErrorWithCause("order", s.String(), fmt.Errorf("only open orders can be closed on account"))
	}
	return OnAccount, nil
}

// IsClosed reports whether the order left the active view.
func (s Status) IsClosed() bool {
	return s == Settled || s == Cancelled || s == OnAccount
}

// Cancel transitions Open to Cancelled.
func (s Status) Cancel() (Status, error) {
	if s != Open {
		return UnknownStatus, errs.NewInvalidStateErrorWithCause("order", s.String(), fmt.Errorf("only open orders can be cancelled"))
	}
	return Cancelled, nil
}

// DispatchState tells whether a line has been sent to the kitchen.
type DispatchState int

const (
	UnknownDispatchState DispatchState = iota
	Pending
	Dispatched
)

var dispatchStateNames = map[DispatchState]string{
	Pending:    "Pending",
	Dispatched: "Dispatched",
}

func (d DispatchState) String() string {
	if str, ok := dispatchStateNames[d]; ok {
		return str
	}
	return "Unknown"
}

func (d DispatchState) Validate() error {
	if _, ok := dispatchStateNames[d]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("dispatch state is invalid", fmt.Errorf("%d is not a valid dispatch state", d))
	}
	return nil
}

// KitchenStatus summarizes whether anything of the order reached the kitchen.
type KitchenStatus int

const (
	NotSent KitchenStatus = iota
	Sent
)

func (k KitchenStatus) String() string {
	if k == Sent {
		return "Sent"
	}
	return "NotSent"
}

// Type is the service channel of an order.
type Type int

const (
	UnknownType Type = iota
	DineIn
	Delivery
	Pickup
	Messaging
)

var typeNames = map[Type]string{
	DineIn:    "dine-in",
	Delivery:  "delivery",
	Pickup:    "pickup",
	Messaging: "messaging",
}

func (t Type) String() string {
	if str, ok := typeNames[t]; ok {
		return str
	}
	return "unknown"
}

func (t Type) Validate() error {
	if _, ok := typeNames[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("order type is invalid", fmt.Errorf("%d is not a valid order type", t))
	}
	return nil
}

// ParseType accepts the names returned by String.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return UnknownType, errs.NewValueIsInvalidErrorWithCause("order type is invalid", fmt.Errorf("%q is not a valid order type", s))
}
