package kitchen

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/order"
	"pos/internal/pkg/errs"
	"pos/internal/pkg/guard"
)

var (
	// ErrTicketIsNotConstructed is returned when a Ticket was not built by NewTicket or RestoreTicket.
	ErrTicketIsNotConstructed = errors.New("Ticket must be created via NewTicket constructor")
	// ErrTicketHasNoItems is returned when creating a ticket without lines.
	ErrTicketHasNoItems = errs.NewValueIsRequiredError("ticket items")
)

// Item is a line as it was sent to the kitchen.
type Item struct {
	LineID    kernel.UUID
	Name      string
	Variation string
	Quantity  int
	Note      string
	Addons    []string
}

// ItemFromLine freezes an order line.
func ItemFromLine(l order.LineItem) Item {
	addons := make([]string, 0, len(l.Addons()))
	for _, a := range l.Addons() {
		addons = append(addons, a.Name)
	}
	return Item{
		LineID:    l.LineID(),
		Name:      l.Name(),
		Variation: l.Variation(),
		Quantity:  l.Quantity(),
		Note:      l.Note(),
		Addons:    addons,
	}
}

func (i Item) clone() Item {
	i.Addons = slices.Clone(i.Addons)
	return i
}

// Unit is one entry of the kitchen checklist: a whole line, or one addon of
// a line.
type Unit struct {
	Key     string
	LineID  kernel.UUID
	Label   string
	Checked bool
}

// UnitKey names the checklist entry for a line (addon < 0) or one of its
// addons.
func UnitKey(lineID kernel.UUID, addon int) string {
	if addon < 0 {
		return lineID.String()
	}
	return fmt.Sprintf("%s/%d", lineID, addon)
}

// Labels are the human-readable references printed on a ticket.
type Labels struct {
	Table  string
	Waiter string
}

// Ticket is an immutable snapshot of one dispatch plus its progress on the
// kitchen board.
type Ticket struct {
	id        kernel.UUID
	number    int
	orderID   kernel.UUID
	items     []Item
	labels    Labels
	orderType order.Type
	createdAt time.Time
	status    Status
	checked   map[string]bool
	guard     guard.ConstructorGuard
}

// NewTicket creates a ticket in status New with an empty checklist.
func NewTicket(
	id kernel.UUID,
	number int,
	orderID kernel.UUID,
	items []Item,
	labels Labels,
	orderType order.Type,
	createdAt time.Time,
) (*Ticket, error) {
	var numberErr error
	if number < 1 {
		numberErr = errs.NewValueIsInvalidErrorWithCause("ticket number", fmt.Errorf("%d is not greater than 0", number))
	}
	var itemsErr error
	if len(items) == 0 {
		itemsErr = ErrTicketHasNoItems
	}
	var createdErr error
	if createdAt.IsZero() {
		createdErr = errs.NewValueIsRequiredError("created at")
	}
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		orderType.Validate(),
		numberErr,
		itemsErr,
		createdErr,
	); err != nil {
		return nil, err
	}

	frozen := make([]Item, 0, len(items))
	for _, i := range items {
		frozen = append(frozen, i.clone())
	}
	return &Ticket{
		id:        id,
		number:    number,
		orderID:   orderID,
		items:     frozen,
		labels:    labels,
		orderType: orderType,
		createdAt: createdAt,
		status:    New,
		checked:   map[string]bool{},
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// RestoreTicket rebuilds a persisted ticket. Checked keys that do not match
// a unit of the ticket are dropped.
func RestoreTicket(
	id kernel.UUID,
	number int,
	orderID kernel.UUID,
	items []Item,
	labels Labels,
	orderType order.Type,
	createdAt time.Time,
	status Status,
	checked []string,
) (*Ticket, error) {
	t, err := NewTicket(id, number, orderID, items, labels, orderType, createdAt)
	if err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	t.status = status
	for _, u := range t.Units() {
		if slices.Contains(checked, u.Key) {
			t.checked[u.Key] = true
		}
	}
	return t, nil
}

func (t *Ticket) Validate() error {
	if t == nil {
		return ErrTicketIsNotConstructed
	}
	return t.guard.Validate(ErrTicketIsNotConstructed)
}

func (t *Ticket) ID() kernel.UUID {
	return t.id
}

func (t *Ticket) Number() int {
	return t.number
}

func (t *Ticket) OrderID() kernel.UUID {
	return t.orderID
}

// Items returns copies of the frozen lines.
func (t *Ticket) Items() []Item {
	items := make([]Item, 0, len(t.items))
	for _, i := range t.items {
		items = append(items, i.clone())
	}
	return items
}

func (t *Ticket) Labels() Labels {
	return t.labels
}

func (t *Ticket) OrderType() order.Type {
	return t.orderType
}

func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Ticket) Status() Status {
	return t.status
}

// Elapsed is the time since dispatch, never negative.
func (t *Ticket) Elapsed(now time.Time) time.Duration {
	return max(now.Sub(t.createdAt), 0)
}

func (t *Ticket) Freshness(now time.Time) Freshness {
	return FreshnessOf(t.Elapsed(now))
}

// Units lists the checklist in ticket order: each line followed by its addons.
func (t *Ticket) Units() []Unit {
	var units []Unit
	for _, i := range t.items {
		key := UnitKey(i.LineID, -1)
		units = append(units, Unit{
			Key:     key,
			LineID:  i.LineID,
			Label:   fmt.Sprintf("%d x %s", i.Quantity, i.Name),
			Checked: t.checked[key],
		})
		for n, addon := range i.Addons {
			key := UnitKey(i.LineID, n)
			units = append(units, Unit{
				Key:     key,
				LineID:  i.LineID,
				Label:   addon,
				Checked: t.checked[key],
			})
		}
	}
	return units
}

// CheckedKeys returns the checked unit keys in ticket order.
func (t *Ticket) CheckedKeys() []string {
	var keys []string
	for _, u := range t.Units() {
		if u.Checked {
			keys = append(keys, u.Key)
		}
	}
	return keys
}

// Check ticks a checklist unit.
func (t *Ticket) Check(key string) error {
	return t.setChecked(key, true)
}

// Uncheck clears a checklist unit.
func (t *Ticket) Uncheck(key string) error {
	return t.setChecked(key, false)
}

// CanMarkReady reports whether MarkReady would move the ticket to Ready.
func (t *Ticket) CanMarkReady() bool {
	if t.status != InProgress {
		return false
	}
	for _, u := range t.Units() {
		if !u.Checked {
			return false
		}
	}
	return true
}

func (t *Ticket) Start() error {
	return t.apply(Status.Start)
}

func (t *Ticket) Hold() error {
	return t.apply(Status.Hold)
}

func (t *Ticket) Resume() error {
	return t.apply(Status.Resume)
}

// MarkReady moves an InProgress ticket to Ready once every unit is checked.
// With an incomplete checklist it returns false and changes nothing.
func (t *Ticket) MarkReady() (bool, error) {
	if err := t.Validate(); err != nil {
		return false, err
	}
	next, err := t.status.MarkReady()
	if err != nil {
		return false, err
	}
	if !t.CanMarkReady() {
		return false, nil
	}
	t.status = next
	return true, nil
}

// Recall sends a Ready ticket back to InProgress and clears its checklist.
func (t *Ticket) Recall() error {
	if err := t.apply(Status.Recall); err != nil {
		return err
	}
	clear(t.checked)
	return nil
}

func (t *Ticket) Serve() error {
	return t.apply(Status.Serve)
}

func (t *Ticket) apply(transition func(Status) (Status, error)) error {
	if err := t.Validate(); err != nil {
		return err
	}
	next, err := transition(t.status)
	if err != nil {
		return err
	}
	t.status = next
	return nil
}

func (t *Ticket) setChecked(key string, checked bool) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if !t.status.Checkable() {
		return errs.NewInvalidStateErrorWithCause("ticket", t.status.String(), fmt.Errorf("checklist is locked"))
	}
	if !slices.ContainsFunc(t.Units(), func(u Unit) bool { return u.Key == key }) {
		return errs.NewObjectNotFoundError("checklist unit", key)
	}
	if checked {
		t.checked[key] = true
	} else {
		delete(t.checked, key)
	}
	return nil
}
