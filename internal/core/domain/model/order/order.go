package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"pos/internal/core/domain/model/billing"
	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/menu"
	"pos/internal/pkg/errs"
	"pos/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not built by NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
	// ErrTableIsRequired is returned when binding an empty table reference.
	ErrTableIsRequired = errs.NewValueIsRequiredError("table")
)

// Order is the aggregate root of a sale. It owns the cart of line items and
// every order-level setting that feeds billing, and keeps its cached totals
// in step with them.
//
// Invariants:
//   - Every line has a quantity of at least 1
//   - Dispatched lines never change
//   - Totals always equal billing.Calculate over the current lines, discount,
//     tax schedule and tip
//   - Cart operations are rejected once the order left the Open status
//
// Every method validates before it mutates, so a failed call leaves the order
// exactly as it was.
type Order struct {
	id                kernel.UUID
	orderType         Type
	items             []*LineItem
	tableID           string
	customerID        string
	waiterID          string
	deliveryPartnerID string
	discount          billing.Discount
	schedule          billing.TaxSchedule
	tip               decimal.Decimal
	totals            billing.Totals
	payments          []Payment
	splits            []*Split
	status            Status
	kitchenStatus     KitchenStatus
	due               decimal.Decimal
	createdAt         time.Time
	guard             guard.ConstructorGuard
}

// NewOrder creates an empty Open order.
//
// The tax schedule is the outlet's schedule at creation time; it is kept with
// the order so totals do not drift if the outlet settings change mid-sale.
func NewOrder(id kernel.UUID, orderType Type, schedule billing.TaxSchedule, now time.Time) (*Order, error) {
	o := &Order{
		status: Open,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setType(orderType),
		o.setSchedule(schedule),
		o.setCreatedAt(now),
	); err != nil {
		return nil, err
	}

	o.recalculate()
	return o, nil
}

// RestoreParams carries a persisted order back into the domain.
type RestoreParams struct {
	ID                kernel.UUID
	Type              Type
	Items             []*LineItem
	TableID           string
	CustomerID        string
	WaiterID          string
	DeliveryPartnerID string
	Discount          billing.Discount
	Schedule          billing.TaxSchedule
	Tip               decimal.Decimal
	Payments          []Payment
	Splits            []*Split
	Status            Status
	KitchenStatus     KitchenStatus
	Due               decimal.Decimal
	CreatedAt         time.Time
}

// RestoreOrder rebuilds an order read from storage. Totals are recomputed
// rather than trusted.
func RestoreOrder(p RestoreParams) (*Order, error) {
	o := &Order{
		tableID:           p.TableID,
		customerID:        p.CustomerID,
		waiterID:          p.WaiterID,
		deliveryPartnerID: p.DeliveryPartnerID,
		discount:          p.Discount,
		payments:          slices.Clone(p.Payments),
		kitchenStatus:     p.KitchenStatus,
		guard:             guard.NewConstructorGuard(),
	}

	var itemsErr error
	for i, item := range p.Items {
		if item == nil {
			itemsErr = errs.NewValueIsRequiredError(fmt.Sprintf("line %d", i))
			break
		}
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setType(p.Type),
		o.setSchedule(p.Schedule),
		o.setCreatedAt(p.CreatedAt),
		o.setTip(p.Tip),
		kernel.NonNegative("due", p.Due),
		p.Status.Validate(),
		itemsErr,
	); err != nil {
		return nil, err
	}

	o.items = slices.Clone(p.Items)
	for _, s := range p.Splits {
		if s != nil {
			o.splits = append(o.splits, s.clone())
		}
	}
	o.status = p.Status
	o.due = p.Due
	o.recalculate()
	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	if err := o.guard.Validate(ErrOrderIsNotConstructed); err != nil {
		return err
	}
	return nil
}

// Clone returns a deep copy. Use cases mutate the copy and hand it back only
// once it has been stored, so a failed call leaves the original as it was.
func (o *Order) Clone() *Order {
	cp := *o
	cp.items = make([]*LineItem, 0, len(o.items))
	for _, l := range o.items {
		line := l.snapshot()
		cp.items = append(cp.items, &line)
	}
	cp.splits = nil
	for _, s := range o.splits {
		cp.splits = append(cp.splits, s.clone())
	}
	cp.payments = slices.Clone(o.payments)
	cp.schedule = slices.Clone(o.schedule)
	cp.totals.TaxLines = slices.Clone(o.totals.TaxLines)
	return &cp
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Type() Type {
	return o.orderType
}

// Items returns copies of the lines in cart order.
func (o *Order) Items() []LineItem {
	items := make([]LineItem, 0, len(o.items))
	for _, l := range o.items {
		items = append(items, l.snapshot())
	}
	return items
}

// Item returns a copy of the line with the given ID.
func (o *Order) Item(lineID kernel.UUID) (LineItem, bool) {
	if l := o.find(lineID); l != nil {
		return l.snapshot(), true
	}
	return LineItem{}, false
}

func (o *Order) TableID() string {
	return o.tableID
}

func (o *Order) CustomerID() string {
	return o.customerID
}

func (o *Order) WaiterID() string {
	return o.waiterID
}

func (o *Order) DeliveryPartnerID() string {
	return o.deliveryPartnerID
}

func (o *Order) Discount() billing.Discount {
	return o.discount
}

func (o *Order) Schedule() billing.TaxSchedule {
	return slices.Clone(o.schedule)
}

func (o *Order) Tip() decimal.Decimal {
	return o.tip
}

// Totals returns the cached billing result.
func (o *Order) Totals() billing.Totals {
	t := o.totals
	t.TaxLines = slices.Clone(o.totals.TaxLines)
	return t
}

func (o *Order) Payments() []Payment {
	return slices.Clone(o.payments)
}

func (o *Order) Splits() []*Split {
	splits := make([]*Split, 0, len(o.splits))
	for _, s := range o.splits {
		splits = append(splits, s.clone())
	}
	return splits
}

func (o *Order) Status() Status {
	return o.status
}

// Settled reports whether the order was closed fully paid.
func (o *Order) Settled() bool {
	return o.status == Settled
}

func (o *Order) KitchenStatus() KitchenStatus {
	return o.kitchenStatus
}

// Due is the shortfall recorded by the last settlement attempt.
func (o *Order) Due() decimal.Decimal {
	return o.due
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// IsEmpty reports whether the cart has no lines.
func (o *Order) IsEmpty() bool {
	return len(o.items) == 0
}

// PaidTotal sums order-level payments and the payments of every split.
func (o *Order) PaidTotal() decimal.Decimal {
	total := SumPayments(o.payments)
	for _, s := range o.splits {
		total = total.Add(s.PaidAmount())
	}
	return total
}

// PendingItems returns copies of the lines not yet sent to the kitchen.
func (o *Order) PendingItems() []LineItem {
	var pending []LineItem
	for _, l := range o.items {
		if l.IsPending() {
			pending = append(pending, l.snapshot())
		}
	}
	return pending
}

func (o *Order) HasPendingItems() bool {
	return slices.ContainsFunc(o.items, (*LineItem).IsPending)
}

// Quote computes what the totals would be with a different tip, without
// touching the order.
func (o *Order) Quote(tip decimal.Decimal) billing.Totals {
	return billing.Calculate(o.billingLines(), o.discount, o.schedule, tip)
}

// AddItem puts one unit of a menu entry into the cart and returns the ID of
// the line that received it.
//
// An empty variationName selects the first priced variation. Without addons
// the unit merges into a Pending line of the same item, variation and price
// that has no note. With addons a new line is always created.
//
// Returns menu.ErrNoPriceAvailable, without mutating the cart, when the entry
// has no priced variation.
func (o *Order) AddItem(entry menu.Entry, variationName string, addonIDs []string) (kernel.UUID, error) {
	if err := o.ensureOpen(); err != nil {
		return kernel.UUID{}, err
	}

	variation, err := entry.SelectVariation(variationName)
	if err != nil {
		return kernel.UUID{}, err
	}
	addons, err := entry.ResolveAddons(addonIDs)
	if err != nil {
		return kernel.UUID{}, err
	}

	if len(addons) == 0 {
		for _, l := range o.items {
			if l.mergeable(entry, variation) {
				l.quantity++
				o.recalculate()
				return l.lineID, nil
			}
		}
	}

	line, err := newLineItem(entry, variation, addons)
	if err != nil {
		return kernel.UUID{}, err
	}
	o.items = append(o.items, line)
	o.recalculate()
	return line.lineID, nil
}

// UpdateQuantity sets the quantity of a Pending line. A quantity of 0 or less
// removes the line. Dispatched lines are left untouched.
func (o *Order) UpdateQuantity(lineID kernel.UUID, qty int) error {
	if err := o.ensureOpen(); err != nil {
		return err
	}
	line := o.find(lineID)
	if line == nil {
		return errs.NewObjectNotFoundError("line", lineID)
	}
	if !line.IsPending() {
		return nil
	}

	if qty <= 0 {
		o.remove(lineID)
	} else {
		line.quantity = qty
	}
	o.recalculate()
	return nil
}

// SetNote replaces the kitchen note of a Pending line. Dispatched lines are
// left untouched.
func (o *Order) SetNote(lineID kernel.UUID, text string) error {
	if err := o.ensureOpen(); err != nil {
		return err
	}
	line := o.find(lineID)
	if line == nil {
		return errs.NewObjectNotFoundError("line", lineID)
	}
	if !line.IsPending() {
		return nil
	}
	line.note = text
	o.recalculate()
	return nil
}

// RemoveItem deletes a Pending line. A dispatched line can only be reversed
// by a compensating action and is rejected.
func (o *Order) RemoveItem(lineID kernel.UUID) error {
	if err := o.ensureOpen(); err != nil {
		return err
	}
	line := o.find(lineID)
	if line == nil {
		return errs.NewObjectNotFoundError("line", lineID)
	}
	if !line.IsPending() {
		return errs.NewInvalidStateErrorWithCause("line", line.dispatchState.String(), fmt.Errorf("sent to the kitchen"))
	}
	o.remove(lineID)
	o.recalculate()
	return nil
}

// Clear resets the order to an empty Open cart under a fresh ID. The table
// binding survives only when keepTable is set; the order type, tax schedule
// and waiter stay as they were.
func (o *Order) Clear(keepTable bool, now time.Time) error {
	if err := o.setCreatedAt(now); err != nil {
		return err
	}

	o.id = kernel.NewUUID()
	o.items = nil
	if !keepTable {
		o.tableID = ""
	}
	o.customerID = ""
	o.deliveryPartnerID = ""
	o.discount = billing.Discount{}
	o.tip = decimal.Zero
	o.payments = nil
	o.splits = nil
	o.status = Open
	o.kitchenStatus = NotSent
	o.due = decimal.Zero
	o.recalculate()
	return nil
}

// SetType changes the service channel. Leaving dine-in releases the table.
func (o *Order) SetType(t Type) error {
	if err := o.ensureOpen(); err != nil {
		return err
	}
	if err := o.setType(t); err != nil {
		return err
	}
	if t != DineIn {
		o.tableID = ""
	}
	return nil
}

// BindTable attaches the order to a table. Whether the table is free is for
// the caller to check.
func (o *Order) BindTable(tableID string) error {
	if err := o.ensureOpen(); err != nil {
		return err
	}
	if tableID == "" {
		return ErrTableIsRequired
	}
	o.tableID = tableID
	return nil
}

func (o *Order) ReleaseTable() error {
	if err := o.ensureOpen(); err != nil {
		return err
	}
	o.tableID = ""
	return nil
}

// AssignCustomer links a customer; an empty ID unlinks.
func (o *Order) AssignCustomer(customerID string) error {
	if err := o.ensureOpen(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) AssignWaiter(waiterID string) error {
	if err := o.ensureOpen(); err != nil {
		return err
	}
	o.waiterID = waiterID
	return nil
}

func (o *Order) AssignDeliveryPartner(partnerID string) error {
	if err := o.ensureOpen(); err != nil {
		return err
	}
	o.deliveryPartnerID = partnerID
	return nil
}

// ApplyDiscount replaces the order-level discount.
func (o *Order) ApplyDiscount(d billing.Discount) error {
	if err := o.ensureOpen(); err != nil {
		return err
	}
	o.discount = d
	o.recalculate()
	return nil
}

func (o *Order) SetTip(tip decimal.Decimal) error {
	if err := o.ensureOpen(); err != nil {
		return err
	}
	if err := o.setTip(tip); err != nil {
		return err
	}
	o.recalculate()
	return nil
}

// MarkDispatched flips every Pending line to Dispatched and returns copies of
// them as they were sent. Line IDs are preserved.
func (o *Order) MarkDispatched() ([]LineItem, error) {
	if err := o.ensureOpen(); err != nil {
		return nil, err
	}
	var sent []LineItem
	for _, l := range o.items {
		if l.IsPending() {
			l.dispatchState = Dispatched
			sent = append(sent, l.snapshot())
		}
	}
	if len(sent) > 0 {
		o.kitchenStatus = Sent
	}
	return sent, nil
}

// SettlementParams is the outcome of a settlement computed outside the
// aggregate and applied to it in one step.
type SettlementParams struct {
	Tip      decimal.Decimal
	Payments []Payment
	Splits   []*Split
	Settled  bool
	Due      decimal.Decimal
}

// ApplySettlement records payments, splits and tip. Payments replace those
// already on the order, so they must be the complete tendered list. A settled outcome closes
// the order as Settled. A short outcome with a linked customer closes it
// OnAccount; without a customer it stays Open with the due recorded.
func (o *Order) ApplySettlement(p SettlementParams) error {
	if err := o.ensureOpen(); err != nil {
		return err
	}
	if err := errors.Join(
		kernel.NonNegative("tip", p.Tip),
		kernel.NonNegative("due", p.Due),
	); err != nil {
		return err
	}

	next := o.status
	var err error
	switch {
	case p.Settled:
		next, err = o.status.Settle()
	case o.customerID != "":
		next, err = o.status.CloseOnAccount()
	}
	if err != nil {
		return err
	}

	o.tip = p.Tip
	o.payments = slices.Clone(p.Payments)
	o.splits = nil
	for _, s := range p.Splits {
		o.splits = append(o.splits, s.clone())
	}
	o.due = p.Due
	o.status = next
	o.recalculate()
	return nil
}

// Cancel closes an Open order without payment.
func (o *Order) Cancel() error {
	next, err := o.status.Cancel()
	if err != nil {
		return err
	}
	o.status = next
	return nil
}

func (o *Order) ensureOpen() error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.status != Open {
		return errs.NewInvalidStateError("order", o.status.String())
	}
	return nil
}

func (o *Order) find(lineID kernel.UUID) *LineItem {
	for _, l := range o.items {
		if l.lineID.IsEqual(lineID) {
			return l
		}
	}
	return nil
}

func (o *Order) remove(lineID kernel.UUID) {
	o.items = slices.DeleteFunc(o.items, func(l *LineItem) bool {
		return l.lineID.IsEqual(lineID)
	})
}

func (o *Order) billingLines() []billing.Line {
	lines := make([]billing.Line, 0, len(o.items))
	for _, l := range o.items {
		lines = append(lines, billing.Line{UnitPrice: l.unitPrice, Quantity: l.quantity})
	}
	return lines
}

func (o *Order) recalculate() {
	o.totals = billing.Calculate(o.billingLines(), o.discount, o.schedule, o.tip)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setType(t Type) error {
	if err := t.Validate(); err != nil {
		return err
	}
	o.orderType = t
	return nil
}

func (o *Order) setSchedule(schedule billing.TaxSchedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}
	o.schedule = slices.Clone(schedule)
	return nil
}

func (o *Order) setCreatedAt(t time.Time) error {
	if t.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	o.createdAt = t
	return nil
}

func (o *Order) setTip(tip decimal.Decimal) error {
	if err := kernel.NonNegative("tip", tip); err != nil {
		return err
	}
	o.tip = tip
	return nil
}
