// Package orderrepo persists order aggregates: one orders row, its lines in
// order_lines and its splits in order_splits. Small value lists (tax
// schedule, payments, addons) are stored as jsonb on their owner row.
package orderrepo

import (
	"time"

	"pos/internal/core/domain/model/billing"
	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row. The partial unique index keeps a table bound
// to at most one open order.
type OrderDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Type              int       `gorm:"type:smallint"`
	TableID           string    `gorm:"uniqueIndex:idx_orders_open_table,where:status = 1 AND table_id <> ''"`
	CustomerID        string    `gorm:"index"`
	WaiterID          string
	DeliveryPartnerID string
	DiscountType      int             `gorm:"type:smallint"`
	DiscountValue     decimal.Decimal `gorm:"type:numeric"`
	Schedule          []TaxDTO        `gorm:"type:jsonb;serializer:json"`
	Tip               decimal.Decimal `gorm:"type:numeric"`
	Payments          []PaymentDTO    `gorm:"type:jsonb;serializer:json"`
	Status            int             `gorm:"type:smallint;index"`
	KitchenStatus     int             `gorm:"type:smallint"`
	Due               decimal.Decimal `gorm:"type:numeric"`
	GrandTotal        decimal.Decimal `gorm:"type:numeric"`
	CreatedAt         time.Time

	Lines  []LineDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Splits []SplitDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineDTO is one cart line. Position keeps cart order.
type LineDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;index"`
	Position      int
	MenuItemID    string
	Name          string
	Variation     string
	UnitPrice     decimal.Decimal `gorm:"type:numeric"`
	BasePrice     decimal.Decimal `gorm:"type:numeric"`
	Quantity      int
	Note          string
	Addons        []AddonDTO `gorm:"type:jsonb;serializer:json"`
	DispatchState int        `gorm:"type:smallint"`
}

func (LineDTO) TableName() string {
	return "order_lines"
}

type SplitDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID `gorm:"type:uuid;index"`
	Position int
	Label    string
	Amount   decimal.Decimal `gorm:"type:numeric"`
	LineIDs  []string        `gorm:"type:jsonb;serializer:json"`
	Payments []PaymentDTO    `gorm:"type:jsonb;serializer:json"`
}

func (SplitDTO) TableName() string {
	return "order_splits"
}

type TaxDTO struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

type PaymentDTO struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

type AddonDTO struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func fromDomain(o *order.Order) OrderDTO {
	orderID := o.ID().Bytes()

	schedule := make([]TaxDTO, 0, len(o.Schedule()))
	for _, t := range o.Schedule() {
		schedule = append(schedule, TaxDTO{ID: t.ID, Name: t.Name, Rate: t.Rate})
	}

	items := o.Items()
	lines := make([]LineDTO, 0, len(items))
	for i, l := range items {
		addons := make([]AddonDTO, 0, len(l.Addons()))
		for _, a := range l.Addons() {
			addons = append(addons, AddonDTO{ID: a.ID, Name: a.Name, Price: a.Price})
		}
		lines = append(lines, LineDTO{
			ID:            l.LineID().Bytes(),
			OrderID:       orderID,
			Position:      i,
			MenuItemID:    l.MenuItemID(),
			Name:          l.Name(),
			Variation:     l.Variation(),
			UnitPrice:     l.UnitPrice(),
			BasePrice:     l.BasePrice(),
			Quantity:      l.Quantity(),
			Note:          l.Note(),
			Addons:        addons,
			DispatchState: int(l.DispatchState()),
		})
	}

	splits := make([]SplitDTO, 0, len(o.Splits()))
	for i, s := range o.Splits() {
		lineIDs := make([]string, 0, len(s.LineIDs()))
		for _, id := range s.LineIDs() {
			lineIDs = append(lineIDs, id.String())
		}
		splits = append(splits, SplitDTO{
			ID:       s.ID().Bytes(),
			OrderID:  orderID,
			Position: i,
			Label:    s.Label(),
			Amount:   s.Amount(),
			LineIDs:  lineIDs,
			Payments: paymentsFromDomain(s.Payments()),
		})
	}

	return OrderDTO{
		ID:                orderID,
		Type:              int(o.Type()),
		TableID:           o.TableID(),
		CustomerID:        o.CustomerID(),
		WaiterID:          o.WaiterID(),
		DeliveryPartnerID: o.DeliveryPartnerID(),
		DiscountType:      int(o.Discount().Type()),
		DiscountValue:     o.Discount().Value(),
		Schedule:          schedule,
		Tip:               o.Tip(),
		Payments:          paymentsFromDomain(o.Payments()),
		Status:            int(o.Status()),
		KitchenStatus:     int(o.KitchenStatus()),
		Due:               o.Due(),
		GrandTotal:        o.Totals().GrandTotal,
		CreatedAt:         o.CreatedAt(),
		Lines:             lines,
		Splits:            splits,
	}
}

func paymentsFromDomain(payments []order.Payment) []PaymentDTO {
	dtos := make([]PaymentDTO, 0, len(payments))
	for _, p := range payments {
		dtos = append(dtos, PaymentDTO{Method: p.Method, Amount: p.Amount})
	}
	return dtos
}

func paymentsToDomain(dtos []PaymentDTO) []order.Payment {
	payments := make([]order.Payment, 0, len(dtos))
	for _, p := range dtos {
		payments = append(payments, order.Payment{Method: p.Method, Amount: p.Amount})
	}
	return payments
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	discount, err := billing.NewDiscount(billing.DiscountType(dto.DiscountType), dto.DiscountValue)
	if err != nil {
		return nil, err
	}

	schedule := make(billing.TaxSchedule, 0, len(dto.Schedule))
	for _, t := range dto.Schedule {
		schedule = append(schedule, billing.Tax{ID: t.ID, Name: t.Name, Rate: t.Rate})
	}

	items := make([]*order.LineItem, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		line, lineErr := lineToDomain(l)
		if lineErr != nil {
			return nil, lineErr
		}
		items = append(items, line)
	}

	splits := make([]*order.Split, 0, len(dto.Splits))
	for _, s := range dto.Splits {
		split, splitErr := splitToDomain(s)
		if splitErr != nil {
			return nil, splitErr
		}
		splits = append(splits, split)
	}

	return order.RestoreOrder(order.RestoreParams{
		ID:                id,
		Type:              order.Type(dto.Type),
		Items:             items,
		TableID:           dto.TableID,
		CustomerID:        dto.CustomerID,
		WaiterID:          dto.WaiterID,
		DeliveryPartnerID: dto.DeliveryPartnerID,
		Discount:          discount,
		Schedule:          schedule,
		Tip:               dto.Tip,
		Payments:          paymentsToDomain(dto.Payments),
		Splits:            splits,
		Status:            order.Status(dto.Status),
		KitchenStatus:     order.KitchenStatus(dto.KitchenStatus),
		Due:               dto.Due,
		CreatedAt:         dto.CreatedAt,
	})
}

func lineToDomain(dto LineDTO) (*order.LineItem, error) {
	lineID, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	addons := make([]menu.Addon, 0, len(dto.Addons))
	for _, a := range dto.Addons {
		addons = append(addons, menu.Addon{ID: a.ID, Name: a.Name, Price: a.Price})
	}

	return order.RestoreLineItem(order.LineItemParams{
		LineID:        lineID,
		MenuItemID:    dto.MenuItemID,
		Name:          dto.Name,
		Variation:     dto.Variation,
		UnitPrice:     dto.UnitPrice,
		BasePrice:     dto.BasePrice,
		Quantity:      dto.Quantity,
		Note:          dto.Note,
		Addons:        addons,
		DispatchState: order.DispatchState(dto.DispatchState),
	})
}

func splitToDomain(dto SplitDTO) (*order.Split, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	lineIDs := make([]kernel.UUID, 0, len(dto.LineIDs))
	for _, raw := range dto.LineIDs {
		lineID, idErr := kernel.UUIDFromString(raw)
		if idErr != nil {
			return nil, idErr
		}
		lineIDs = append(lineIDs, lineID)
	}

	return order.RestoreSplit(id, dto.Label, dto.Amount, lineIDs, paymentsToDomain(dto.Payments))
}
