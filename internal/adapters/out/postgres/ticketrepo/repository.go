package ticketrepo

import (
	"context"
	"errors"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/kitchen"
	"pos/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormTicketRepository implements ports.TicketRepository using GORM.
type GormTicketRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormTicketRepository(db *gorm.DB, tracker aggregateTracker) *GormTicketRepository {
	return &GormTicketRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormTicketRepository) Add(ctx context.Context, ticket *kitchen.Ticket) error {
	if err := ticket.Validate(); err != nil {
		return err
	}

	dto := fromDomain(ticket)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(ticket.ID(), ticket)
	return nil
}

// Update writes the board status and checklist only.
func (r *GormTicketRepository) Update(ctx context.Context, ticket *kitchen.Ticket) error {
	if err := ticket.Validate(); err != nil {
		return err
	}

	dto := fromDomain(ticket)
	result := r.db.WithContext(ctx).
		Model(&TicketDTO{}).
		Where("id = ?", dto.ID).
		Select("Status", "Checked").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(ticket.ID(), ticket)
	return nil
}

func (r *GormTicketRepository) Get(ctx context.Context, id kernel.UUID) (*kitchen.Ticket, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TicketDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("ticket", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormTicketRepository) NextNumber(ctx context.Context) (int, error) {
	var next int64
	if err := r.db.WithContext(ctx).Raw("SELECT nextval('" + NumberSequence + "')").Scan(&next).Error; err != nil {
		return 0, err
	}
	return int(next), nil
}

func (r *GormTicketRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*kitchen.Ticket, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TicketDTO
	if err := r.db.WithContext(ctx).Order("number").Find(&dtos, "order_id = ?", orderID.Bytes()).Error; err != nil {
		return nil, err
	}

	tickets := make([]*kitchen.Ticket, 0, len(dtos))
	for _, dto := range dtos {
		t, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}

	return tickets, nil
}
