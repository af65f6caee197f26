package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/RahulGusai/railway-booking-system/internal/domain"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// WithTx binds the repository to a running transaction.
func (r *TicketRepository) WithTx(tx *gorm.DB) *TicketRepository {
	return &TicketRepository{db: tx}
}

func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TicketRepository) CreatePassenger(ctx context.Context, p *domain.Passenger) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// GetActiveByID loads a non-released ticket with its non-released passengers
// and their allocations. Returns gorm.ErrRecordNotFound for absent or
// already-released tickets.
func (r *TicketRepository) GetActiveByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	var t domain.Ticket
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		Preload("Passengers", "deleted_at IS NULL").
		Preload("Passengers.BerthAllocation", "deleted_at IS NULL").
		Preload("Passengers.BerthAllocation.SeatMapping").
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListActive returns all non-released tickets with their live passengers.
func (r *TicketRepository) ListActive(ctx context.Context) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Preload("Passengers", "deleted_at IS NULL").
		Preload("Passengers.BerthAllocation", "deleted_at IS NULL").
		Preload("Passengers.BerthAllocation.SeatMapping").
		Order("id ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// Release stamps one shared timestamp onto the ticket, its live passengers
// and their live allocations. The timestamp is monotone: rows already
// released keep their original value.
func (r *TicketRepository) Release(ctx context.Context, ticketID int64, at time.Time) error {
	passengerIDs := r.db.Model(&domain.Passenger{}).
		Select("id").
		Where("ticket_id = ?", ticketID)

	if err := r.db.WithContext(ctx).
		Model(&domain.BerthAllocation{}).
		Where("passenger_id IN (?) AND deleted_at IS NULL", passengerIDs).
		Update("deleted_at", at).Error; err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).
		Model(&domain.Passenger{}).
		Where("ticket_id = ? AND deleted_at IS NULL", ticketID).
		Update("deleted_at", at).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Where("id = ? AND deleted_at IS NULL", ticketID).
		Update("deleted_at", at).Error
}
