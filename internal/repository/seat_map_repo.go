package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/RahulGusai/railway-booking-system/internal/domain"
)

// SeatMapRepository answers "give me one free berth of this category". Seats
// are free when no live allocation references them; the catalog itself is
// immutable after seeding.
type SeatMapRepository struct {
	db *gorm.DB
}

func NewSeatMapRepository(db *gorm.DB) *SeatMapRepository {
	return &SeatMapRepository{db: db}
}

// WithTx binds the repository to a running transaction.
func (r *SeatMapRepository) WithTx(tx *gorm.DB) *SeatMapRepository {
	return &SeatMapRepository{db: tx}
}

// FindAvailable returns the lowest-numbered unoccupied seat of the category,
// or nil if the pool is exhausted. When berthType is non-empty a matching
// berth is preferred; if none is free the search falls back to any berth of
// the category. The selected row is locked for the duration of the enclosing
// transaction so two concurrent bookers cannot be handed the same seat.
func (r *SeatMapRepository) FindAvailable(ctx context.Context, category domain.SeatCategory, berthType string) (*domain.SeatMapping, error) {
	if berthType != "" {
		seat, err := r.findFirst(ctx, category, berthType)
		if err != nil || seat != nil {
			return seat, err
		}
	}
	return r.findFirst(ctx, category, "")
}

func (r *SeatMapRepository) findFirst(ctx context.Context, category domain.SeatCategory, berthType string) (*domain.SeatMapping, error) {
	occupied := r.db.Model(&domain.BerthAllocation{}).
		Select("seat_mapping_id").
		Where("seat_mapping_id IS NOT NULL").
		Where("deleted_at IS NULL")

	q := r.db.WithContext(ctx).
		Where("category = ?", category).
		Where("id NOT IN (?)", occupied).
		Order("seat_number ASC")
	if berthType != "" {
		q = q.Where("berth_type = ?", berthType)
	}
	// SQLite serializes writers on its own and rejects FOR UPDATE syntax.
	if r.db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var seat domain.SeatMapping
	if err := q.First(&seat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &seat, nil
}
