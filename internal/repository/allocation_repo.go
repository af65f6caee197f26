package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/RahulGusai/railway-booking-system/internal/domain"
)

// TierCounts is live occupancy per allocation tier, derived from the ledger.
type TierCounts struct {
	Confirmed int64
	RAC       int64
	Waiting   int64
}

// For returns the count for one tier.
func (c TierCounts) For(status domain.AllocationStatus) int64 {
	switch status {
	case domain.AllocationCNF:
		return c.Confirmed
	case domain.AllocationRAC:
		return c.RAC
	default:
		return c.Waiting
	}
}

type AllocationRepository struct {
	db *gorm.DB
}

func NewAllocationRepository(db *gorm.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// WithTx binds the repository to a running transaction.
func (r *AllocationRepository) WithTx(tx *gorm.DB) *AllocationRepository {
	return &AllocationRepository{db: tx}
}

// Counts tallies non-released allocations by status. Occupancy is always
// recomputed from the ledger, never cached: within one booking the counts
// change as earlier passengers of the same request are allocated.
func (r *AllocationRepository) Counts(ctx context.Context) (TierCounts, error) {
	var rows []struct {
		Status domain.AllocationStatus
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.BerthAllocation{}).
		Select("status, COUNT(*) AS n").
		Where("deleted_at IS NULL").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return TierCounts{}, err
	}

	var counts TierCounts
	for _, row := range rows {
		switch row.Status {
		case domain.AllocationCNF:
			counts.Confirmed = row.N
		case domain.AllocationRAC:
			counts.RAC = row.N
		case domain.AllocationWL:
			counts.Waiting = row.N
		}
	}
	return counts, nil
}

func (r *AllocationRepository) Create(ctx context.Context, a *domain.BerthAllocation) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// OldestActive returns the non-released allocation of the given status with
// the smallest ID, or nil if there is none. Promotion walks allocations in
// this order: first requested, first promoted.
func (r *AllocationRepository) OldestActive(ctx context.Context, status domain.AllocationStatus) (*domain.BerthAllocation, error) {
	var a domain.BerthAllocation
	err := r.db.WithContext(ctx).
		Where("status = ? AND deleted_at IS NULL", status).
		Order("id ASC").
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Promote moves an allocation up one tier and rebinds it to the given seat.
func (r *AllocationRepository) Promote(ctx context.Context, a *domain.BerthAllocation, to domain.AllocationStatus, seatMappingID int64) error {
	return r.db.WithContext(ctx).
		Model(a).
		Updates(map[string]any{
			"status":          to,
			"seat_mapping_id": seatMappingID,
		}).Error
}
