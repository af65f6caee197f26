package domain

import "time"

type AllocationStatus string

const (
	AllocationCNF AllocationStatus = "CNF"
	AllocationRAC AllocationStatus = "RAC"
	AllocationWL  AllocationStatus = "WL"
)

// BerthAllocation ties a passenger to a tier and, for CNF and RAC, to one
// seat. SeatMappingID is always nil for WL. A seat backs at most one live
// allocation at a time; releases are soft, via DeletedAt.
type BerthAllocation struct {
	ID            int64            `json:"id" gorm:"primaryKey"`
	Status        AllocationStatus `json:"status" gorm:"not null"`
	PassengerID   int64            `json:"passenger_id" gorm:"not null;index"`
	SeatMappingID *int64           `json:"seat_mapping_id,omitempty"`
	DeletedAt     *time.Time       `json:"deleted_at,omitempty"`

	SeatMapping *SeatMapping `json:"seat_mapping,omitempty" gorm:"foreignKey:SeatMappingID"`
}

func (BerthAllocation) TableName() string { return "berth_allocation" }
