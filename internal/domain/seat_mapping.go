package domain

type SeatCategory string

const (
	SeatCategoryConfirmed SeatCategory = "confirmed"
	SeatCategoryRAC       SeatCategory = "rac"
)

// SeatMapping is one physical berth in the coach. The catalog is seeded once
// and never changes afterwards; allocations reference these rows, they never
// own them.
type SeatMapping struct {
	ID         int64        `json:"id" gorm:"primaryKey"`
	SeatNumber int          `json:"seat_number" gorm:"uniqueIndex;not null"`
	BerthType  string       `json:"berth_type" gorm:"not null"`
	Category   SeatCategory `json:"category" gorm:"not null"`
}

func (SeatMapping) TableName() string { return "seat_mapping" }
