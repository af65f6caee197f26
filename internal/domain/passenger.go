package domain

import "time"

// Passenger belongs to exactly one Ticket and holds at most one
// BerthAllocation. Children under the reservation age threshold travel
// without an allocation row.
type Passenger struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"not null"`
	Gender    string     `json:"gender" gorm:"not null"`
	Age       int        `json:"age" gorm:"not null"`
	TicketID  int64      `json:"ticket_id" gorm:"not null;index"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	BerthAllocation *BerthAllocation `json:"berth_allocation,omitempty" gorm:"foreignKey:PassengerID"`
}
