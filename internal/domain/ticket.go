package domain

import (
	"math/rand/v2"
	"time"

	"gorm.io/gorm"
)

type TicketStatus string

const (
	TicketUpcoming  TicketStatus = "upcoming"
	TicketOngoing   TicketStatus = "ongoing"
	TicketCancelled TicketStatus = "cancelled"
	TicketCompleted TicketStatus = "completed"
)

// Ticket is one booking: a PNR, an owning user and 1..N passengers.
// Cancellation stamps DeletedAt instead of deleting the row; every read of
// live state filters on deleted_at IS NULL.
type Ticket struct {
	ID            int64        `json:"id" gorm:"primaryKey"`
	PNR           int64        `json:"pnr" gorm:"uniqueIndex;not null"`
	Source        string       `json:"source,omitempty"`
	Destination   string       `json:"destination,omitempty"`
	Status        TicketStatus `json:"status" gorm:"not null;default:upcoming"`
	BookingUserID int64        `json:"booking_user_id" gorm:"not null"`
	DeletedAt     *time.Time   `json:"deleted_at,omitempty"`

	Passengers []Passenger `json:"passengers,omitempty" gorm:"foreignKey:TicketID"`
}

func (t *Ticket) BeforeCreate(*gorm.DB) error {
	if t.PNR == 0 {
		t.PNR = GeneratePNR()
	}
	return nil
}

// GeneratePNR returns a random 10-digit booking reference.
func GeneratePNR() int64 {
	return rand.Int64N(9_000_000_000) + 1_000_000_000
}
