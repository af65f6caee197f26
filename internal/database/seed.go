package database

import (
	"gorm.io/gorm"

	"github.com/RahulGusai/railway-booking-system/internal/domain"
)

// Migrate creates or updates the four reservation tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.SeatMapping{},
		&domain.Ticket{},
		&domain.Passenger{},
		&domain.BerthAllocation{},
	)
}

// One coach bay: six regular confirmed berths, one side-lower reserved for
// the RAC pool, one side-upper back in the confirmed pool.
var bayPattern = []struct {
	BerthType string
	Category  domain.SeatCategory
}{
	{"lower", domain.SeatCategoryConfirmed},
	{"middle", domain.SeatCategoryConfirmed},
	{"upper", domain.SeatCategoryConfirmed},
	{"lower", domain.SeatCategoryConfirmed},
	{"middle", domain.SeatCategoryConfirmed},
	{"upper", domain.SeatCategoryConfirmed},
	{"side-lower", domain.SeatCategoryRAC},
	{"side-upper", domain.SeatCategoryConfirmed},
}

const bayCount = 9 // 9 bays * 8 berths = 72 seats

// SeedSeatMap populates the seat catalog once. A non-empty catalog is left
// untouched, so the seed command is safe to rerun.
func SeedSeatMap(db *gorm.DB) error {
	var existing int64
	if err := db.Model(&domain.SeatMapping{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	seats := make([]domain.SeatMapping, 0, bayCount*len(bayPattern))
	seatNumber := 1
	for bay := 0; bay < bayCount; bay++ {
		for _, p := range bayPattern {
			seats = append(seats, domain.SeatMapping{
				SeatNumber: seatNumber,
				BerthType:  p.BerthType,
				Category:   p.Category,
			})
			seatNumber++
		}
	}
	return db.Create(&seats).Error
}
