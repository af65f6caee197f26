package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RahulGusai/railway-booking-system/internal/config"
	"github.com/RahulGusai/railway-booking-system/internal/database"
	"github.com/RahulGusai/railway-booking-system/internal/domain"
)

// Seeds the seat catalog: 72 berths in 9 bays of 8. Reruns are no-ops once
// the catalog is populated.
func main() {
	_ = godotenv.Load()
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrating schema")
	}

	if err := database.SeedSeatMap(db); err != nil {
		log.Fatal().Err(err).Msg("seeding seat map")
	}

	var total int64
	if err := db.Model(&domain.SeatMapping{}).Count(&total).Error; err != nil {
		log.Fatal().Err(err).Msg("counting seats")
	}
	log.Info().Int64("seats", total).Msg("seat map ready")
}
