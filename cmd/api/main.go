package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RahulGusai/railway-booking-system/internal/config"
	"github.com/RahulGusai/railway-booking-system/internal/database"
	"github.com/RahulGusai/railway-booking-system/internal/modules/reservation"
	"github.com/RahulGusai/railway-booking-system/internal/repository"
)

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

	seatRepo := repository.NewSeatMapRepository(db)
	allocRepo := repository.NewAllocationRepository(db)
	ticketRepo := repository.NewTicketRepository(db)

	service := reservation.NewService(db, seatRepo, allocRepo, ticketRepo, reservation.Capacity{
		MaxConfirmed: cfg.MaxConfirmed,
		MaxRAC:       cfg.MaxRAC,
		MaxWaiting:   cfg.MaxWaiting,
	}, log.Logger)
	handler := reservation.NewHandler(service)

	r := gin.Default()
	v1 := r.Group("/api/v1")
	handler.RegisterRoutes(v1)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
