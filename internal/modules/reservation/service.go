package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/RahulGusai/railway-booking-system/internal/domain"
	"github.com/RahulGusai/railway-booking-system/internal/repository"
)

const (
	// Passengers younger than this travel without a berth of their own.
	childAgeLimit = 5
	// Passengers at least this old get lower-berth preference.
	seniorAge = 60

	preferredBerthType = "lower"
)

// Capacity holds the admission limits of the three tiers.
type Capacity struct {
	MaxConfirmed int64
	MaxRAC       int64
	MaxWaiting   int64
}

// Service is the allocation engine: booking with per-passenger tier
// classification, cancellation with soft release, and the promotion cascade.
type Service struct {
	db       *gorm.DB
	seats    *repository.SeatMapRepository
	allocs   *repository.AllocationRepository
	tickets  *repository.TicketRepository
	capacity Capacity
	log      zerolog.Logger
}

func NewService(
	db *gorm.DB,
	seats *repository.SeatMapRepository,
	allocs *repository.AllocationRepository,
	tickets *repository.TicketRepository,
	capacity Capacity,
	logger zerolog.Logger,
) *Service {
	return &Service{
		db:       db,
		seats:    seats,
		allocs:   allocs,
		tickets:  tickets,
		capacity: capacity,
		log:      logger,
	}
}

// BookTicket creates a ticket with all its passengers and allocations in one
// transaction. The waitlist gate is checked once, up front, against the
// pre-booking count and the full passenger list. Passengers are then
// classified strictly in request order: each one sees the tier occupancy as
// mutated by the passengers before it. Any seat-selection failure rolls the
// whole booking back.
func (s *Service) BookTicket(ctx context.Context, req CreateTicketRequest) (*domain.Ticket, error) {
	var ticket *domain.Ticket

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		allocs := s.allocs.WithTx(tx)
		seats := s.seats.WithTx(tx)
		tickets := s.tickets.WithTx(tx)

		counts, err := allocs.Counts(ctx)
		if err != nil {
			return err
		}
		if counts.Waiting+int64(len(req.Passengers)) > s.capacity.MaxWaiting {
			return ErrWaitlistFull
		}

		t := &domain.Ticket{
			Source:        req.Source,
			Destination:   req.Destination,
			BookingUserID: req.BookingUserID,
			Status:        domain.TicketUpcoming,
		}
		if err := tickets.Create(ctx, t); err != nil {
			return err
		}

		for _, pr := range req.Passengers {
			passenger := &domain.Passenger{
				Name:     pr.Name,
				Gender:   pr.Gender,
				Age:      pr.Age,
				TicketID: t.ID,
			}
			if err := tickets.CreatePassenger(ctx, passenger); err != nil {
				return err
			}

			counts, err = allocs.Counts(ctx)
			if err != nil {
				return err
			}

			switch {
			case counts.Confirmed < s.capacity.MaxConfirmed:
				berthType := ""
				if pr.Age >= seniorAge || travelsWithChild(pr, req.Passengers) {
					berthType = preferredBerthType
				}
				seat, err := seats.FindAvailable(ctx, domain.SeatCategoryConfirmed, berthType)
				if err != nil {
					return err
				}
				if seat == nil {
					return ErrNoConfirmedSeat
				}
				if pr.Age >= childAgeLimit {
					if err := allocs.Create(ctx, &domain.BerthAllocation{
						Status:        domain.AllocationCNF,
						PassengerID:   passenger.ID,
						SeatMappingID: &seat.ID,
					}); err != nil {
						return err
					}
				}

			case counts.RAC < s.capacity.MaxRAC:
				seat, err := seats.FindAvailable(ctx, domain.SeatCategoryRAC, "")
				if err != nil {
					return err
				}
				if seat == nil {
					return ErrNoRACSeat
				}
				if pr.Age >= childAgeLimit {
					if err := allocs.Create(ctx, &domain.BerthAllocation{
						Status:        domain.AllocationRAC,
						PassengerID:   passenger.ID,
						SeatMappingID: &seat.ID,
					}); err != nil {
						return err
					}
				}

			default:
				if pr.Age >= childAgeLimit {
					if err := allocs.Create(ctx, &domain.BerthAllocation{
						Status:      domain.AllocationWL,
						PassengerID: passenger.ID,
					}); err != nil {
						return err
					}
				}
			}
		}

		ticket, err = tickets.GetActiveByID(ctx, t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("ticket_id", ticket.ID).
		Int64("pnr", ticket.PNR).
		Int("passengers", len(ticket.Passengers)).
		Msg("ticket booked")
	return ticket, nil
}

// travelsWithChild reports whether a female passenger shares the request
// with a child below the reservation age threshold.
func travelsWithChild(p PassengerRequest, all []PassengerRequest) bool {
	if p.Gender != "female" {
		return false
	}
	for _, other := range all {
		if other.Age < childAgeLimit {
			return true
		}
	}
	return false
}

// CancelTicket soft-releases a ticket, its passengers and their allocations
// with one shared timestamp, then runs the promotion cascade. The release is
// a single transaction; each promotion step commits on its own afterwards,
// so an interrupted cascade leaves a valid, partially promoted state that
// the next cancellation resumes from.
func (s *Service) CancelTicket(ctx context.Context, ticketID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tickets := s.tickets.WithTx(tx)
		if _, err := tickets.GetActiveByID(ctx, ticketID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}
			return err
		}
		return tickets.Release(ctx, ticketID, time.Now().UTC())
	})
	if err != nil {
		return err
	}

	s.log.Info().Int64("ticket_id", ticketID).Msg("ticket cancelled")
	return s.runPromotions(ctx)
}

type promotionPhase struct {
	from     domain.AllocationStatus
	to       domain.AllocationStatus
	category domain.SeatCategory
	limit    int64
}

// runPromotions drives the cascade to a fixed point: RAC holders move into
// confirmed while it has room, then waitlisted holders move into RAC.
func (s *Service) runPromotions(ctx context.Context) error {
	phases := []promotionPhase{
		{domain.AllocationRAC, domain.AllocationCNF, domain.SeatCategoryConfirmed, s.capacity.MaxConfirmed},
		{domain.AllocationWL, domain.AllocationRAC, domain.SeatCategoryRAC, s.capacity.MaxRAC},
	}
	for _, phase := range phases {
		if err := s.promotePhase(ctx, phase); err != nil {
			return err
		}
	}
	return nil
}

// promotePhase promotes oldest-first until the target tier is full, no
// candidate remains, or the category has no free berth. A count below the
// limit with no free berth ends the phase rather than looping.
func (s *Service) promotePhase(ctx context.Context, phase promotionPhase) error {
	for {
		var promoted *domain.BerthAllocation
		var seat *domain.SeatMapping

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			allocs := s.allocs.WithTx(tx)

			counts, err := allocs.Counts(ctx)
			if err != nil {
				return err
			}
			if counts.For(phase.to) >= phase.limit {
				return nil
			}

			candidate, err := allocs.OldestActive(ctx, phase.from)
			if err != nil || candidate == nil {
				return err
			}

			free, err := s.seats.WithTx(tx).FindAvailable(ctx, phase.category, "")
			if err != nil || free == nil {
				return err
			}

			if err := allocs.Promote(ctx, candidate, phase.to, free.ID); err != nil {
				return err
			}
			promoted, seat = candidate, free
			return nil
		})
		if err != nil {
			return err
		}
		if promoted == nil {
			return nil
		}

		s.log.Info().
			Int64("allocation_id", promoted.ID).
			Str("from", string(phase.from)).
			Str("to", string(phase.to)).
			Int("seat_number", seat.SeatNumber).
			Msg("allocation promoted")
	}
}

// Availability reports configured maximum minus live count per tier.
func (s *Service) Availability(ctx context.Context) (AvailabilityView, error) {
	counts, err := s.allocs.Counts(ctx)
	if err != nil {
		return AvailabilityView{}, err
	}
	return AvailabilityView{
		AvailableConfirmed: s.capacity.MaxConfirmed - counts.Confirmed,
		AvailableRAC:       s.capacity.MaxRAC - counts.RAC,
		AvailableWaiting:   s.capacity.MaxWaiting - counts.Waiting,
	}, nil
}

// BookedTickets returns every non-released ticket with its live passengers.
func (s *Service) BookedTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.ListActive(ctx)
}
