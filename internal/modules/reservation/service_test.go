package reservation

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/RahulGusai/railway-booking-system/internal/database"
	"github.com/RahulGusai/railway-booking-system/internal/domain"
	"github.com/RahulGusai/railway-booking-system/internal/repository"
)

func newTestService(t *testing.T, capacity Capacity, seedCatalog bool) (*Service, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "railway.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	if seedCatalog {
		require.NoError(t, database.SeedSeatMap(db))
	}

	svc := NewService(
		db,
		repository.NewSeatMapRepository(db),
		repository.NewAllocationRepository(db),
		repository.NewTicketRepository(db),
		capacity,
		zerolog.Nop(),
	)
	return svc, db
}

func fullCapacity() Capacity {
	return Capacity{MaxConfirmed: 63, MaxRAC: 9, MaxWaiting: 10}
}

func passenger(name, gender string, age int) PassengerRequest {
	return PassengerRequest{Name: name, Gender: gender, Age: age}
}

func bookOne(t *testing.T, svc *Service, age int) *domain.Ticket {
	t.Helper()
	ticket, err := svc.BookTicket(context.Background(), CreateTicketRequest{
		BookingUserID: 1,
		Passengers:    []PassengerRequest{passenger("traveller", "male", age)},
	})
	require.NoError(t, err)
	require.Len(t, ticket.Passengers, 1)
	return ticket
}

func allocationOf(t *testing.T, ticket *domain.Ticket) *domain.BerthAllocation {
	t.Helper()
	require.NotEmpty(t, ticket.Passengers)
	return ticket.Passengers[0].BerthAllocation
}

func TestBookTicket_FillsTiersInOrder(t *testing.T) {
	svc, db := newTestService(t, fullCapacity(), true)

	for i := 0; i < 63; i++ {
		alloc := allocationOf(t, bookOne(t, svc, 30))
		require.NotNil(t, alloc)
		assert.Equal(t, domain.AllocationCNF, alloc.Status)
		require.NotNil(t, alloc.SeatMapping)
	}

	for i := 0; i < 9; i++ {
		alloc := allocationOf(t, bookOne(t, svc, 30))
		require.NotNil(t, alloc)
		assert.Equal(t, domain.AllocationRAC, alloc.Status)
		require.NotNil(t, alloc.SeatMapping)
		assert.Equal(t, domain.SeatCategoryRAC, alloc.SeatMapping.Category)
	}

	for i := 0; i < 10; i++ {
		alloc := allocationOf(t, bookOne(t, svc, 30))
		require.NotNil(t, alloc)
		assert.Equal(t, domain.AllocationWL, alloc.Status)
		assert.Nil(t, alloc.SeatMappingID)
	}

	_, err := svc.BookTicket(context.Background(), CreateTicketRequest{
		BookingUserID: 1,
		Passengers:    []PassengerRequest{passenger("late", "male", 30)},
	})
	assert.ErrorIs(t, err, ErrWaitlistFull)

	// Every seated allocation references a distinct berth.
	var distinctSeats int64
	require.NoError(t, db.Model(&domain.BerthAllocation{}).
		Where("seat_mapping_id IS NOT NULL AND deleted_at IS NULL").
		Distinct("seat_mapping_id").
		Count(&distinctSeats).Error)
	assert.EqualValues(t, 72, distinctSeats)
}

func TestBookTicket_RollsBackWhenBerthRunsOutMidRequest(t *testing.T) {
	svc, db := newTestService(t, Capacity{MaxConfirmed: 5, MaxRAC: 5, MaxWaiting: 5}, false)

	// One physical confirmed berth, no RAC pool: the second passenger of the
	// request finds room in the count but no berth.
	require.NoError(t, db.Create(&domain.SeatMapping{
		SeatNumber: 1, BerthType: "lower", Category: domain.SeatCategoryConfirmed,
	}).Error)

	_, err := svc.BookTicket(context.Background(), CreateTicketRequest{
		BookingUserID: 1,
		Passengers: []PassengerRequest{
			passenger("first", "male", 40),
			passenger("second", "male", 40),
		},
	})
	require.ErrorIs(t, err, ErrNoConfirmedSeat)

	var tickets, passengers, allocations int64
	require.NoError(t, db.Model(&domain.Ticket{}).Count(&tickets).Error)
	require.NoError(t, db.Model(&domain.Passenger{}).Count(&passengers).Error)
	require.NoError(t, db.Model(&domain.BerthAllocation{}).Count(&allocations).Error)
	assert.Zero(t, tickets)
	assert.Zero(t, passengers)
	assert.Zero(t, allocations)
}

func TestBookTicket_WaitlistGateCountsChildren(t *testing.T) {
	svc, _ := newTestService(t, Capacity{MaxConfirmed: 0, MaxRAC: 0, MaxWaiting: 3}, false)

	ticket, err := svc.BookTicket(context.Background(), CreateTicketRequest{
		BookingUserID: 1,
		Passengers:    []PassengerRequest{passenger("adult", "male", 30)},
	})
	require.NoError(t, err)
	alloc := allocationOf(t, ticket)
	require.NotNil(t, alloc)
	assert.Equal(t, domain.AllocationWL, alloc.Status)

	// 1 waitlisted + 3 incoming > 3: rejected even though the two children
	// would never consume a waitlist slot.
	_, err = svc.BookTicket(context.Background(), CreateTicketRequest{
		BookingUserID: 2,
		Passengers: []PassengerRequest{
			passenger("adult", "female", 30),
			passenger("toddler", "male", 3),
			passenger("baby", "female", 2),
		},
	})
	assert.ErrorIs(t, err, ErrWaitlistFull)
}

func TestBookTicket_ChildGetsNoAllocationRow(t *testing.T) {
	svc, db := newTestService(t, fullCapacity(), true)

	ticket, err := svc.BookTicket(context.Background(), CreateTicketRequest{
		BookingUserID: 1,
		Passengers: []PassengerRequest{
			passenger("parent", "male", 35),
			passenger("child", "male", 3),
		},
	})
	require.NoError(t, err)
	require.Len(t, ticket.Passengers, 2)

	assert.NotNil(t, ticket.Passengers[0].BerthAllocation)
	assert.Nil(t, ticket.Passengers[1].BerthAllocation)

	var allocations int64
	require.NoError(t, db.Model(&domain.BerthAllocation{}).Count(&allocations).Error)
	assert.EqualValues(t, 1, allocations)
}

func TestBookTicket_SeniorPrefersLowerBerth(t *testing.T) {
	svc, _ := newTestService(t, fullCapacity(), true)

	// Seats 1 (lower) and 2 (middle) go to the first two adults; the next
	// free lower berth is seat 4.
	bookOne(t, svc, 30)
	bookOne(t, svc, 30)

	alloc := allocationOf(t, bookOne(t, svc, 70))
	require.NotNil(t, alloc)
	require.NotNil(t, alloc.SeatMapping)
	assert.Equal(t, "lower", alloc.SeatMapping.BerthType)
	assert.Equal(t, 4, alloc.SeatMapping.SeatNumber)
}

func TestBookTicket_FemaleWithChildPrefersLowerBerth(t *testing.T) {
	svc, _ := newTestService(t, fullCapacity(), true)

	bookOne(t, svc, 30) // takes seat 1, the first lower berth

	ticket, err := svc.BookTicket(context.Background(), CreateTicketRequest{
		BookingUserID: 2,
		Passengers: []PassengerRequest{
			passenger("mother", "female", 28),
			passenger("child", "female", 2),
		},
	})
	require.NoError(t, err)

	alloc := ticket.Passengers[0].BerthAllocation
	require.NotNil(t, alloc)
	require.NotNil(t, alloc.SeatMapping)
	assert.Equal(t, "lower", alloc.SeatMapping.BerthType)
	assert.Equal(t, 4, alloc.SeatMapping.SeatNumber)
}

func TestCancelTicket_NotFoundAndIdempotence(t *testing.T) {
	svc, db := newTestService(t, fullCapacity(), true)

	err := svc.CancelTicket(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrTicketNotFound)

	ticket := bookOne(t, svc, 30)
	require.NoError(t, svc.CancelTicket(context.Background(), ticket.ID))

	err = svc.CancelTicket(context.Background(), ticket.ID)
	assert.ErrorIs(t, err, ErrTicketNotFound)

	// Second cancel changed nothing.
	var released domain.Ticket
	require.NoError(t, db.First(&released, ticket.ID).Error)
	require.NotNil(t, released.DeletedAt)
}

func TestCancelTicket_StampsSharedTimestamp(t *testing.T) {
	svc, db := newTestService(t, fullCapacity(), true)

	ticket, err := svc.BookTicket(context.Background(), CreateTicketRequest{
		BookingUserID: 1,
		Passengers: []PassengerRequest{
			passenger("one", "male", 30),
			passenger("two", "female", 32),
		},
	})
	require.NoError(t, err)
	require.NoError(t, svc.CancelTicket(context.Background(), ticket.ID))

	var released domain.Ticket
	require.NoError(t, db.First(&released, ticket.ID).Error)
	require.NotNil(t, released.DeletedAt)

	var passengers []domain.Passenger
	require.NoError(t, db.Where("ticket_id = ?", ticket.ID).Find(&passengers).Error)
	require.Len(t, passengers, 2)
	for _, p := range passengers {
		require.NotNil(t, p.DeletedAt)
		assert.Equal(t, *released.DeletedAt, *p.DeletedAt)

		var alloc domain.BerthAllocation
		err := db.Where("passenger_id = ?", p.ID).First(&alloc).Error
		require.NoError(t, err)
		require.NotNil(t, alloc.DeletedAt)
		assert.Equal(t, *released.DeletedAt, *alloc.DeletedAt)
	}
}

func TestCancelTicket_PromotesOldestFirst(t *testing.T) {
	svc, db := newTestService(t, Capacity{MaxConfirmed: 2, MaxRAC: 1, MaxWaiting: 2}, true)

	first := bookOne(t, svc, 30)  // CNF
	bookOne(t, svc, 30)           // CNF
	racTkt := bookOne(t, svc, 30) // RAC
	wlOld := bookOne(t, svc, 30)  // WL, older
	wlNew := bookOne(t, svc, 30)  // WL, newer

	require.NoError(t, svc.CancelTicket(context.Background(), first.ID))

	status := func(ticket *domain.Ticket) domain.BerthAllocation {
		var alloc domain.BerthAllocation
		require.NoError(t, db.
			Where("passenger_id = ? AND deleted_at IS NULL", ticket.Passengers[0].ID).
			First(&alloc).Error)
		return alloc
	}

	promoted := status(racTkt)
	assert.Equal(t, domain.AllocationCNF, promoted.Status)
	require.NotNil(t, promoted.SeatMappingID)

	var seat domain.SeatMapping
	require.NoError(t, db.First(&seat, *promoted.SeatMappingID).Error)
	assert.Equal(t, domain.SeatCategoryConfirmed, seat.Category)

	// The older waitlisted allocation moves into RAC; the newer one stays.
	fromWL := status(wlOld)
	assert.Equal(t, domain.AllocationRAC, fromWL.Status)
	require.NotNil(t, fromWL.SeatMappingID)

	stillWaiting := status(wlNew)
	assert.Equal(t, domain.AllocationWL, stillWaiting.Status)
	assert.Nil(t, stillWaiting.SeatMappingID)
}

func TestPromotion_StopsWhenNoBerthDespiteHeadroom(t *testing.T) {
	svc, db := newTestService(t, Capacity{MaxConfirmed: 2, MaxRAC: 1, MaxWaiting: 2}, false)

	// A single confirmed berth and a single RAC berth: confirmed headroom
	// exists in count terms, but no physical berth backs it.
	require.NoError(t, db.Create(&[]domain.SeatMapping{
		{SeatNumber: 1, BerthType: "lower", Category: domain.SeatCategoryConfirmed},
		{SeatNumber: 2, BerthType: "side-lower", Category: domain.SeatCategoryRAC},
	}).Error)

	seatID := func(n int) *int64 {
		var s domain.SeatMapping
		require.NoError(t, db.Where("seat_number = ?", n).First(&s).Error)
		return &s.ID
	}

	mkTicket := func(status domain.AllocationStatus, seat *int64) *domain.Ticket {
		ticket := &domain.Ticket{Status: domain.TicketUpcoming, BookingUserID: 1}
		require.NoError(t, db.Create(ticket).Error)
		p := &domain.Passenger{Name: "p", Gender: "male", Age: 30, TicketID: ticket.ID}
		require.NoError(t, db.Create(p).Error)
		require.NoError(t, db.Create(&domain.BerthAllocation{
			Status: status, PassengerID: p.ID, SeatMappingID: seat,
		}).Error)
		ticket.Passengers = []domain.Passenger{*p}
		return ticket
	}

	mkTicket(domain.AllocationCNF, seatID(1))
	racTkt := mkTicket(domain.AllocationRAC, seatID(2))
	wlTkt := mkTicket(domain.AllocationWL, nil)
	released := mkTicket(domain.AllocationWL, nil)

	// Cancelling a waitlisted ticket frees no berth: phase 1 must stop
	// without looping and phase 2 finds RAC already full.
	require.NoError(t, svc.CancelTicket(context.Background(), released.ID))

	var racAlloc domain.BerthAllocation
	require.NoError(t, db.
		Where("passenger_id = ? AND deleted_at IS NULL", racTkt.Passengers[0].ID).
		First(&racAlloc).Error)
	assert.Equal(t, domain.AllocationRAC, racAlloc.Status)

	var wlAlloc domain.BerthAllocation
	require.NoError(t, db.
		Where("passenger_id = ? AND deleted_at IS NULL", wlTkt.Passengers[0].ID).
		First(&wlAlloc).Error)
	assert.Equal(t, domain.AllocationWL, wlAlloc.Status)
}

func TestAvailability(t *testing.T) {
	svc, _ := newTestService(t, fullCapacity(), true)

	avail, err := svc.Availability(context.Background())
	require.NoError(t, err)
	assert.Equal(t, AvailabilityView{
		AvailableConfirmed: 63,
		AvailableRAC:       9,
		AvailableWaiting:   10,
	}, avail)

	bookOne(t, svc, 30)
	bookOne(t, svc, 30)

	avail, err = svc.Availability(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 61, avail.AvailableConfirmed)
	assert.EqualValues(t, 9, avail.AvailableRAC)
	assert.EqualValues(t, 10, avail.AvailableWaiting)
}

func TestBookedTickets_ExcludesReleased(t *testing.T) {
	svc, _ := newTestService(t, fullCapacity(), true)

	kept := bookOne(t, svc, 30)
	cancelled := bookOne(t, svc, 30)
	require.NoError(t, svc.CancelTicket(context.Background(), cancelled.ID))

	tickets, err := svc.BookedTickets(context.Background())
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, kept.ID, tickets[0].ID)
	assert.Equal(t, kept.PNR, tickets[0].PNR)
}
