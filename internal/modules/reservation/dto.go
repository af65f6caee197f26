package reservation

import "github.com/RahulGusai/railway-booking-system/internal/domain"

type PassengerRequest struct {
	Name   string `json:"name" binding:"required"`
	Gender string `json:"gender" binding:"required"`
	Age    int    `json:"age" binding:"gte=0"`
}

type CreateTicketRequest struct {
	Source        string             `json:"source"`
	Destination   string             `json:"destination"`
	BookingUserID int64              `json:"booking_user_id" binding:"required"`
	Passengers    []PassengerRequest `json:"passengers" binding:"required,min=1,dive"`
}

type AllocationView struct {
	Status     string `json:"status"`
	SeatNumber *int   `json:"seat_number,omitempty"`
	BerthType  string `json:"berth_type,omitempty"`
}

type PassengerView struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Gender     string          `json:"gender"`
	Age        int             `json:"age"`
	Allocation *AllocationView `json:"allocation,omitempty"`
}

type TicketView struct {
	ID          int64           `json:"id"`
	PNR         int64           `json:"pnr"`
	Source      string          `json:"source,omitempty"`
	Destination string          `json:"destination,omitempty"`
	Status      string          `json:"status"`
	Passengers  []PassengerView `json:"passengers"`
}

type AvailabilityView struct {
	AvailableConfirmed int64 `json:"available_confirmed"`
	AvailableRAC       int64 `json:"available_rac"`
	AvailableWaiting   int64 `json:"available_waiting"`
}

func toTicketView(t *domain.Ticket) TicketView {
	view := TicketView{
		ID:          t.ID,
		PNR:         t.PNR,
		Source:      t.Source,
		Destination: t.Destination,
		Status:      string(t.Status),
		Passengers:  make([]PassengerView, 0, len(t.Passengers)),
	}
	for _, p := range t.Passengers {
		pv := PassengerView{
			ID:     p.ID,
			Name:   p.Name,
			Gender: p.Gender,
			Age:    p.Age,
		}
		if a := p.BerthAllocation; a != nil {
			av := &AllocationView{Status: string(a.Status)}
			if a.SeatMapping != nil {
				n := a.SeatMapping.SeatNumber
				av.SeatNumber = &n
				av.BerthType = a.SeatMapping.BerthType
			}
			pv.Allocation = av
		}
		view.Passengers = append(view.Passengers, pv)
	}
	return view
}
