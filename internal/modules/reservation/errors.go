package reservation

import "errors"

var (
	// ErrWaitlistFull rejects a whole booking up front: even if every
	// passenger ended up waitlisted the request would not fit.
	ErrWaitlistFull = errors.New("no tickets available (waiting list full)")

	// ErrNoConfirmedSeat and ErrNoRACSeat abort a booking mid-request when
	// the tier count says there is room but no physical berth is free.
	ErrNoConfirmedSeat = errors.New("no confirmed berth available")
	ErrNoRACSeat       = errors.New("no RAC berth available")

	ErrTicketNotFound = errors.New("ticket not found or already cancelled")
)
