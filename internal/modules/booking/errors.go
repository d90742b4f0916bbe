package booking

import "errors"

var (
	ErrTourNotFound     = errors.New("tour not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrSelfBooking      = errors.New("tour author cannot book their own tour")
	ErrForbidden        = errors.New("forbidden")
	ErrCapacityExceeded = errors.New("tour capacity exceeded for this date")
	ErrDateNotBookable  = errors.New("tour is not bookable on this date")
	ErrInvalidStatus    = errors.New("invalid booking status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrSlotBusy         = errors.New("booking slot is busy, try again")
)
