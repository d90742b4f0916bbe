package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// ValidBookingStatus reports whether s is one of the four recognized states.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Occupies reports whether a booking in this status counts toward the
// tour's capacity for its date. Cancelled and completed bookings free
// their slot.
func (s BookingStatus) Occupies() bool {
	return s == BookingPending || s == BookingConfirmed
}

// Booking is one user's reservation of a tour for one calendar date.
// Date is always stored at midnight UTC; time of day is not part of the
// matching semantics.
type Booking struct {
	ID        int64         `json:"id"`
	TourID    int64         `json:"tour_id"`
	UserID    int64         `json:"user_id"`
	Date      time.Time     `json:"date"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	Tour *Tour `json:"tour,omitempty"`
	User *User `json:"user,omitempty"`
}
