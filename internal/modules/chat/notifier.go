package chat

import (
	"context"

	"navm8/internal/domain"
)

// Notifier pushes booking events over the hub. Offline recipients
// simply miss the push; the booking itself is already persisted.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

type bookingEventPayload struct {
	BookingID int64  `json:"booking_id"`
	TourID    int64  `json:"tour_id"`
	UserID    int64  `json:"user_id"`
	Date      string `json:"date"`
	Status    string `json:"status"`
}

func bookingPayload(b *domain.Booking) bookingEventPayload {
	return bookingEventPayload{
		BookingID: b.ID,
		TourID:    b.TourID,
		UserID:    b.UserID,
		Date:      b.Date.Format("2006-01-02"),
		Status:    string(b.Status),
	}
}

func (n *Notifier) NotifyBookingRequested(ctx context.Context, authorID int64, b *domain.Booking) error {
	n.hub.SendToUser(authorID, Event{Type: EventBookingNew, Payload: bookingPayload(b)})
	return nil
}

func (n *Notifier) NotifyBookingStatusChanged(ctx context.Context, recipientID int64, b *domain.Booking) error {
	n.hub.SendToUser(recipientID, Event{Type: EventBookingStatus, Payload: bookingPayload(b)})
	return nil
}
