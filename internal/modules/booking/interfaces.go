package booking

import (
	"context"
	"time"

	"navm8/internal/domain"
)

// BookingRepository defines the storage operations the service needs.
type BookingRepository interface {
	CountActiveForDate(ctx context.Context, tourID int64, date time.Time) (int64, error)
	CreateReserving(ctx context.Context, b *domain.Booking, maxPeople int) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	GetByTour(ctx context.Context, tourID int64) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Delete(ctx context.Context, id int64) error
}

// TourProvider is the read-only tour lookup the admission check consumes.
type TourProvider interface {
	GetByID(ctx context.Context, id int64) (*domain.Tour, error)
}

// SlotLocker serializes concurrent admission attempts per (tour, date)
// slot. A nil locker disables the advisory lock; the repository's
// transactional reserve remains the backstop.
type SlotLocker interface {
	Acquire(ctx context.Context, tourID int64, date time.Time) (bool, error)
	Release(ctx context.Context, tourID int64, date time.Time) error
}

// NotificationSender delivers booking events to the affected parties.
// Implementations must not block the booking flow; failures are ignored.
type NotificationSender interface {
	NotifyBookingRequested(ctx context.Context, authorID int64, b *domain.Booking) error
	NotifyBookingStatusChanged(ctx context.Context, recipientID int64, b *domain.Booking) error
}
