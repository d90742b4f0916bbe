package booking

import (
	"context"
	"errors"
	"time"

	"navm8/internal/domain"
	"navm8/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	bookings BookingRepository
	tours    TourProvider
	locks    SlotLocker
	notifs   NotificationSender
}

func NewService(bookings BookingRepository, tours TourProvider, locks SlotLocker, notifs NotificationSender) *Service {
	return &Service{
		bookings: bookings,
		tours:    tours,
		locks:    locks,
		notifs:   notifs,
	}
}

// RequestBooking admits a booking request or rejects it with a
// distinguishable error. Check order is part of the contract: an author
// always gets ErrSelfBooking regardless of date validity or capacity,
// and a full slot is reported before an invalid date.
func (s *Service) RequestBooking(ctx context.Context, requesterID, tourID int64, date time.Time) (*domain.Booking, error) {
	day := NormalizeDate(date)

	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}

	if tour.AuthorID == requesterID {
		return nil, ErrSelfBooking
	}

	// Capacity check and insert are two statements; the advisory lock
	// keeps concurrent requests for the same slot from both passing the
	// count at maxPeople-1.
	if s.locks != nil {
		ok, err := s.locks.Acquire(ctx, tourID, day)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrSlotBusy
		}
		defer func() { _ = s.locks.Release(ctx, tourID, day) }()
	}

	count, err := s.bookings.CountActiveForDate(ctx, tourID, day)
	if err != nil {
		return nil, err
	}
	if count >= int64(tour.MaxPeople) {
		return nil, ErrCapacityExceeded
	}

	if !IsDateBookable(tour, day) {
		return nil, ErrDateNotBookable
	}

	b := &domain.Booking{
		TourID: tourID,
		UserID: requesterID,
		Date:   day,
		Status: domain.BookingPending,
	}

	if err := s.bookings.CreateReserving(ctx, b, tour.MaxPeople); err != nil {
		if errors.Is(err, repository.ErrSlotFull) {
			return nil, ErrCapacityExceeded
		}
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyBookingRequested(ctx, tour.AuthorID, b)
	}

	return b, nil
}

// SetStatus drives the booking lifecycle:
//
//	PENDING   -> CONFIRMED   tour author only
//	PENDING   -> CANCELLED   booking owner or tour author
//	CONFIRMED -> CANCELLED   booking owner or tour author
//	CONFIRMED -> COMPLETED   tour author only
//
// CANCELLED and COMPLETED are terminal. Capacity is never re-checked
// here; occupancy was reserved at admission time.
func (s *Service) SetStatus(ctx context.Context, requesterID, bookingID int64, newStatus domain.BookingStatus) (*domain.Booking, error) {
	if !domain.ValidBookingStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	tour, err := s.tours.GetByID(ctx, b.TourID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}

	isAuthor := tour.AuthorID == requesterID
	isOwner := b.UserID == requesterID

	if newStatus == b.Status {
		// re-entrant write, nothing to do
		if !isAuthor && !isOwner {
			return nil, ErrForbidden
		}
		return b, nil
	}

	switch {
	case b.Status == domain.BookingPending && newStatus == domain.BookingConfirmed:
		if !isAuthor {
			return nil, ErrForbidden
		}
	case b.Status.Occupies() && newStatus == domain.BookingCancelled:
		if !isAuthor && !isOwner {
			return nil, ErrForbidden
		}
	case b.Status == domain.BookingConfirmed && newStatus == domain.BookingCompleted:
		if !isAuthor {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrInvalidTransition
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		return nil, err
	}
	b.Status = newStatus

	if s.notifs != nil {
		// the party who did not drive the transition gets notified
		recipient := b.UserID
		if !isAuthor {
			recipient = tour.AuthorID
		}
		_ = s.notifs.NotifyBookingStatusChanged(ctx, recipient, b)
	}

	return b, nil
}

// Delete removes a booking. Only the booking owner or the tour author
// may do so.
func (s *Service) Delete(ctx context.Context, requesterID, bookingID int64) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		return err
	}

	tour, err := s.tours.GetByID(ctx, b.TourID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	isOwner := b.UserID == requesterID
	isAuthor := tour != nil && tour.AuthorID == requesterID
	if !isOwner && !isAuthor {
		return ErrForbidden
	}

	if err := s.bookings.Delete(ctx, bookingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		return err
	}
	return nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.GetByUser(ctx, userID)
}

// ListForTour returns a tour's bookings; only the tour author may see
// them.
func (s *Service) ListForTour(ctx context.Context, requesterID, tourID int64) ([]domain.Booking, error) {
	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	if tour.AuthorID != requesterID {
		return nil, ErrForbidden
	}
	return s.bookings.GetByTour(ctx, tourID)
}
