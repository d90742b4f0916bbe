package review

import (
	"context"
	"errors"
	"strings"

	"navm8/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// BookingGate answers the one question reviews need from the booking
// core: did this user complete a booking for this tour?
type BookingGate interface {
	HasCompletedForTour(ctx context.Context, userID, tourID int64) (bool, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) error
	GetByTour(ctx context.Context, tourID int64, limit, offset int) ([]domain.Review, error)
}

type TourGate interface {
	GetByID(ctx context.Context, id int64) (*domain.Tour, error)
	IncrementReviewCount(ctx context.Context, id int64) error
}

type Service struct {
	reviews  ReviewRepository
	bookings BookingGate
	tours    TourGate
}

func NewService(reviews ReviewRepository, bookings BookingGate, tours TourGate) *Service {
	return &Service{reviews: reviews, bookings: bookings, tours: tours}
}

func (s *Service) Create(ctx context.Context, userID int64, req CreateReviewRequest) (*domain.Review, error) {
	if userID <= 0 || req.TourID <= 0 || req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRequest
	}

	if _, err := s.tours.GetByID(ctx, req.TourID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ok, err := s.bookings.HasCompletedForTour(ctx, userID, req.TourID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrReviewNotAllowed
	}

	rv := &domain.Review{
		TourID:  req.TourID,
		UserID:  userID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	if err := s.reviews.Create(ctx, rv); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	// best effort: the counter is denormalized display data
	_ = s.tours.IncrementReviewCount(ctx, req.TourID)

	return rv, nil
}

func (s *Service) GetByTour(ctx context.Context, tourID int64, limit, offset int) ([]domain.Review, error) {
	if tourID <= 0 {
		return nil, ErrInvalidRequest
	}
	return s.reviews.GetByTour(ctx, tourID, limit, offset)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// sqlite has no typed error to unwrap
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
