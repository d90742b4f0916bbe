package tour

import (
	"context"
	"errors"
	"time"

	"navm8/internal/domain"
	"navm8/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	tours *repository.TourRepository
}

func NewService(tours *repository.TourRepository) *Service {
	return &Service{tours: tours}
}

func fromCreateRequest(authorID int64, req CreateTourRequest) *domain.Tour {
	return &domain.Tour{
		AuthorID:           authorID,
		Name:               req.Name,
		Country:            req.Country,
		City:               req.City,
		MaxPeople:          req.MaxPeople,
		TypeOfAvailability: domain.AvailabilityType(req.TypeOfAvailability),
		Availability:       domain.RecurringMode(req.Availability),
		Date:               req.Date,
		From:               req.From,
		To:                 req.To,
		Description:        req.Description,
		Photos:             req.Photos,
	}
}

// Create validates and persists a new tour for its author. Violations
// are returned alongside ErrValidation so the handler can show them
// field by field.
func (s *Service) Create(ctx context.Context, authorID int64, req CreateTourRequest) (*domain.Tour, []FieldViolation, error) {
	t := fromCreateRequest(authorID, req)

	if violations := ValidateTour(t, time.Now().UTC()); len(violations) > 0 {
		return nil, violations, ErrValidation
	}

	if err := s.tours.Create(ctx, t); err != nil {
		return nil, nil, err
	}
	return t, nil, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Tour, error) {
	t, err := s.tours.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, f repository.TourFilters) ([]domain.Tour, int64, error) {
	return s.tours.GetAll(ctx, f)
}

func (s *Service) ListByAuthor(ctx context.Context, authorID int64) ([]domain.Tour, error) {
	return s.tours.GetByAuthor(ctx, authorID)
}

// Update replaces the mutable fields of a tour. Authorship is immutable;
// only the author may update, and the result is re-validated as a whole.
// The one-time future-date rule applies only when the date changes, so
// an author can still edit the description of a tour happening today.
func (s *Service) Update(ctx context.Context, userID, tourID int64, req UpdateTourRequest) (*domain.Tour, []FieldViolation, error) {
	t, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	if t.AuthorID != userID {
		return nil, nil, ErrForbidden
	}

	now := time.Now().UTC()
	if t.Date != nil && req.Date != nil && t.Date.Equal(*req.Date) {
		// unchanged date: validate against its own moment, not now
		now = req.Date.Add(-time.Second)
	}

	t.Name = req.Name
	t.Country = req.Country
	t.City = req.City
	t.MaxPeople = req.MaxPeople
	t.TypeOfAvailability = domain.AvailabilityType(req.TypeOfAvailability)
	t.Availability = domain.RecurringMode(req.Availability)
	t.Date = req.Date
	t.From = req.From
	t.To = req.To
	t.Description = req.Description
	t.Photos = req.Photos

	if violations := ValidateTour(t, now); len(violations) > 0 {
		return nil, violations, ErrValidation
	}

	if err := s.tours.Update(ctx, t); err != nil {
		return nil, nil, err
	}
	return t, nil, nil
}

func (s *Service) Delete(ctx context.Context, userID, tourID int64) error {
	t, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if t.AuthorID != userID {
		return ErrForbidden
	}

	return s.tours.Delete(ctx, tourID)
}
