package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"navm8/internal/database"
	"navm8/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to open test database")
	require.NoError(t, Migrate(db), "Failed to migrate test database")
	return db
}

func seedTour(t *testing.T, db *gorm.DB, maxPeople int) *domain.Tour {
	tour := &domain.Tour{
		AuthorID:           1,
		Name:               "Harbour walk",
		Country:            "Portugal",
		City:               "Lisbon",
		MaxPeople:          maxPeople,
		TypeOfAvailability: domain.AvailabilityRecurring,
		Availability:       domain.RecurringDaily,
	}
	require.NoError(t, NewTourRepository(db).Create(context.Background(), tour))
	return tour
}

func TestCreateReserving_StopsAtCapacity(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 2)
	repo := NewBookingRepository(db)

	day := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)

	for userID := int64(2); userID <= 3; userID++ {
		b := &domain.Booking{
			TourID: tour.ID,
			UserID: userID,
			Date:   day,
			Status: domain.BookingPending,
		}
		assert.NoError(t, repo.CreateReserving(context.Background(), b, tour.MaxPeople))
	}

	overflow := &domain.Booking{
		TourID: tour.ID,
		UserID: 4,
		Date:   day,
		Status: domain.BookingPending,
	}
	err := repo.CreateReserving(context.Background(), overflow, tour.MaxPeople)
	assert.ErrorIs(t, err, ErrSlotFull)

	cnt, err := repo.CountActiveForDate(context.Background(), tour.ID, day)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), cnt)
}

func TestCreateReserving_CancelledBookingFreesSlot(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 1)
	repo := NewBookingRepository(db)

	day := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)

	first := &domain.Booking{TourID: tour.ID, UserID: 2, Date: day, Status: domain.BookingPending}
	require.NoError(t, repo.CreateReserving(context.Background(), first, tour.MaxPeople))

	blocked := &domain.Booking{TourID: tour.ID, UserID: 3, Date: day, Status: domain.BookingPending}
	assert.ErrorIs(t, repo.CreateReserving(context.Background(), blocked, tour.MaxPeople), ErrSlotFull)

	require.NoError(t, repo.UpdateStatus(context.Background(), first.ID, domain.BookingCancelled))

	retry := &domain.Booking{TourID: tour.ID, UserID: 3, Date: day, Status: domain.BookingPending}
	assert.NoError(t, repo.CreateReserving(context.Background(), retry, tour.MaxPeople))
}

func TestCreateReserving_OtherDateUnaffected(t *testing.T) {
	db := newTestDB(t)
	tour := seedTour(t, db, 1)
	repo := NewBookingRepository(db)

	day := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)

	first := &domain.Booking{TourID: tour.ID, UserID: 2, Date: day, Status: domain.BookingPending}
	require.NoError(t, repo.CreateReserving(context.Background(), first, tour.MaxPeople))

	other := &domain.Booking{TourID: tour.ID, UserID: 3, Date: nextDay, Status: domain.BookingPending}
	assert.NoError(t, repo.CreateReserving(context.Background(), other, tour.MaxPeople))
}
