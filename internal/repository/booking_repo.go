package repository

import (
	"context"
	"errors"
	"time"

	"navm8/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSlotFull is returned by CreateReserving when the (tour, date) slot
// reached capacity between the caller's check and the insert.
var ErrSlotFull = errors.New("booking slot is full")

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	TourID    int64     `gorm:"column:tour_id;index:idx_tour_date"`
	UserID    int64     `gorm:"column:user_id;index"`
	Date      time.Time `gorm:"column:date;index:idx_tour_date"`
	Status    string    `gorm:"column:status"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:        m.ID,
		TourID:    m.TourID,
		UserID:    m.UserID,
		Date:      m.Date,
		Status:    domain.BookingStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:        b.ID,
		TourID:    b.TourID,
		UserID:    b.UserID,
		Date:      b.Date,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

var occupyingStatuses = []string{
	string(domain.BookingPending),
	string(domain.BookingConfirmed),
}

// CountActiveForDate returns current occupancy for one (tour, date) slot.
// Only PENDING and CONFIRMED bookings hold capacity.
func (r *BookingRepository) CountActiveForDate(ctx context.Context, tourID int64, date time.Time) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("tour_id = ? AND date = ? AND status IN ?", tourID, date, occupyingStatuses).
		Count(&cnt)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return cnt, nil
}

// CreateReserving inserts the booking only while occupancy stays below
// maxPeople. Under READ COMMITTED a plain re-count inside a transaction
// is not enough: two transactions at maxPeople-1 each count the committed
// rows and both insert. Locking the tour row FOR UPDATE serializes
// concurrent admissions for the same tour, making this the storage-level
// backstop behind the advisory slot lock. SQLite allows a single writer
// and does not accept the locking clause, so it is skipped there.
func (r *BookingRepository) CreateReserving(ctx context.Context, b *domain.Booking, maxPeople int) error {
	m := toBookingModel(b)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			var locked tourModel
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&locked, m.TourID).Error; err != nil {
				return err
			}
		}

		var cnt int64
		if err := tx.Model(&bookingModel{}).
			Where("tour_id = ? AND date = ? AND status IN ?", m.TourID, m.Date, occupyingStatuses).
			Count(&cnt).Error; err != nil {
			return err
		}
		if cnt >= int64(maxPeople) {
			return ErrSlotFull
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlotFull
		}
		return err
	}

	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// GetByUser returns the user's bookings with their tours attached. The
// join is an explicit second fetch by id, keeping the domain structs free
// of ORM state.
func (r *BookingRepository) GetByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return r.attachTours(ctx, models)
}

func (r *BookingRepository) GetByTour(ctx context.Context, tourID int64) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Where("tour_id = ?", tourID).
		Order("date ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) attachTours(ctx context.Context, models []bookingModel) ([]domain.Booking, error) {
	ids := make([]int64, 0, len(models))
	seen := make(map[int64]bool, len(models))
	for _, m := range models {
		if !seen[m.TourID] {
			seen[m.TourID] = true
			ids = append(ids, m.TourID)
		}
	}

	tours := make(map[int64]*domain.Tour, len(ids))
	if len(ids) > 0 {
		var tourModels []tourModel
		if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tourModels).Error; err != nil {
			return nil, err
		}
		for _, tm := range tourModels {
			tours[tm.ID] = toDomainTour(tm)
		}
	}

	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		b := toDomainBooking(m)
		b.Tour = tours[m.TourID]
		out = append(out, *b)
	}
	return out, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&bookingModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasCompletedForTour reports whether the user finished a booking for the
// tour. Review creation is gated on this.
func (r *BookingRepository) HasCompletedForTour(ctx context.Context, userID, tourID int64) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("user_id = ? AND tour_id = ? AND status = ?", userID, tourID, string(domain.BookingCompleted)).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}
