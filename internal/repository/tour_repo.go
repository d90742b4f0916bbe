package repository

import (
	"context"
	"encoding/json"
	"time"

	"navm8/internal/domain"

	"gorm.io/gorm"
)

type TourRepository struct {
	db *gorm.DB
}

func NewTourRepository(db *gorm.DB) *TourRepository {
	return &TourRepository{db: db}
}

type tourModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	AuthorID           int64      `gorm:"column:author_id;index"`
	Name               string     `gorm:"column:name"`
	Country            string     `gorm:"column:country"`
	City               string     `gorm:"column:city"`
	MaxPeople          int        `gorm:"column:max_people"`
	TypeOfAvailability string     `gorm:"column:type_of_availability"`
	Availability       *string    `gorm:"column:availability"`
	Date               *time.Time `gorm:"column:date"`
	FromTime           *string    `gorm:"column:from_time"`
	ToTime             *string    `gorm:"column:to_time"`
	Description        *string    `gorm:"column:description"`
	Photos             *string    `gorm:"column:photos;type:text"`
	ReviewCount        int        `gorm:"column:review_count;default:0"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (tourModel) TableName() string { return "tours" }

func toDomainTour(m tourModel) *domain.Tour {
	var photos []string
	if m.Photos != nil && *m.Photos != "" {
		_ = json.Unmarshal([]byte(*m.Photos), &photos)
	}

	var mode domain.RecurringMode
	if m.Availability != nil {
		mode = domain.RecurringMode(*m.Availability)
	}

	return &domain.Tour{
		ID:                 m.ID,
		AuthorID:           m.AuthorID,
		Name:               m.Name,
		Country:            m.Country,
		City:               m.City,
		MaxPeople:          m.MaxPeople,
		TypeOfAvailability: domain.AvailabilityType(m.TypeOfAvailability),
		Availability:       mode,
		Date:               m.Date,
		From:               deref(m.FromTime),
		To:                 deref(m.ToTime),
		Description:        deref(m.Description),
		Photos:             photos,
		ReviewCount:        m.ReviewCount,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toTourModel(t *domain.Tour) tourModel {
	var photos *string
	if len(t.Photos) > 0 {
		if raw, err := json.Marshal(t.Photos); err == nil {
			v := string(raw)
			photos = &v
		}
	}

	var mode *string
	if t.Availability != "" {
		v := string(t.Availability)
		mode = &v
	}

	return tourModel{
		ID:                 t.ID,
		AuthorID:           t.AuthorID,
		Name:               t.Name,
		Country:            t.Country,
		City:               t.City,
		MaxPeople:          t.MaxPeople,
		TypeOfAvailability: string(t.TypeOfAvailability),
		Availability:       mode,
		Date:               t.Date,
		FromTime:           optional(t.From),
		ToTime:             optional(t.To),
		Description:        optional(t.Description),
		Photos:             photos,
		ReviewCount:        t.ReviewCount,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func (r *TourRepository) Create(ctx context.Context, t *domain.Tour) error {
	m := toTourModel(t)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*t = *toDomainTour(m)
	return nil
}

func (r *TourRepository) GetByID(ctx context.Context, id int64) (*domain.Tour, error) {
	var m tourModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainTour(m), nil
}

type TourFilters struct {
	Country string
	City    string
	Limit   int
	Offset  int
}

func (r *TourRepository) GetAll(ctx context.Context, f TourFilters) ([]domain.Tour, int64, error) {
	q := r.db.WithContext(ctx).Model(&tourModel{})
	if f.Country != "" {
		q = q.Where("country = ?", f.Country)
	}
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var models []tourModel
	if err := q.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Tour, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainTour(m))
	}
	return out, total, nil
}

func (r *TourRepository) GetByAuthor(ctx context.Context, authorID int64) ([]domain.Tour, error) {
	var models []tourModel
	tx := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Tour, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainTour(m))
	}
	return out, nil
}

func (r *TourRepository) Update(ctx context.Context, t *domain.Tour) error {
	m := toTourModel(t)
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*t = *toDomainTour(m)
	return nil
}

func (r *TourRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&tourModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementReviewCount bumps the monotonic counter in a single statement
// so concurrent review writes never lose an increment.
func (r *TourRepository) IncrementReviewCount(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&tourModel{}).
		Where("id = ?", id).
		UpdateColumn("review_count", gorm.Expr("review_count + 1")).Error
}
