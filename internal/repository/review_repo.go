package repository

import (
	"context"
	"time"

	"navm8/internal/domain"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	TourID    int64     `gorm:"column:tour_id;index:idx_review_tour_user,unique"`
	UserID    int64     `gorm:"column:user_id;index:idx_review_tour_user,unique"`
	Rating    int       `gorm:"column:rating"`
	Comment   *string   `gorm:"column:comment;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func toDomainReview(m reviewModel) *domain.Review {
	return &domain.Review{
		ID:        m.ID,
		TourID:    m.TourID,
		UserID:    m.UserID,
		Rating:    m.Rating,
		Comment:   deref(m.Comment),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := reviewModel{
		TourID:  rv.TourID,
		UserID:  rv.UserID,
		Rating:  rv.Rating,
		Comment: optional(rv.Comment),
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*rv = *toDomainReview(m)
	return nil
}

// GetByTour returns reviews newest first with their authors attached.
func (r *ReviewRepository) GetByTour(ctx context.Context, tourID int64, limit, offset int) ([]domain.Review, error) {
	q := r.db.WithContext(ctx).
		Where("tour_id = ?", tourID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var models []reviewModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(models))
	seen := make(map[int64]bool, len(models))
	for _, m := range models {
		if !seen[m.UserID] {
			seen[m.UserID] = true
			ids = append(ids, m.UserID)
		}
	}

	users := make(map[int64]*domain.User, len(ids))
	if len(ids) > 0 {
		var userModels []userModel
		if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&userModels).Error; err != nil {
			return nil, err
		}
		for _, um := range userModels {
			users[um.ID] = toDomainUser(um)
		}
	}

	out := make([]domain.Review, 0, len(models))
	for _, m := range models {
		rv := toDomainReview(m)
		rv.User = users[m.UserID]
		out = append(out, *rv)
	}
	return out, nil
}
