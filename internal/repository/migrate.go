package repository

import (
	"navm8/internal/domain"

	"gorm.io/gorm"
)

// Migrate brings the schema up to date. Referenced tables come before
// referencing ones.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&domain.RefreshToken{},
		&tourModel{},
		&bookingModel{},
		&reviewModel{},
		&domain.Conversation{},
		&domain.Message{},
	)
}
