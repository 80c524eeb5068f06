package database

import (
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
)

// Migrate brings the schema up to date. The composite unique index on
// ratings (user_id, recipe_id) is created here and is the sole concurrency
// guard for the rating upsert.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.Rating{},
	)
}
