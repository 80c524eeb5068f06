package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/forkful/backend/internal/database"
	"github.com/forkful/backend/internal/models"
)

// SetupTestDB opens a private in-memory sqlite database with the schema
// migrated. Each call gets its own database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateTestUser inserts a user with a bcrypt-hashed password.
func CreateTestUser(t *testing.T, db *gorm.DB, name, email, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestRecipe inserts a minimal valid recipe owned by authorID.
func CreateTestRecipe(t *testing.T, db *gorm.DB, authorID uuid.UUID, title string, isPublic bool) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		Title:        title,
		Ingredients:  models.JSONBStringArray{"ingredient"},
		Instructions: models.JSONBStringArray{"step"},
		PrepTime:     5,
		CookTime:     10,
		Servings:     2,
		Difficulty:   models.DifficultyEasy,
		IsPublic:     isPublic,
		AuthorID:     authorID,
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}
