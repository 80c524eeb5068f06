package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os/exec"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/forkful/backend/internal/database"
	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/service"
)

// setupPostgres starts a disposable PostgreSQL container and returns a
// migrated gorm handle. Skips when docker is not available.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections"),
			wait.ForListeningPort("5432/tcp"),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Error terminating postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test sslmode=disable", host, port.Port())

	// Poll until the server actually accepts queries; the log line can
	// appear before the final restart of the init sequence.
	raw, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer raw.Close()
	deadline := time.Now().Add(30 * time.Second)
	for {
		if err := raw.Ping(); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("postgres did not become ready in time")
		}
		time.Sleep(250 * time.Millisecond)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "User", Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRatingUniqueIndexUnderConcurrency(t *testing.T) {
	db := setupPostgres(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	author := createUser(t, db, "author@example.com")
	rater := createUser(t, db, "rater@example.com")

	recipe, err := svc.CreateRecipe(ctx, &models.Recipe{
		Title:        "Toast",
		Ingredients:  models.JSONBStringArray{"bread"},
		Instructions: models.JSONBStringArray{"toast it"},
		PrepTime:     1,
		CookTime:     1,
		Servings:     1,
		Difficulty:   models.DifficultyEasy,
		IsPublic:     true,
		AuthorID:     author.ID,
	})
	require.NoError(t, err)

	// Concurrent resubmissions from the same user must collapse into a
	// single row; the unique index is the only guard.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(value int) {
			defer wg.Done()
			_, err := svc.RateRecipe(ctx, recipe.ID, rater.ID, value%5+1, "")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	var count int64
	require.NoError(t, db.Model(&models.Rating{}).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEndToEndScenarioOnPostgres(t *testing.T) {
	db := setupPostgres(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	userA := createUser(t, db, "a@example.com")
	userB := createUser(t, db, "b@example.com")
	userC := createUser(t, db, "c@example.com")

	recipe, err := svc.CreateRecipe(ctx, &models.Recipe{
		Title:        "Toast",
		Ingredients:  models.JSONBStringArray{"bread"},
		Instructions: models.JSONBStringArray{"toast it"},
		PrepTime:     1,
		CookTime:     1,
		Servings:     1,
		Difficulty:   models.DifficultyEasy,
		IsPublic:     true,
		AuthorID:     userA.ID,
	})
	require.NoError(t, err)

	listed, err := svc.ListRecipes(ctx, service.PublicRecipes(""))
	require.NoError(t, err)
	require.Len(t, listed, 1)

	_, err = svc.RateRecipe(ctx, recipe.ID, userB.ID, 4, "")
	require.NoError(t, err)
	got, err := svc.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.AverageRating)
	assert.Equal(t, 1, got.RatingCount)

	_, err = svc.RateRecipe(ctx, recipe.ID, userB.ID, 2, "")
	require.NoError(t, err)
	got, err = svc.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.AverageRating)
	assert.Equal(t, 1, got.RatingCount)

	err = svc.DeleteRecipe(ctx, recipe.ID, userC.ID)
	assert.ErrorIs(t, err, service.ErrNotRecipeOwner)

	require.NoError(t, svc.DeleteRecipe(ctx, recipe.ID, userA.ID))
	_, err = svc.GetRecipe(ctx, recipe.ID)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}
