package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/forkful/backend/internal/models"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// RecipeFilter selects which recipes a list operation returns.
type RecipeFilter struct {
	publicOnly bool
	authorID   *uuid.UUID
	search     string
}

// PublicRecipes matches public recipes, optionally filtered by a
// case-insensitive substring search over title, description and cuisine.
// Private recipes are excluded for every caller, including their author.
func PublicRecipes(search string) RecipeFilter {
	return RecipeFilter{publicOnly: true, search: search}
}

// RecipesByAuthor matches every recipe authored by the given user,
// public and private alike.
func RecipesByAuthor(authorID uuid.UUID) RecipeFilter {
	return RecipeFilter{authorID: &authorID}
}

func (f RecipeFilter) apply(db *gorm.DB) *gorm.DB {
	if f.publicOnly {
		db = db.Where("is_public = ?", true)
	}
	if f.authorID != nil {
		db = db.Where("author_id = ?", *f.authorID)
	}
	if f.search != "" {
		like := "%" + strings.ToLower(f.search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(cuisine) LIKE ?",
			like, like, like)
	}
	return db
}

// UpdateRecipeInput carries a partial update. Nil fields are left unchanged;
// a non-nil pointer to a zero value clears the field.
type UpdateRecipeInput struct {
	Title        *string
	Description  *string
	Ingredients  *[]string
	Instructions *[]string
	PrepTime     *int
	CookTime     *int
	Servings     *int
	Difficulty   *string
	Cuisine      *string
	ImageURL     *string
	IsPublic     *bool
}

func (in UpdateRecipeInput) updates() map[string]interface{} {
	u := map[string]interface{}{}
	if in.Title != nil {
		u["title"] = *in.Title
	}
	if in.Description != nil {
		u["description"] = *in.Description
	}
	if in.Ingredients != nil {
		u["ingredients"] = models.JSONBStringArray(*in.Ingredients)
	}
	if in.Instructions != nil {
		u["instructions"] = models.JSONBStringArray(*in.Instructions)
	}
	if in.PrepTime != nil {
		u["prep_time"] = *in.PrepTime
	}
	if in.CookTime != nil {
		u["cook_time"] = *in.CookTime
	}
	if in.Servings != nil {
		u["servings"] = *in.Servings
	}
	if in.Difficulty != nil {
		u["difficulty"] = *in.Difficulty
	}
	if in.Cuisine != nil {
		u["cuisine"] = *in.Cuisine
	}
	if in.ImageURL != nil {
		u["image_url"] = *in.ImageURL
	}
	if in.IsPublic != nil {
		u["is_public"] = *in.IsPublic
	}
	return u
}

// CreateRecipe persists a new recipe owned by recipe.AuthorID and returns it
// with the author loaded. The author is always the caller, never
// client-supplied.
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Preload("Author").First(recipe, "id = ?", recipe.ID).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// ListRecipes returns recipes matching the filter, newest first, each
// annotated with its average rating and rating count.
func (s *RecipeService) ListRecipes(ctx context.Context, filter RecipeFilter) ([]*models.Recipe, error) {
	var recipes []models.Recipe
	err := filter.apply(s.db.WithContext(ctx)).
		Preload("Author").
		Preload("Ratings").
		Order("created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}

	result := make([]*models.Recipe, len(recipes))
	for i := range recipes {
		annotateRatings(&recipes[i])
		result[i] = &recipes[i]
	}
	return result, nil
}

// GetRecipe retrieves one recipe with its author, all ratings (newest first,
// each with the rater loaded) and the derived rating aggregate.
//
// Note: this read path does not check is_public; any caller with a valid id
// can fetch a private recipe's detail. That matches the shipped behavior of
// the web app and is kept deliberately (see DESIGN.md).
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Ratings", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Ratings.User").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	annotateRatings(&recipe)
	return &recipe, nil
}

// UpdateRecipe applies a partial update after the ownership check and
// returns the updated recipe with the author loaded.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, input UpdateRecipeInput, requesterID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.loadOwned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	if updates := input.updates(); len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(recipe).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	var updated models.Recipe
	if err := s.db.WithContext(ctx).Preload("Author").First(&updated, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteRecipe removes a recipe and its ratings after the ownership check.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, id, requesterID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

// RateRecipe upserts the caller's rating for a recipe. The unique index on
// (user_id, recipe_id) makes concurrent submissions collapse into one row.
func (s *RecipeService) RateRecipe(ctx context.Context, recipeID uuid.UUID, raterID uuid.UUID, rating int, comment string) (*models.Rating, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	if !recipe.IsPublic && recipe.AuthorID != raterID {
		return nil, ErrRecipePrivate
	}

	row := models.Rating{
		UserID:   raterID,
		RecipeID: recipeID,
		Rating:   rating,
		Comment:  comment,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}

	var saved models.Rating
	err = s.db.WithContext(ctx).
		Preload("User").
		First(&saved, "user_id = ? AND recipe_id = ?", raterID, recipeID).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// AuthorizeRecipeOwner reports whether the requester owns the recipe,
// returning ErrRecipeNotFound or ErrNotRecipeOwner otherwise.
func (s *RecipeService) AuthorizeRecipeOwner(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) error {
	_, err := s.loadOwned(ctx, id, requesterID)
	return err
}

// loadOwned fetches a recipe and enforces that the requester is its author.
func (s *RecipeService) loadOwned(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != requesterID {
		return nil, ErrNotRecipeOwner
	}
	return &recipe, nil
}

// annotateRatings fills the derived average and count from loaded ratings.
// The average is 0, not NaN, when a recipe has no ratings.
func annotateRatings(r *models.Recipe) {
	if len(r.Ratings) == 0 {
		r.AverageRating = 0
		r.RatingCount = 0
		return
	}
	sum := 0
	for _, rt := range r.Ratings {
		sum += rt.Rating
	}
	r.AverageRating = float64(sum) / float64(len(r.Ratings))
	r.RatingCount = len(r.Ratings)
}
