package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/forkful/backend/internal/models"
)

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse is the minimal user projection exposed by the API
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients" binding:"required,min=1,dive,required"`
	Instructions []string `json:"instructions" binding:"required,min=1,dive,required"`
	PrepTime     *int     `json:"prep_time" binding:"required,gte=0"`
	CookTime     *int     `json:"cook_time" binding:"required,gte=0"`
	Servings     *int     `json:"servings" binding:"required,gte=1"`
	Difficulty   string   `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Cuisine      string   `json:"cuisine"`
	ImageURL     string   `json:"image_url"`
	IsPublic     *bool    `json:"is_public"`
}

// UpdateRecipeRequest represents a partial update. Absent fields stay nil so
// the service can tell "not provided" from "set to the zero value".
type UpdateRecipeRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Ingredients  *[]string `json:"ingredients" binding:"omitempty,min=1,dive,required"`
	Instructions *[]string `json:"instructions" binding:"omitempty,min=1,dive,required"`
	PrepTime     *int      `json:"prep_time" binding:"omitempty,gte=0"`
	CookTime     *int      `json:"cook_time" binding:"omitempty,gte=0"`
	Servings     *int      `json:"servings" binding:"omitempty,gte=1"`
	Difficulty   *string   `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Cuisine      *string   `json:"cuisine"`
	ImageURL     *string   `json:"image_url"`
	IsPublic     *bool     `json:"is_public"`
}

// RateRecipeRequest represents the request body for rating a recipe
type RateRecipeRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// RatingResponse represents a rating joined with its rater projection
type RatingResponse struct {
	ID        uuid.UUID     `json:"id"`
	Rating    int           `json:"rating"`
	Comment   string        `json:"comment,omitempty"`
	UserID    uuid.UUID     `json:"user_id"`
	RecipeID  uuid.UUID     `json:"recipe_id"`
	User      *UserResponse `json:"user,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// RecipeResponse represents a recipe annotated with its rating aggregate
type RecipeResponse struct {
	ID            uuid.UUID        `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	Ingredients   []string         `json:"ingredients"`
	Instructions  []string         `json:"instructions"`
	PrepTime      int              `json:"prep_time"`
	CookTime      int              `json:"cook_time"`
	Servings      int              `json:"servings"`
	Difficulty    string           `json:"difficulty"`
	Cuisine       string           `json:"cuisine,omitempty"`
	ImageURL      string           `json:"image_url,omitempty"`
	IsPublic      bool             `json:"is_public"`
	AuthorID      uuid.UUID        `json:"author_id"`
	Author        *UserResponse    `json:"author,omitempty"`
	AverageRating float64          `json:"average_rating"`
	RatingCount   int              `json:"rating_count"`
	Ratings       []RatingResponse `json:"ratings,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func newUserResponse(u *models.User, withEmail bool) *UserResponse {
	if u == nil {
		return nil
	}
	resp := &UserResponse{ID: u.ID, Name: u.Name}
	if withEmail {
		resp.Email = u.Email
	}
	return resp
}

func newRatingResponse(r *models.Rating) RatingResponse {
	return RatingResponse{
		ID:        r.ID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		UserID:    r.UserID,
		RecipeID:  r.RecipeID,
		User:      newUserResponse(r.User, false),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func newRecipeResponse(r *models.Recipe, withAuthorEmail, withRatings bool) RecipeResponse {
	resp := RecipeResponse{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Ingredients:   []string(r.Ingredients),
		Instructions:  []string(r.Instructions),
		PrepTime:      r.PrepTime,
		CookTime:      r.CookTime,
		Servings:      r.Servings,
		Difficulty:    r.Difficulty,
		Cuisine:       r.Cuisine,
		ImageURL:      r.ImageURL,
		IsPublic:      r.IsPublic,
		AuthorID:      r.AuthorID,
		Author:        newUserResponse(r.Author, withAuthorEmail),
		AverageRating: r.AverageRating,
		RatingCount:   r.RatingCount,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if withRatings {
		resp.Ratings = make([]RatingResponse, len(r.Ratings))
		for i := range r.Ratings {
			resp.Ratings[i] = newRatingResponse(&r.Ratings[i])
		}
	}
	return resp
}
