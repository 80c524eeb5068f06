package client

import (
	"time"

	"github.com/google/uuid"
)

// User is the user projection returned by the API.
type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Rating is one user's rating of a recipe.
type Rating struct {
	ID        uuid.UUID `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	UserID    uuid.UUID `json:"user_id"`
	RecipeID  uuid.UUID `json:"recipe_id"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Recipe is a recipe annotated with its rating aggregate.
type Recipe struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Ingredients   []string  `json:"ingredients"`
	Instructions  []string  `json:"instructions"`
	PrepTime      int       `json:"prep_time"`
	CookTime      int       `json:"cook_time"`
	Servings      int       `json:"servings"`
	Difficulty    string    `json:"difficulty"`
	Cuisine       string    `json:"cuisine,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	IsPublic      bool      `json:"is_public"`
	AuthorID      uuid.UUID `json:"author_id"`
	Author        *User     `json:"author,omitempty"`
	AverageRating float64   `json:"average_rating"`
	RatingCount   int       `json:"rating_count"`
	Ratings       []Rating  `json:"ratings,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type recipeList struct {
	Recipes []Recipe `json:"recipes"`
}

// CreateRecipeInput is the payload for CreateRecipe.
type CreateRecipeInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     int      `json:"prep_time"`
	CookTime     int      `json:"cook_time"`
	Servings     int      `json:"servings"`
	Difficulty   string   `json:"difficulty"`
	Cuisine      string   `json:"cuisine,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	IsPublic     *bool    `json:"is_public,omitempty"`
}

// UpdateRecipeInput is the payload for UpdateRecipe. Nil fields are omitted
// from the request and left unchanged by the server.
type UpdateRecipeInput struct {
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Ingredients  *[]string `json:"ingredients,omitempty"`
	Instructions *[]string `json:"instructions,omitempty"`
	PrepTime     *int      `json:"prep_time,omitempty"`
	CookTime     *int      `json:"cook_time,omitempty"`
	Servings     *int      `json:"servings,omitempty"`
	Difficulty   *string   `json:"difficulty,omitempty"`
	Cuisine      *string   `json:"cuisine,omitempty"`
	ImageURL     *string   `json:"image_url,omitempty"`
	IsPublic     *bool     `json:"is_public,omitempty"`
}
