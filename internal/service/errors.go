package service

import "errors"

// Sentinel errors returned by the services. Handlers map these onto HTTP
// status codes; anything else is treated as an internal error.
var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrNotRecipeOwner     = errors.New("you can only modify your own recipes")
	ErrRecipePrivate      = errors.New("recipe is private")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
