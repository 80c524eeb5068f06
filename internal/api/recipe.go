package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkful/backend/internal/middleware"
	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/service"
)

// RecipeHandler exposes the recipe CRUD and rating endpoints.
type RecipeHandler struct {
	recipeService *service.RecipeService
	imageService  *service.ImageService
	validator     middleware.TokenValidator
	createLimiter *middleware.RateLimiter
}

func NewRecipeHandler(recipeService *service.RecipeService, imageService *service.ImageService, validator middleware.TokenValidator, createLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		imageService:  imageService,
		validator:     validator,
		createLimiter: createLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRequired := middleware.AuthMiddleware(h.validator)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/my-recipes", authRequired, h.ListMyRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", authRequired, h.createLimiter.RateLimitMiddleware(), h.CreateRecipe)
		recipes.PATCH("/:id", authRequired, h.UpdateRecipe)
		recipes.DELETE("/:id", authRequired, h.DeleteRecipe)
		recipes.POST("/:id/rate", authRequired, h.RateRecipe)
		recipes.POST("/:id/image", authRequired, h.UploadRecipeImage)
	}
}

// ListRecipes returns public recipes, optionally filtered by the q query
// parameter (case-insensitive match on title, description or cuisine).
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), service.PublicRecipes(c.Query("q")))
	if err != nil {
		log.Printf("Failed to list recipes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": h.toResponses(recipes)})
}

// ListMyRecipes returns every recipe, public and private, authored by the
// caller.
func (h *RecipeHandler) ListMyRecipes(c *gin.Context) {
	userID := currentUserID(c)

	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), service.RecipesByAuthor(userID))
	if err != nil {
		log.Printf("Failed to list recipes for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": h.toResponses(recipes)})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseRecipeID(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRecipeResponse(recipe, true, true))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe := &models.Recipe{
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  models.JSONBStringArray(req.Ingredients),
		Instructions: models.JSONBStringArray(req.Instructions),
		PrepTime:     *req.PrepTime,
		CookTime:     *req.CookTime,
		Servings:     *req.Servings,
		Difficulty:   req.Difficulty,
		Cuisine:      req.Cuisine,
		ImageURL:     req.ImageURL,
		IsPublic:     true,
		AuthorID:     currentUserID(c),
	}
	if req.IsPublic != nil {
		recipe.IsPublic = *req.IsPublic
	}

	created, err := h.recipeService.CreateRecipe(c.Request.Context(), recipe)
	if err != nil {
		log.Printf("Failed to create recipe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe"})
		return
	}

	c.JSON(http.StatusCreated, newRecipeResponse(created, true, false))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseRecipeID(c)
	if !ok {
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.UpdateRecipeInput{
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
		Difficulty:   req.Difficulty,
		Cuisine:      req.Cuisine,
		ImageURL:     req.ImageURL,
		IsPublic:     req.IsPublic,
	}

	updated, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, input, currentUserID(c))
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRecipeResponse(updated, true, false))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseRecipeID(c)
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id, currentUserID(c)); err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}

func (h *RecipeHandler) RateRecipe(c *gin.Context) {
	id, ok := parseRecipeID(c)
	if !ok {
		return
	}

	var req RateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := h.recipeService.RateRecipe(c.Request.Context(), id, currentUserID(c), req.Rating, req.Comment)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRatingResponse(rating))
}

// UploadRecipeImage stores a recipe image and records its URL. Owner only;
// returns 503 when no image storage is configured.
func (h *RecipeHandler) UploadRecipeImage(c *gin.Context) {
	if !h.imageService.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage not configured"})
		return
	}

	id, ok := parseRecipeID(c)
	if !ok {
		return
	}
	userID := currentUserID(c)

	// Authorize before touching storage
	if err := h.recipeService.AuthorizeRecipeOwner(c.Request.Context(), id, userID); err != nil {
		h.serviceError(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image file"})
		return
	}
	defer file.Close()

	url, err := h.imageService.UploadRecipeImage(c.Request.Context(), id, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedImageType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Failed to upload image for recipe %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	updated, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, service.UpdateRecipeInput{ImageURL: &url}, userID)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRecipeResponse(updated, true, false))
}

func (h *RecipeHandler) toResponses(recipes []*models.Recipe) []RecipeResponse {
	out := make([]RecipeResponse, len(recipes))
	for i, r := range recipes {
		out[i] = newRecipeResponse(r, false, false)
	}
	return out
}

// serviceError maps service sentinel errors onto HTTP status codes.
func (h *RecipeHandler) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotRecipeOwner), errors.Is(err, service.ErrRecipePrivate):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("Recipe operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func parseRecipeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID reads the verified identity placed in the context by
// AuthMiddleware. Routes calling this must be registered behind it.
func currentUserID(c *gin.Context) uuid.UUID {
	userID, _ := c.Get("user_id")
	id, _ := userID.(uuid.UUID)
	return id
}
