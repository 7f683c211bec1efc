package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dishcraft/backend/internal/apperr"
	"github.com/dishcraft/backend/internal/middleware"
	"github.com/dishcraft/backend/internal/model"
	"github.com/dishcraft/backend/internal/service"
)

// RecipeHandler serves the /api/recipes endpoints.
type RecipeHandler struct {
	recipes   service.RecipeStore
	users     service.UserStore
	generator *service.GeneratorService
	logger    *zap.Logger
}

// NewRecipeHandler creates a recipe handler.
func NewRecipeHandler(
	recipes service.RecipeStore,
	users service.UserStore,
	generator *service.GeneratorService,
	logger *zap.Logger,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		users:     users,
		generator: generator,
		logger:    logger.Named("api.recipe"),
	}
}

// Create stores a manually authored recipe.
func (h *RecipeHandler) Create(c *gin.Context) {
	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	creator, err := h.users.FindBySubject(c.Request.Context(), req.Creator)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		respondError(c, h.logger, apperr.Wrap(apperr.Persistence, "failed to look up creator", err))
		return
	}

	recipe := model.Recipe{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		Image:       req.Image,
		Creator:     &creator.ID,
		Nutrition:   req.Nutrition,
	}
	recipe.ApplyDefaults()

	if err := h.recipes.Insert(c.Request.Context(), &recipe); err != nil {
		respondError(c, h.logger, apperr.Wrap(apperr.Persistence, "failed to save recipe", err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Recipe created successfully!", "recipe": recipe})
}

// List returns recipes matching the tag filters, search term and sort order
// from the query string.
func (h *RecipeHandler) List(c *gin.Context) {
	query := service.ListQuery{
		MealType: c.Query("mealType"),
		DishType: c.Query("dishType"),
		Cuisine:  c.Query("cuisine"),
		Search:   c.Query("search"),
		SortBy:   c.Query("sortBy"),
	}

	recipes, err := h.recipes.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.logger, apperr.Wrap(apperr.Persistence, "failed to list recipes", err))
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// Get returns a single recipe by id.
func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := h.recipeID(c, c.Param("id"))
	if !ok {
		return
	}

	recipe, err := h.recipes.FindByID(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
		return
	}
	if err != nil {
		respondError(c, h.logger, apperr.Wrap(apperr.Persistence, "failed to load recipe", err))
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// Delete removes a recipe. References held in saved lists stay behind.
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := h.recipeID(c, c.Param("id"))
	if !ok {
		return
	}

	err := h.recipes.Delete(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
		return
	}
	if err != nil {
		respondError(c, h.logger, apperr.Wrap(apperr.Persistence, "failed to delete recipe", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully!"})
}

// Like toggles the caller's membership in the recipe's liker set.
func (h *RecipeHandler) Like(c *gin.Context) {
	id, ok := h.recipeID(c, c.Param("recipeId"))
	if !ok {
		return
	}

	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User ID is required"})
		return
	}

	recipe, err := h.recipes.FindByID(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
		return
	}
	if err != nil {
		respondError(c, h.logger, apperr.Wrap(apperr.Persistence, "failed to load recipe", err))
		return
	}

	liked := recipe.ToggleLike(req.UserID)
	if err := h.recipes.ReplaceLikes(c.Request.Context(), id, recipe.LikedBy); err != nil {
		respondError(c, h.logger, apperr.Wrap(apperr.Persistence, "failed to update likes", err))
		return
	}

	message := "Recipe unliked"
	if liked {
		message = "Recipe liked"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "likedBy": recipe.LikedBy})
}

// Generate runs the AI generation pipeline for the authenticated user,
// which the auth middleware has already resolved. The rate-limit key is the
// raw credential when present, the client IP otherwise.
func (h *RecipeHandler) Generate(c *gin.Context) {
	var req GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Ingredients are required"})
		return
	}

	user, ok := middleware.UserFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized: Missing token"})
		return
	}

	limitKey := c.GetHeader("Authorization")
	if limitKey == "" {
		limitKey = c.ClientIP()
	}

	recipe, err := h.generator.Generate(c.Request.Context(), user, limitKey, req.Ingredients, req.DietaryPreferences)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Recipe generated and saved!", "recipe": recipe})
}

func (h *RecipeHandler) recipeID(c *gin.Context, raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid recipe ID"})
		return primitive.NilObjectID, false
	}
	return id, true
}
