package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dishcraft/backend/internal/apperr"
	"github.com/dishcraft/backend/internal/model"
	"github.com/dishcraft/backend/internal/service"
)

// UserHandler serves the /api/users endpoints.
type UserHandler struct {
	users   service.UserStore
	recipes service.RecipeStore
	logger  *zap.Logger
}

// NewUserHandler creates a user handler.
func NewUserHandler(users service.UserStore, recipes service.RecipeStore, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, recipes: recipes, logger: logger.Named("api.user")}
}

// Create registers a user record, or returns the existing one. The endpoint
// is idempotent because clients retry it after every sign-in.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	existing, err := h.users.FindBySubject(c.Request.Context(), req.FirebaseUID)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "User already exists", "user": existing})
		return
	}
	if !errors.Is(err, service.ErrNotFound) {
		respondError(c, h.logger, apperr.Wrap(apperr.Persistence, "failed to look up user", err))
		return
	}

	saved := make([]primitive.ObjectID, 0, len(req.SavedRecipes))
	for _, raw := range req.SavedRecipes {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid recipe ID in savedRecipes"})
			return
		}
		saved = append(saved, id)
	}

	user := &model.User{
		Subject:      req.FirebaseUID,
		Name:         req.Name,
		Email:        req.Email,
		SavedRecipes: saved,
	}
	err = h.users.Create(c.Request.Context(), user)
	if errors.Is(err, service.ErrDuplicateKey) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
		return
	}
	if err != nil {
		respondError(c, h.logger, apperr.Wrap(apperr.Persistence, "failed to create user", err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}

// Get returns a profile by identity subject, with the saved recipes fully
// populated and the liked recipes as summaries.
func (h *UserHandler) Get(c *gin.Context) {
	subject := c.Param("id")

	user, err := h.users.FindBySubject(c.Request.Context(), subject)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		respondError(c, h.logger, apperr.Wrap(apperr.Persistence, "failed to look up user", err))
		return
	}

	saved, err := h.recipes.FindManyByID(c.Request.Context(), user.SavedRecipes)
	if err != nil {
		respondError(c, h.logger, apperr.Wrap(apperr.Persistence, "failed to load saved recipes", err))
		return
	}

	liked, err := h.recipes.FindLikedBy(c.Request.Context(), subject)
	if err != nil {
		respondError(c, h.logger, apperr.Wrap(apperr.Persistence, "failed to load liked recipes", err))
		return
	}
	likedSummaries := make([]RecipeSummary, 0, len(liked))
	for _, recipe := range liked {
		summary := RecipeSummary{ID: recipe.ID.Hex(), Title: recipe.Title}
		if len(recipe.Image) > 0 {
			summary.Image = recipe.Image[0]
		}
		likedSummaries = append(likedSummaries, summary)
	}

	c.JSON(http.StatusOK, ProfileResponse{
		Name:         user.Name,
		Email:        user.Email,
		SavedRecipes: saved,
		LikedRecipes: likedSummaries,
	})
}

// SaveRecipe adds a recipe to the user's saved list. Saving an already saved
// recipe is a no-op.
func (h *UserHandler) SaveRecipe(c *gin.Context) {
	var req SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	recipeID, err := primitive.ObjectIDFromHex(req.RecipeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid recipe ID"})
		return
	}

	user, err := h.users.FindBySubject(c.Request.Context(), req.FirebaseUID)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		respondError(c, h.logger, apperr.Wrap(apperr.Persistence, "failed to look up user", err))
		return
	}

	if _, err := h.recipes.FindByID(c.Request.Context(), recipeID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
			return
		}
		respondError(c, h.logger, apperr.Wrap(apperr.Persistence, "failed to load recipe", err))
		return
	}

	if user.AddSavedRecipe(recipeID) {
		if err := h.users.SaveRecipe(c.Request.Context(), user.ID, recipeID); err != nil {
			respondError(c, h.logger, apperr.Wrap(apperr.Persistence, "failed to save recipe", err))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe saved successfully", "savedRecipes": user.SavedRecipes})
}

// UpdateName changes the display name.
func (h *UserHandler) UpdateName(c *gin.Context) {
	var req UpdateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	user, err := h.users.UpdateName(c.Request.Context(), req.FirebaseUID, req.NewName)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		respondError(c, h.logger, apperr.Wrap(apperr.Persistence, "failed to update name", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Name updated successfully", "user": user})
}

// UpdateEmail changes the contact email after checking it is not already in
// use by another account.
func (h *UserHandler) UpdateEmail(c *gin.Context) {
	var req UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	owner, err := h.users.FindByEmail(c.Request.Context(), req.NewEmail)
	if err == nil && owner.Subject != req.FirebaseUID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email already in use"})
		return
	}
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		respondError(c, h.logger, apperr.Wrap(apperr.Persistence, "failed to check email", err))
		return
	}

	user, err := h.users.UpdateEmail(c.Request.Context(), req.FirebaseUID, req.NewEmail)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		respondError(c, h.logger, apperr.Wrap(apperr.Persistence, "failed to update email", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email updated successfully", "user": user})
}
