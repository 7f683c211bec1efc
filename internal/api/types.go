package api

import "github.com/dishcraft/backend/internal/model"

// Request bodies keep the field names the legacy clients already send.

// SignUpRequest carries the display name for email/password registrations.
// Google sign-ins ignore it and use the provider profile name.
type SignUpRequest struct {
	Name string `json:"name"`
}

// CreateRecipeRequest is the body of POST /api/recipes. Creator is the
// identity subject of the recipe owner.
type CreateRecipeRequest struct {
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Tags        model.RecipeTags   `json:"tags"`
	Ingredients []model.Ingredient `json:"ingredients" binding:"required,min=1"`
	Steps       []string           `json:"steps" binding:"required,min=1"`
	Image       []string           `json:"image"`
	Creator     string             `json:"creator" binding:"required"`
	Nutrition   model.Nutrition    `json:"nutrition"`
}

// GenerateRecipeRequest is the body of POST /api/recipes/generate.
type GenerateRecipeRequest struct {
	Ingredients        string `json:"ingredients" binding:"required"`
	DietaryPreferences string `json:"dietaryPreferences"`
}

// LikeRequest identifies the liker by identity subject.
type LikeRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	FirebaseUID  string   `json:"firebaseUID" binding:"required"`
	Name         string   `json:"name" binding:"required,min=3"`
	Email        string   `json:"email" binding:"required,email"`
	SavedRecipes []string `json:"savedRecipes"`
}

// SaveRecipeRequest is the body of POST /api/users/save-recipe.
type SaveRecipeRequest struct {
	FirebaseUID string `json:"firebaseUID" binding:"required"`
	RecipeID    string `json:"recipeId" binding:"required"`
}

// UpdateNameRequest is the body of PATCH /api/users/update-name.
type UpdateNameRequest struct {
	FirebaseUID string `json:"firebaseUID" binding:"required"`
	NewName     string `json:"newName" binding:"required,min=3"`
}

// UpdateEmailRequest is the body of PATCH /api/users/update-email.
type UpdateEmailRequest struct {
	FirebaseUID string `json:"firebaseUID" binding:"required"`
	NewEmail    string `json:"newEmail" binding:"required,email"`
}

// RecipeSummary is the shape of entries in a profile's liked list.
type RecipeSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
}

// ProfileResponse is the body of GET /api/users/:id.
type ProfileResponse struct {
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	SavedRecipes []model.Recipe  `json:"savedRecipes"`
	LikedRecipes []RecipeSummary `json:"likedRecipes"`
}
