package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dishcraft/backend/internal/model"
)

// Sentinel errors returned by store implementations. Services translate them
// into the apperr taxonomy at the boundary.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// ListQuery carries the filter and sort parameters of a recipe listing.
type ListQuery struct {
	MealType string
	DishType string
	Cuisine  string
	Search   string
	SortBy   string
}

// UserStore persists user documents.
type UserStore interface {
	FindBySubject(ctx context.Context, subject string) (*model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// Create inserts a new user. Returns ErrDuplicateKey when another
	// request already created a record for the same subject or email.
	Create(ctx context.Context, user *model.User) error
	// SaveRecipe adds recipeID to the user's saved list. Idempotent.
	SaveRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) error
	UpdateName(ctx context.Context, subject, name string) (*model.User, error)
	UpdateEmail(ctx context.Context, subject, email string) (*model.User, error)
}

// RecipeStore persists recipe documents.
type RecipeStore interface {
	Insert(ctx context.Context, recipe *model.Recipe) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Recipe, error)
	FindManyByID(ctx context.Context, ids []primitive.ObjectID) ([]model.Recipe, error)
	FindLikedBy(ctx context.Context, subject string) ([]model.Recipe, error)
	List(ctx context.Context, query ListQuery) ([]model.Recipe, error)
	// ReplaceLikes overwrites the liker set of a recipe.
	ReplaceLikes(ctx context.Context, id primitive.ObjectID, likedBy []string) error
	// Delete removes a recipe. No cleanup of references held elsewhere.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TextGenerator produces raw recipe text from an external language model.
type TextGenerator interface {
	GenerateRecipeText(ctx context.Context, ingredients, dietaryPreferences string) (string, error)
}

// ImageGenerator produces stored image references for a recipe title.
// An empty slice with a nil error means the provider returned no images.
type ImageGenerator interface {
	GenerateRecipeImages(ctx context.Context, title string) ([]string, error)
}
