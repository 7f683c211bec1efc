package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultTag is the fallback value for every tag field the AI (or a client)
// leaves blank.
const DefaultTag = "Other"

// RecipeTags groups the coarse classification labels of a recipe.
type RecipeTags struct {
	MealType string   `bson:"mealType" json:"mealType"`
	Cuisine  string   `bson:"cuisine" json:"cuisine"`
	DishType string   `bson:"dishType" json:"dishType"`
	Extra    []string `bson:"extra" json:"extra"`
}

// Ingredient is one entry of a recipe's ingredient list.
type Ingredient struct {
	Name   string `bson:"name" json:"name"`
	Amount string `bson:"amount" json:"amount"`
}

// Nutrition holds per-recipe nutritional facts. The numeric fields are
// required by the schema but defaulted to zero on every write path, so a
// stored recipe always carries typed values.
type Nutrition struct {
	Calories float64 `bson:"calories" json:"calories"`
	Protein  float64 `bson:"protein" json:"protein"`
	Carbs    float64 `bson:"carbs" json:"carbs"`
	Fats     float64 `bson:"fats" json:"fats"`
	Vitamins string  `bson:"vitamins" json:"vitamins"`
}

// Recipe is a stored recipe document. Creator is nil for AI-generated
// records that were never associated with an account.
type Recipe struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Tags        RecipeTags          `bson:"tags" json:"tags"`
	Ingredients []Ingredient        `bson:"ingredients" json:"ingredients"`
	Steps       []string            `bson:"steps" json:"steps"`
	Image       []string            `bson:"image" json:"image"`
	Creator     *primitive.ObjectID `bson:"creator,omitempty" json:"creator,omitempty"`
	LikedBy     []string            `bson:"likedBy" json:"likedBy"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	Nutrition   Nutrition           `bson:"nutrition" json:"nutrition"`
}

// ApplyDefaults fills every field that must be present before persistence.
// It runs on both the direct-create and the AI-generation write path.
func (r *Recipe) ApplyDefaults() {
	if r.Title == "" {
		r.Title = "Untitled Recipe"
	}
	if r.Tags.MealType == "" {
		r.Tags.MealType = DefaultTag
	}
	if r.Tags.Cuisine == "" {
		r.Tags.Cuisine = DefaultTag
	}
	if r.Tags.DishType == "" {
		r.Tags.DishType = DefaultTag
	}
	if r.Tags.Extra == nil {
		r.Tags.Extra = []string{}
	}
	if r.Ingredients == nil {
		r.Ingredients = []Ingredient{}
	}
	if r.Steps == nil {
		r.Steps = []string{}
	}
	if r.Image == nil {
		r.Image = []string{}
	}
	if r.LikedBy == nil {
		r.LikedBy = []string{}
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
}

// ToggleLike flips membership of subject in the liker set. Returns true when
// the subject is liked after the call, false when the toggle removed it.
func (r *Recipe) ToggleLike(subject string) bool {
	for i, s := range r.LikedBy {
		if s == subject {
			r.LikedBy = append(r.LikedBy[:i], r.LikedBy[i+1:]...)
			return false
		}
	}
	r.LikedBy = append(r.LikedBy, subject)
	return true
}
