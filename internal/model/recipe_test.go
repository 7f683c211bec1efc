package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var r Recipe
	r.ApplyDefaults()

	assert.Equal(t, "Untitled Recipe", r.Title)
	assert.Equal(t, DefaultTag, r.Tags.MealType)
	assert.Equal(t, DefaultTag, r.Tags.Cuisine)
	assert.Equal(t, DefaultTag, r.Tags.DishType)
	assert.NotNil(t, r.Tags.Extra)
	assert.NotNil(t, r.Ingredients)
	assert.NotNil(t, r.Steps)
	assert.NotNil(t, r.Image)
	assert.NotNil(t, r.LikedBy)
	assert.False(t, r.CreatedAt.IsZero())
}

func TestApplyDefaultsKeepsExistingValues(t *testing.T) {
	r := Recipe{
		Title: "Pasta Primavera",
		Tags:  RecipeTags{MealType: "Veg", Cuisine: "Italian", DishType: "Main Course"},
		Steps: []string{"Boil pasta."},
	}
	r.ApplyDefaults()

	assert.Equal(t, "Pasta Primavera", r.Title)
	assert.Equal(t, "Veg", r.Tags.MealType)
	assert.Equal(t, "Italian", r.Tags.Cuisine)
	assert.Equal(t, "Main Course", r.Tags.DishType)
	assert.Equal(t, []string{"Boil pasta."}, r.Steps)
}

func TestToggleLike(t *testing.T) {
	r := Recipe{LikedBy: []string{"alice", "bob"}}

	liked := r.ToggleLike("carol")
	require.True(t, liked)
	assert.Equal(t, []string{"alice", "bob", "carol"}, r.LikedBy)

	liked = r.ToggleLike("carol")
	require.False(t, liked)
	assert.Equal(t, []string{"alice", "bob"}, r.LikedBy)
}

func TestToggleLikeRemovesFromMiddle(t *testing.T) {
	r := Recipe{LikedBy: []string{"alice", "bob", "carol"}}

	liked := r.ToggleLike("bob")
	require.False(t, liked)
	assert.Equal(t, []string{"alice", "carol"}, r.LikedBy)
}
