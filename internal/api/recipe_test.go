package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dishcraft/backend/internal/middleware"
	"github.com/dishcraft/backend/internal/mocks"
	"github.com/dishcraft/backend/internal/model"
	"github.com/dishcraft/backend/internal/ratelimit"
	"github.com/dishcraft/backend/internal/service"
)

type recipeFixture struct {
	users    *mocks.MockUserStore
	recipes  *mocks.MockRecipeStore
	limiter  *mocks.MockLimiter
	textGen  *mocks.MockTextGenerator
	imageGen *mocks.MockImageGenerator
	router   *gin.Engine
}

func newRecipeFixture() *recipeFixture {
	f := &recipeFixture{
		users:    new(mocks.MockUserStore),
		recipes:  new(mocks.MockRecipeStore),
		limiter:  new(mocks.MockLimiter),
		textGen:  new(mocks.MockTextGenerator),
		imageGen: new(mocks.MockImageGenerator),
	}

	logger := zap.NewNop()
	auth := service.NewAuthService(service.NewStaticVerifier(testSecret), f.users, logger)
	generator := service.NewGeneratorService(f.limiter, f.textGen, f.imageGen, f.users, f.recipes, logger)
	h := NewRecipeHandler(f.recipes, f.users, generator, logger)

	f.router = gin.New()
	f.router.POST("/api/recipes", h.Create)
	f.router.GET("/api/recipes", h.List)
	f.router.POST("/api/recipes/generate", middleware.RequireUser(auth.ResolveUser), h.Generate)
	f.router.POST("/api/recipes/like/:recipeId", h.Like)
	f.router.GET("/api/recipes/:id", h.Get)
	f.router.DELETE("/api/recipes/:id", h.Delete)
	return f
}

func TestCreateRecipe(t *testing.T) {
	f := newRecipeFixture()
	creator := &model.User{ID: primitive.NewObjectID(), Subject: "uid-1"}

	f.users.On("FindBySubject", mock.Anything, "uid-1").Return(creator, nil)
	f.recipes.On("Insert", mock.Anything, mock.MatchedBy(func(r *model.Recipe) bool {
		return r.Title == "Shakshuka" && r.Creator != nil && *r.Creator == creator.ID
	})).Return(nil)

	body := `{
		"title": "Shakshuka",
		"description": "Eggs poached in tomato sauce.",
		"tags": {"mealType": "Veg", "cuisine": "Middle Eastern", "dishType": "Breakfast"},
		"ingredients": [{"name": "Eggs", "amount": "4"}],
		"steps": ["Simmer the sauce.", "Poach the eggs."],
		"creator": "uid-1"
	}`
	w := doJSON(f.router, http.MethodPost, "/api/recipes", "", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	f.recipes.AssertExpectations(t)
}

func TestCreateRecipeMissingSteps(t *testing.T) {
	f := newRecipeFixture()

	body := `{"title": "No Steps", "ingredients": [{"name": "Air", "amount": ""}], "creator": "uid-1"}`
	w := doJSON(f.router, http.MethodPost, "/api/recipes", "", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.recipes.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateRecipeUnknownCreator(t *testing.T) {
	f := newRecipeFixture()
	f.users.On("FindBySubject", mock.Anything, "uid-missing").Return(nil, service.ErrNotFound)

	body := `{"title": "Orphan", "ingredients": [{"name": "Eggs", "amount": "1"}], "steps": ["Cook."], "creator": "uid-missing"}`
	w := doJSON(f.router, http.MethodPost, "/api/recipes", "", body)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRecipesPassesQuery(t *testing.T) {
	f := newRecipeFixture()

	expected := service.ListQuery{MealType: "Vegan", Cuisine: "Thai", Search: "curry", SortBy: "most_liked"}
	f.recipes.On("List", mock.Anything, expected).Return([]model.Recipe{{Title: "Green Curry"}}, nil)

	w := doJSON(f.router, http.MethodGet, "/api/recipes?mealType=Vegan&cuisine=Thai&search=curry&sortBy=most_liked", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var got []model.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Green Curry", got[0].Title)
}

func TestGetRecipe(t *testing.T) {
	f := newRecipeFixture()
	id := primitive.NewObjectID()
	f.recipes.On("FindByID", mock.Anything, id).Return(&model.Recipe{ID: id, Title: "Pho"}, nil)

	w := doJSON(f.router, http.MethodGet, "/api/recipes/"+id.Hex(), "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pho")
}

func TestGetRecipeInvalidID(t *testing.T) {
	f := newRecipeFixture()

	w := doJSON(f.router, http.MethodGet, "/api/recipes/not-an-id", "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid recipe ID")
}

func TestGetRecipeNotFound(t *testing.T) {
	f := newRecipeFixture()
	id := primitive.NewObjectID()
	f.recipes.On("FindByID", mock.Anything, id).Return(nil, service.ErrNotFound)

	w := doJSON(f.router, http.MethodGet, "/api/recipes/"+id.Hex(), "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRecipe(t *testing.T) {
	f := newRecipeFixture()
	id := primitive.NewObjectID()
	f.recipes.On("Delete", mock.Anything, id).Return(nil)

	w := doJSON(f.router, http.MethodDelete, "/api/recipes/"+id.Hex(), "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Recipe deleted successfully!")
}

func TestLikeTogglesMembership(t *testing.T) {
	f := newRecipeFixture()
	id := primitive.NewObjectID()

	f.recipes.On("FindByID", mock.Anything, id).
		Return(&model.Recipe{ID: id, LikedBy: []string{"alice"}}, nil)
	f.recipes.On("ReplaceLikes", mock.Anything, id, []string{"alice", "bob"}).Return(nil)

	w := doJSON(f.router, http.MethodPost, "/api/recipes/like/"+id.Hex(), "", `{"userId": "bob"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Recipe liked")
	f.recipes.AssertExpectations(t)
}

func TestLikeSecondTimeUnlikes(t *testing.T) {
	f := newRecipeFixture()
	id := primitive.NewObjectID()

	f.recipes.On("FindByID", mock.Anything, id).
		Return(&model.Recipe{ID: id, LikedBy: []string{"alice", "bob"}}, nil)
	f.recipes.On("ReplaceLikes", mock.Anything, id, []string{"alice"}).Return(nil)

	w := doJSON(f.router, http.MethodPost, "/api/recipes/like/"+id.Hex(), "", `{"userId": "bob"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Recipe unliked")
}

func TestLikeMissingUserID(t *testing.T) {
	f := newRecipeFixture()
	id := primitive.NewObjectID()

	w := doJSON(f.router, http.MethodPost, "/api/recipes/like/"+id.Hex(), "", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

const generatedRecipeJSON = `{"title": "Lentil Soup", "steps": ["Simmer the lentils."], "ingredients": [{"item": "Lentils", "amount": "1 cup"}]}`

func TestGenerateRecipe(t *testing.T) {
	f := newRecipeFixture()
	user := &model.User{ID: primitive.NewObjectID(), Subject: "uid-gen"}

	f.users.On("FindBySubject", mock.Anything, "uid-gen").Return(user, nil)
	f.limiter.On("Allow", mock.Anything, mock.Anything).
		Return(ratelimit.Result{Allowed: true, Remaining: 4, Reset: time.Now().Add(15 * time.Minute)}, nil)
	f.textGen.On("GenerateRecipeText", mock.Anything, "lentils, carrots", "vegan").Return(generatedRecipeJSON, nil)
	f.imageGen.On("GenerateRecipeImages", mock.Anything, "Lentil Soup").Return([]string{"lentil-soup.png"}, nil)
	f.recipes.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Recipe).ID = primitive.NewObjectID()
	}).Return(nil)
	f.users.On("SaveRecipe", mock.Anything, user.ID, mock.Anything).Return(nil)

	token := mintToken(t, service.IdentityClaims{Subject: "uid-gen"})
	w := doJSON(f.router, http.MethodPost, "/api/recipes/generate", token, `{"ingredients": "lentils, carrots", "dietaryPreferences": "vegan"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Recipe generated and saved!")
	assert.Contains(t, w.Body.String(), "Lentil Soup")
}

func TestGenerateRecipeRateLimited(t *testing.T) {
	f := newRecipeFixture()
	user := &model.User{ID: primitive.NewObjectID(), Subject: "uid-gen"}

	f.users.On("FindBySubject", mock.Anything, "uid-gen").Return(user, nil)
	f.limiter.On("Allow", mock.Anything, mock.Anything).Return(ratelimit.Result{Allowed: false}, nil)

	token := mintToken(t, service.IdentityClaims{Subject: "uid-gen"})
	w := doJSON(f.router, http.MethodPost, "/api/recipes/generate", token, `{"ingredients": "lentils"}`)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")
	f.textGen.AssertNotCalled(t, "GenerateRecipeText", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateRecipeImageFailure(t *testing.T) {
	f := newRecipeFixture()
	user := &model.User{ID: primitive.NewObjectID(), Subject: "uid-gen"}

	f.users.On("FindBySubject", mock.Anything, "uid-gen").Return(user, nil)
	f.limiter.On("Allow", mock.Anything, mock.Anything).
		Return(ratelimit.Result{Allowed: true, Remaining: 4}, nil)
	f.textGen.On("GenerateRecipeText", mock.Anything, "lentils", "").Return(generatedRecipeJSON, nil)
	f.imageGen.On("GenerateRecipeImages", mock.Anything, "Lentil Soup").Return([]string{}, nil)

	token := mintToken(t, service.IdentityClaims{Subject: "uid-gen"})
	w := doJSON(f.router, http.MethodPost, "/api/recipes/generate", token, `{"ingredients": "lentils"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Image generation failed.")
	f.recipes.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestGenerateRecipeMissingIngredients(t *testing.T) {
	f := newRecipeFixture()
	user := &model.User{ID: primitive.NewObjectID(), Subject: "uid-gen"}
	f.users.On("FindBySubject", mock.Anything, "uid-gen").Return(user, nil)

	token := mintToken(t, service.IdentityClaims{Subject: "uid-gen"})
	w := doJSON(f.router, http.MethodPost, "/api/recipes/generate", token, `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.limiter.AssertNotCalled(t, "Allow", mock.Anything, mock.Anything)
}

func TestGenerateRecipeUnauthenticated(t *testing.T) {
	f := newRecipeFixture()

	w := doJSON(f.router, http.MethodPost, "/api/recipes/generate", "", `{"ingredients": "lentils"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	f.limiter.AssertNotCalled(t, "Allow", mock.Anything, mock.Anything)
}

func TestRouteShapesDoNotCollide(t *testing.T) {
	// POST /api/recipes/generate and /api/recipes/like/:recipeId must not be
	// swallowed by the GET/DELETE :id routes.
	f := newRecipeFixture()
	id := primitive.NewObjectID()
	f.recipes.On("FindByID", mock.Anything, id).Return(&model.Recipe{ID: id}, nil)
	f.recipes.On("ReplaceLikes", mock.Anything, id, mock.Anything).Return(nil)

	w := doJSON(f.router, http.MethodPost, fmt.Sprintf("/api/recipes/like/%s", id.Hex()), "", `{"userId": "x"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}
