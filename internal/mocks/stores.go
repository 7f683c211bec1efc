package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dishcraft/backend/internal/model"
	"github.com/dishcraft/backend/internal/service"
)

// MockUserStore is a mock implementation of service.UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindBySubject(ctx context.Context, subject string) (*model.User, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) SaveRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}

func (m *MockUserStore) UpdateName(ctx context.Context, subject, name string) (*model.User, error) {
	args := m.Called(ctx, subject, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserStore) UpdateEmail(ctx context.Context, subject, email string) (*model.User, error) {
	args := m.Called(ctx, subject, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockRecipeStore is a mock implementation of service.RecipeStore.
type MockRecipeStore struct {
	mock.Mock
}

func (m *MockRecipeStore) Insert(ctx context.Context, recipe *model.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockRecipeStore) FindManyByID(ctx context.Context, ids []primitive.ObjectID) ([]model.Recipe, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockRecipeStore) FindLikedBy(ctx context.Context, subject string) ([]model.Recipe, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockRecipeStore) List(ctx context.Context, query service.ListQuery) ([]model.Recipe, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func (m *MockRecipeStore) ReplaceLikes(ctx context.Context, id primitive.ObjectID, likedBy []string) error {
	args := m.Called(ctx, id, likedBy)
	return args.Error(0)
}

func (m *MockRecipeStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
