package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dishcraft/backend/internal/ratelimit"
	"github.com/dishcraft/backend/internal/service"
)

// MockTextGenerator is a mock implementation of service.TextGenerator.
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) GenerateRecipeText(ctx context.Context, ingredients, dietaryPreferences string) (string, error) {
	args := m.Called(ctx, ingredients, dietaryPreferences)
	return args.String(0), args.Error(1)
}

// MockImageGenerator is a mock implementation of service.ImageGenerator.
type MockImageGenerator struct {
	mock.Mock
}

func (m *MockImageGenerator) GenerateRecipeImages(ctx context.Context, title string) ([]string, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockTokenVerifier is a mock implementation of service.TokenVerifier.
type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) VerifyToken(ctx context.Context, raw string) (*service.IdentityClaims, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IdentityClaims), args.Error(1)
}

// MockLimiter is a mock implementation of ratelimit.Limiter.
type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(ctx context.Context, key string) (ratelimit.Result, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(ratelimit.Result), args.Error(1)
}
