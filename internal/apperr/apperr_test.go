package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{Unauthorized, http.StatusUnauthorized},
		{NotFound, http.StatusNotFound},
		{Validation, http.StatusBadRequest},
		{RateLimited, http.StatusTooManyRequests},
		{GenerationService, http.StatusBadGateway},
		{Persistence, http.StatusInternalServerError},
		{Server, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(New(tt.kind, "x")))
	}

	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestMessageMasksInternalDetail(t *testing.T) {
	assert.Equal(t, "Server Error", Message(Wrap(Persistence, "failed to save recipe", errors.New("connection reset"))))
	assert.Equal(t, "Server Error", Message(errors.New("plain")))
	assert.Equal(t, "Recipe not found", Message(New(NotFound, "Recipe not found")))
}

func TestKindOfUnwrapsChains(t *testing.T) {
	inner := New(RateLimited, "slow down")
	wrapped := Wrap(Server, "outer", inner)

	// The outermost kind wins; the chain is still inspectable.
	assert.Equal(t, Server, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, inner) || errors.As(wrapped, new(*Error)))

	assert.True(t, Is(inner, RateLimited))
	assert.False(t, Is(nil, RateLimited))
}
