package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dishcraft/backend/internal/middleware"
	"github.com/dishcraft/backend/internal/service"
)

// AuthHandler serves the /api/auth endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(auth *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger.Named("api.auth")}
}

// Login resolves the bearer token into a user, creating one on first sight.
func (h *AuthHandler) Login(c *gin.Context) {
	token := middleware.BearerToken(c)
	user, err := h.auth.ResolveUser(c.Request.Context(), token)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": user})
}

// SignUp registers the authenticated identity as a new user.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	token := middleware.BearerToken(c)
	user, err := h.auth.SignUp(c.Request.Context(), token, req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
}

// GetUser returns the display name of the authenticated user.
func (h *AuthHandler) GetUser(c *gin.Context) {
	token := middleware.BearerToken(c)
	user, err := h.auth.LookupUser(c.Request.Context(), token)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": user.Name})
}
