package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dishcraft/backend/config"
	"github.com/dishcraft/backend/internal/api"
	"github.com/dishcraft/backend/internal/middleware"
)

// Handlers bundles everything the router mounts. RequireAuth guards the
// routes that need a resolved user in the request context.
type Handlers struct {
	Auth        *api.AuthHandler
	Recipe      *api.RecipeHandler
	User        *api.UserHandler
	RequireAuth gin.HandlerFunc
}

// New builds the gin engine with all routes mounted. The paths match the
// legacy deployment exactly so existing clients keep working.
func New(cfg *config.Config, h Handlers, logger *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(cfg.AllowedOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.ImageStorage == "local" {
		engine.Static("/generated_images", cfg.ImageDir)
	}

	auth := engine.Group("/api/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/signup", h.Auth.SignUp)
		auth.GET("/getUser", h.Auth.GetUser)
	}

	recipes := engine.Group("/api/recipes")
	{
		recipes.POST("", h.Recipe.Create)
		recipes.GET("", h.Recipe.List)
		recipes.POST("/generate", h.RequireAuth, h.Recipe.Generate)
		recipes.POST("/like/:recipeId", h.Recipe.Like)
		recipes.GET("/:id", h.Recipe.Get)
		recipes.DELETE("/:id", h.Recipe.Delete)
	}

	users := engine.Group("/api/users")
	{
		users.POST("", h.User.Create)
		users.POST("/save-recipe", h.User.SaveRecipe)
		users.PATCH("/update-name", h.User.UpdateName)
		users.PATCH("/update-email", h.User.UpdateEmail)
		users.GET("/:id", h.User.Get)
	}

	return engine
}
