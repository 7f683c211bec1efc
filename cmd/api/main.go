package main

import (
	"context"
	"net/http"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/dishcraft/backend/config"
	"github.com/dishcraft/backend/internal/api"
	"github.com/dishcraft/backend/internal/middleware"
	"github.com/dishcraft/backend/internal/ratelimit"
	"github.com/dishcraft/backend/internal/router"
	"github.com/dishcraft/backend/internal/server"
	"github.com/dishcraft/backend/internal/service"
	"github.com/dishcraft/backend/internal/store"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	db, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Client().Disconnect(shutdownCtx)
	}()

	users := store.NewMongoUserStore(db)
	recipes := store.NewMongoRecipeStore(db)

	verifier, err := buildVerifier(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize token verifier", zap.Error(err))
	}

	limiter := buildLimiter(cfg, logger)

	aiClient, err := buildAIClient(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize generation credentials", zap.Error(err))
	}

	imageStore, err := buildImageStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize image storage", zap.Error(err))
	}

	textGen := service.NewTextGenClient(service.TextGenConfig{
		Endpoint:  cfg.TextGenEndpoint,
		ProjectID: cfg.GCPProjectID,
		Location:  cfg.GCPLocation,
		Model:     cfg.TextModel,
		Timeout:   cfg.TextGenTimeout,
	}, aiClient, logger)

	imageGen := service.NewImageGenClient(service.ImageGenConfig{
		Endpoint:  cfg.ImageGenEndpoint,
		ProjectID: cfg.GCPProjectID,
		Location:  cfg.GCPLocation,
		Model:     cfg.ImageModel,
		Timeout:   cfg.ImageGenTimeout,
	}, aiClient, imageStore, logger)

	auth := service.NewAuthService(verifier, users, logger)
	generator := service.NewGeneratorService(limiter, textGen, imageGen, users, recipes, logger)

	handlers := router.Handlers{
		Auth:        api.NewAuthHandler(auth, logger),
		Recipe:      api.NewRecipeHandler(recipes, users, generator, logger),
		User:        api.NewUserHandler(users, recipes, logger),
		RequireAuth: middleware.RequireUser(auth.ResolveUser),
	}

	engine := router.New(cfg, handlers, logger)
	srv := server.New(cfg.Addr(), engine, logger)
	if err := srv.Run(); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}

func buildVerifier(ctx context.Context, cfg *config.Config) (service.TokenVerifier, error) {
	if cfg.FirebaseCredentialsFile != "" {
		app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
		if err != nil {
			return nil, err
		}
		client, err := app.Auth(ctx)
		if err != nil {
			return nil, err
		}
		return service.NewFirebaseVerifier(client), nil
	}
	return service.NewStaticVerifier(cfg.AuthDevSecret), nil
}

func buildLimiter(cfg *config.Config, logger *zap.Logger) ratelimit.Limiter {
	limitCfg := ratelimit.GenerationConfig()
	if cfg.RedisAddr == "" {
		logger.Info("using in-memory rate limiter")
		return ratelimit.NewMemoryLimiter(limitCfg)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return ratelimit.NewRedisLimiter(client, limitCfg)
}

// buildAIClient returns an HTTP client carrying Vertex AI credentials, or a
// plain client when both endpoints are overridden for local stubs.
func buildAIClient(ctx context.Context, cfg *config.Config) (*http.Client, error) {
	if cfg.TextGenEndpoint != "" && cfg.ImageGenEndpoint != "" {
		return &http.Client{}, nil
	}
	return google.DefaultClient(ctx, "https://www.googleapis.com/auth/cloud-platform")
}

func buildImageStore(ctx context.Context, cfg *config.Config) (service.ImageStore, error) {
	if cfg.ImageStorage == "s3" {
		s3cfg, err := config.NewS3Config(ctx, cfg.S3Bucket)
		if err != nil {
			return nil, err
		}
		return service.NewS3ImageStore(s3cfg), nil
	}
	return service.NewLocalImageStore(cfg.ImageDir)
}
