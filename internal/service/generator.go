package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/dishcraft/backend/internal/apperr"
	"github.com/dishcraft/backend/internal/model"
	"github.com/dishcraft/backend/internal/ratelimit"
)

// GeneratorService runs the recipe generation pipeline: rate-limit check,
// text generation, parse, image generation, persistence. A failure at any
// stage surfaces immediately; nothing is retried, because every external
// call is billed.
type GeneratorService struct {
	limiter  ratelimit.Limiter
	textGen  TextGenerator
	imageGen ImageGenerator
	users    UserStore
	recipes  RecipeStore
	logger   *zap.Logger
}

// NewGeneratorService wires the generation pipeline. The limiter is
// injected rather than owned so deployments can choose the backing store.
func NewGeneratorService(
	limiter ratelimit.Limiter,
	textGen TextGenerator,
	imageGen ImageGenerator,
	users UserStore,
	recipes RecipeStore,
	logger *zap.Logger,
) *GeneratorService {
	return &GeneratorService{
		limiter:  limiter,
		textGen:  textGen,
		imageGen: imageGen,
		users:    users,
		recipes:  recipes,
		logger:   logger.Named("generator"),
	}
}

// Generate produces and persists one recipe for user. limitKey identifies
// the caller for admission control (authorization credential or client IP).
//
// Ordering is fixed: the recipe insert must complete before the saved-list
// update, which depends on the generated id. If the saved-list update fails
// the recipe still exists; that window is logged, not hidden.
func (s *GeneratorService) Generate(ctx context.Context, user *model.User, limitKey, ingredients, dietaryPreferences string) (*model.Recipe, error) {
	res, err := s.limiter.Allow(ctx, limitKey)
	if err != nil {
		// Fail open on limiter backend errors so a degraded Redis does
		// not take the endpoint down with it.
		s.logger.Warn("rate limit check failed", zap.Error(err))
	} else if !res.Allowed {
		s.logger.Info("generation request rate limited",
			zap.String("key", limitKey),
			zap.Time("reset", res.Reset))
		return nil, apperr.New(apperr.RateLimited, "Too many requests, please try again later.")
	}

	raw, err := s.textGen.GenerateRecipeText(ctx, ingredients, dietaryPreferences)
	if err != nil {
		return nil, err
	}

	parsed := ParseRecipeText(raw)
	if parsed.Defaulted {
		s.logger.Warn("model output was unparsable, using placeholder recipe",
			zap.Int("raw_len", len(raw)))
	}
	recipe := parsed.Recipe

	images, err := s.imageGen.GenerateRecipeImages(ctx, recipe.Title)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		// The generated text is discarded: a recipe is never persisted
		// without at least one image reference.
		return nil, apperr.New(apperr.GenerationService, "Image generation failed.")
	}
	recipe.Image = images

	recipe.Creator = &user.ID
	recipe.ApplyDefaults()

	if err := s.recipes.Insert(ctx, &recipe); err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "failed to save recipe", err)
	}

	if err := s.users.SaveRecipe(ctx, user.ID, recipe.ID); err != nil {
		s.logger.Error("recipe saved but user's saved list was not updated",
			zap.String("recipe_id", recipe.ID.Hex()),
			zap.String("user_id", user.ID.Hex()),
			zap.Error(err))
	}

	return &recipe, nil
}
