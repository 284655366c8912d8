// Package recipe provides the application layer for recipe management.
// This implements the use cases defined in the inbound ports.
package recipe

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plateful/v1/internal/domain/ingredient"
	"github.com/plateful/v1/internal/domain/recipe"
	"github.com/plateful/v1/internal/ports/inbound"
	"github.com/plateful/v1/internal/ports/outbound"
	apperrors "github.com/plateful/v1/pkg/errors"
)

// RecipeService implements the recipe use cases.
type RecipeService struct {
	repo     outbound.RecipeRepository
	logger   *zap.Logger
	validate *validator.Validate
}

// NewRecipeService creates a recipe service.
func NewRecipeService(repo outbound.RecipeRepository, logger *zap.Logger) inbound.RecipeService {
	return &RecipeService{
		repo:     repo,
		logger:   logger.Named("recipe-service"),
		validate: validator.New(),
	}
}

// CreateRecipe creates a new recipe from a form submission. Each
// ingredient line's nutrition becomes a permanent snapshot.
func (s *RecipeService) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	entity, err := recipe.New(cmd.Name, cmd.Category, cmd.ServingSizeGrams)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	entity.Steps = cmd.Steps

	for _, line := range cmd.Ingredients {
		if err := entity.AddIngredient(toIngredientLine(line)); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	if err := entity.ValidateForSave(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, apperrors.NewDatabaseError("create recipe", err)
	}

	s.logger.Info("recipe created",
		zap.String("recipe_id", entity.ID.String()),
		zap.String("name", entity.Name))
	return entityToDTO(entity), nil
}

// UpdateRecipe replaces a recipe's fields and ingredient lines.
func (s *RecipeService) UpdateRecipe(ctx context.Context, cmd inbound.UpdateRecipeCommand) (*inbound.RecipeDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	entity, err := s.findRecipe(ctx, cmd.RecipeID)
	if err != nil {
		return nil, err
	}

	entity.Name = cmd.Name
	entity.Category = cmd.Category
	entity.ServingSizeGrams = cmd.ServingSizeGrams
	entity.Steps = cmd.Steps
	entity.Ingredients = nil
	for _, line := range cmd.Ingredients {
		if err := entity.AddIngredient(toIngredientLine(line)); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	if err := entity.ValidateForSave(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	entity.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, entity); err != nil {
		return nil, apperrors.NewDatabaseError("update recipe", err)
	}
	return entityToDTO(entity), nil
}

// DeleteRecipe deletes a recipe after the user confirmed. Plan entries
// referencing the recipe are untouched; they keep their snapshots.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return apperrors.NewConfirmationRequiredError("delete recipe")
	}
	if _, err := s.findRecipe(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.NewDatabaseError("delete recipe", err)
	}
	s.logger.Info("recipe deleted", zap.String("recipe_id", id.String()))
	return nil
}

// GetRecipe returns one recipe by id.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*inbound.RecipeDTO, error) {
	entity, err := s.findRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	return entityToDTO(entity), nil
}

// ListRecipes returns all recipes.
func (s *RecipeService) ListRecipes(ctx context.Context) ([]inbound.RecipeDTO, error) {
	entities, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list recipes", err)
	}
	out := make([]inbound.RecipeDTO, len(entities))
	for i, e := range entities {
		out[i] = *entityToDTO(e)
	}
	return out, nil
}

func (s *RecipeService) findRecipe(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			return nil, apperrors.NewRecipeNotFoundError(id.String())
		}
		return nil, apperrors.NewDatabaseError("find recipe", err)
	}
	return entity, nil
}

func toIngredientLine(cmd inbound.RecipeIngredientCommand) recipe.RecipeIngredient {
	return recipe.RecipeIngredient{
		SourceID:    cmd.SourceID,
		Name:        cmd.Name,
		AmountGrams: cmd.AmountGrams,
		PerGram: ingredient.Nutrition{
			Calories: cmd.Calories,
			Protein:  cmd.Protein,
			Carbs:    cmd.Carbs,
			Fat:      cmd.Fat,
		},
		StoreSection: cmd.StoreSection,
		Emoji:        cmd.Emoji,
	}
}

func entityToDTO(e *recipe.Recipe) *inbound.RecipeDTO {
	lines := make([]inbound.RecipeIngredientDTO, len(e.Ingredients))
	for i, ri := range e.Ingredients {
		lines[i] = inbound.RecipeIngredientDTO{
			SourceID:     ri.SourceID,
			Name:         ri.Name,
			AmountGrams:  ri.AmountGrams,
			PerGram:      ri.PerGram,
			StoreSection: ri.StoreSection,
			Emoji:        ri.Emoji,
		}
	}
	return &inbound.RecipeDTO{
		ID:               e.ID,
		Name:             e.Name,
		Category:         e.Category,
		ServingSizeGrams: e.ServingSizeGrams,
		Steps:            e.Steps,
		Ingredients:      lines,
		TotalWeightGrams: e.TotalWeightGrams(),
		PerServing:       e.PerServing(),
		CreatedAt:        e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        e.UpdatedAt.Format(time.RFC3339),
	}
}
