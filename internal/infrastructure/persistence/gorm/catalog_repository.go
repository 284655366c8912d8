package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plateful/v1/internal/domain/ingredient"
	"github.com/plateful/v1/internal/ports/outbound"
)

// CatalogRepository implements the catalog repository interface using GORM.
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *gorm.DB) outbound.CatalogRepository {
	return &CatalogRepository{db: db}
}

// Save upserts an ingredient by its source id.
func (r *CatalogRepository) Save(ctx context.Context, ing *ingredient.Ingredient) error {
	model := IngredientToModel(ing)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "calories", "protein", "carbs", "fat",
			"reference_serving_grams", "store_section", "emoji",
			"price_per_gram", "price_per100g", "total_price", "updated_at",
		}),
	}).Create(model)
	return result.Error
}

// Delete removes an ingredient by source id.
func (r *CatalogRepository) Delete(ctx context.Context, sourceID string) error {
	result := r.db.WithContext(ctx).Delete(&IngredientModel{}, "source_id = ?", sourceID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ingredient.ErrNotFound
	}
	return nil
}

// FindBySourceID finds an ingredient by its composite source id.
func (r *CatalogRepository) FindBySourceID(ctx context.Context, sourceID string) (*ingredient.Ingredient, error) {
	var model IngredientModel
	result := r.db.WithContext(ctx).First(&model, "source_id = ?", sourceID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ingredient.ErrNotFound
		}
		return nil, result.Error
	}
	return ModelToIngredient(&model), nil
}

// FindByName finds an ingredient by display name, case-insensitively.
func (r *CatalogRepository) FindByName(ctx context.Context, name string) (*ingredient.Ingredient, error) {
	var model IngredientModel
	result := r.db.WithContext(ctx).First(&model, "LOWER(name) = LOWER(?)", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ingredient.ErrNotFound
		}
		return nil, result.Error
	}
	return ModelToIngredient(&model), nil
}

// List returns all catalog ingredients in insertion order.
func (r *CatalogRepository) List(ctx context.Context) ([]ingredient.Ingredient, error) {
	var models []IngredientModel
	result := r.db.WithContext(ctx).Order("id ASC").Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	out := make([]ingredient.Ingredient, len(models))
	for i := range models {
		out[i] = *ModelToIngredient(&models[i])
	}
	return out, nil
}
