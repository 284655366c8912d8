package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/plateful/v1/internal/domain/ingredient"
	"github.com/plateful/v1/internal/ports/outbound"
)

// settingsRowID pins settings to a single row.
const settingsRowID = 1

// SettingsRepository implements the settings repository interface using
// GORM. Settings live in a single row; a missing row yields defaults.
type SettingsRepository struct {
	db       *gorm.DB
	defaults outbound.Settings
}

// NewSettingsRepository creates a new settings repository with the given
// defaults for a fresh database.
func NewSettingsRepository(db *gorm.DB, defaults outbound.Settings) outbound.SettingsRepository {
	return &SettingsRepository{db: db, defaults: defaults}
}

// Load reads the settings row, falling back to defaults when absent.
func (r *SettingsRepository) Load(ctx context.Context) (outbound.Settings, error) {
	var model SettingsModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", settingsRowID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return r.defaults, nil
		}
		return outbound.Settings{}, result.Error
	}
	return outbound.Settings{
		DailyGoals: ingredient.Nutrition{
			Calories: model.GoalCalories,
			Protein:  model.GoalProtein,
			Carbs:    model.GoalCarbs,
			Fat:      model.GoalFat,
		},
		DefaultStoreNumber: model.DefaultStoreNumber,
	}, nil
}

// Save writes the settings row.
func (r *SettingsRepository) Save(ctx context.Context, s outbound.Settings) error {
	model := SettingsModel{
		ID:                 settingsRowID,
		GoalCalories:       s.DailyGoals.Calories,
		GoalProtein:        s.DailyGoals.Protein,
		GoalCarbs:          s.DailyGoals.Carbs,
		GoalFat:            s.DailyGoals.Fat,
		DefaultStoreNumber: s.DefaultStoreNumber,
	}
	return r.db.WithContext(ctx).Save(&model).Error
}
