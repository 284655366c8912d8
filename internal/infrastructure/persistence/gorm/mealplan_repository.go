package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plateful/v1/internal/domain/mealplan"
	"github.com/plateful/v1/internal/ports/outbound"
)

// MealPlanRepository implements the meal plan repository interface using
// GORM. Recurring occurrences are materialized by the application layer;
// this store only holds concrete entries, rules and tombstones.
type MealPlanRepository struct {
	db *gorm.DB
}

// NewMealPlanRepository creates a new meal plan repository.
func NewMealPlanRepository(db *gorm.DB) outbound.MealPlanRepository {
	return &MealPlanRepository{db: db}
}

// SaveEntry persists a concrete plan entry.
func (r *MealPlanRepository) SaveEntry(ctx context.Context, e *mealplan.Entry) error {
	return r.db.WithContext(ctx).Save(EntryToModel(e)).Error
}

// DeleteEntry removes a concrete plan entry by id.
func (r *MealPlanRepository) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&PlanEntryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return mealplan.ErrEntryNotFound
	}
	return nil
}

// FindEntry finds a concrete plan entry by id.
func (r *MealPlanRepository) FindEntry(ctx context.Context, id uuid.UUID) (*mealplan.Entry, error) {
	var model PlanEntryModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, mealplan.ErrEntryNotFound
		}
		return nil, result.Error
	}
	entry := ModelToEntry(&model)
	return &entry, nil
}

// FindEntriesInRange returns concrete entries whose date falls within the
// inclusive range. Lexicographic comparison works because dates are
// zero-padded ISO strings.
func (r *MealPlanRepository) FindEntriesInRange(ctx context.Context, week mealplan.WeekRange) ([]mealplan.Entry, error) {
	var models []PlanEntryModel
	result := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", week.Start, week.End).
		Order("date ASC, created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	out := make([]mealplan.Entry, len(models))
	for i := range models {
		out[i] = ModelToEntry(&models[i])
	}
	return out, nil
}

// SaveRule persists a recurring rule.
func (r *MealPlanRepository) SaveRule(ctx context.Context, rule *mealplan.RecurringRule) error {
	return r.db.WithContext(ctx).Save(RuleToModel(rule)).Error
}

// DeleteRule removes a recurring rule by id.
func (r *MealPlanRepository) DeleteRule(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&RecurringRuleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return mealplan.ErrRuleNotFound
	}
	return nil
}

// FindRules returns all recurring rules, expired ones included.
func (r *MealPlanRepository) FindRules(ctx context.Context) ([]mealplan.RecurringRule, error) {
	var models []RecurringRuleModel
	result := r.db.WithContext(ctx).Order("created_at ASC").Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	out := make([]mealplan.RecurringRule, len(models))
	for i := range models {
		out[i] = ModelToRule(&models[i])
	}
	return out, nil
}

// SaveTombstone records a deleted recurring occurrence. Saving the same
// occurrence twice is a no-op.
func (r *MealPlanRepository) SaveTombstone(ctx context.Context, t mealplan.Tombstone) error {
	model := &TombstoneModel{RuleID: t.RuleID, Date: t.Date, Slot: string(t.Slot)}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error
}

// FindTombstones returns all recorded tombstones.
func (r *MealPlanRepository) FindTombstones(ctx context.Context) ([]mealplan.Tombstone, error) {
	var models []TombstoneModel
	result := r.db.WithContext(ctx).Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	out := make([]mealplan.Tombstone, len(models))
	for i, m := range models {
		out[i] = mealplan.Tombstone{RuleID: m.RuleID, Date: m.Date, Slot: mealplan.Slot(m.Slot)}
	}
	return out, nil
}
