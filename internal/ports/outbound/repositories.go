// Package outbound defines the interfaces for outbound ports (secondary,
// driven adapters). These are the interfaces the application uses to reach
// storage and external nutrition providers.
package outbound

import (
	"context"

	"github.com/google/uuid"

	"github.com/plateful/v1/internal/domain/ingredient"
	"github.com/plateful/v1/internal/domain/mealplan"
	"github.com/plateful/v1/internal/domain/recipe"
	"github.com/plateful/v1/internal/domain/shopping"
)

// CatalogRepository persists the user's local ingredient catalog.
// List returns entries in insertion order; search relevance ties are broken
// by that order.
type CatalogRepository interface {
	Save(ctx context.Context, ing *ingredient.Ingredient) error
	Delete(ctx context.Context, sourceID string) error
	FindBySourceID(ctx context.Context, sourceID string) (*ingredient.Ingredient, error)
	// FindByName matches case-insensitively on the display name.
	FindByName(ctx context.Context, name string) (*ingredient.Ingredient, error)
	List(ctx context.Context) ([]ingredient.Ingredient, error)
}

// RecipeRepository persists user-authored recipes.
type RecipeRepository interface {
	Create(ctx context.Context, r *recipe.Recipe) error
	Update(ctx context.Context, r *recipe.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	FindAll(ctx context.Context) ([]*recipe.Recipe, error)
}

// MealPlanRepository persists concrete plan entries, recurring rules and
// deletion tombstones. A corrupt persisted plan degrades to an empty plan.
type MealPlanRepository interface {
	SaveEntry(ctx context.Context, e *mealplan.Entry) error
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	FindEntry(ctx context.Context, id uuid.UUID) (*mealplan.Entry, error)
	FindEntriesInRange(ctx context.Context, week mealplan.WeekRange) ([]mealplan.Entry, error)

	SaveRule(ctx context.Context, r *mealplan.RecurringRule) error
	DeleteRule(ctx context.Context, id uuid.UUID) error
	FindRules(ctx context.Context) ([]mealplan.RecurringRule, error)

	SaveTombstone(ctx context.Context, t mealplan.Tombstone) error
	FindTombstones(ctx context.Context) ([]mealplan.Tombstone, error)
}

// ShoppingListRepository persists shopping lists.
type ShoppingListRepository interface {
	Create(ctx context.Context, l *shopping.List) error
	Update(ctx context.Context, l *shopping.List) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*shopping.List, error)
	FindAll(ctx context.Context) ([]*shopping.List, error)
}

// Settings holds the app-level user settings.
type Settings struct {
	DailyGoals         ingredient.Nutrition
	DefaultStoreNumber int
}

// SettingsRepository persists app settings. A missing row yields defaults.
type SettingsRepository interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}
