// Package inbound defines the interfaces for inbound ports (primary,
// driving adapters). These are the use cases the application exposes to
// HTTP handlers and other driving adapters.
package inbound

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/plateful/v1/internal/domain/ingredient"
	"github.com/plateful/v1/internal/domain/mealplan"
	"github.com/plateful/v1/internal/domain/shopping"
)

// Recoverable conditions surfaced to callers as information, not failures.
var (
	// ErrSearchSuperseded means a newer search was issued while this one
	// was in flight; its results must be discarded (last-write-wins).
	ErrSearchSuperseded = errors.New("search superseded by a newer query")
	// ErrEmptyWeek means no plan entries fell within the requested range.
	ErrEmptyWeek = errors.New("no ingredients planned in the selected week")
)

// SearchService is the unified ingredient search across the local catalog
// and both remote nutrition sources.
type SearchService interface {
	// SearchAll merges local and remote results into one ordered list:
	// local matches first, then at most one product-database result, then
	// at most one nutrition-database result.
	SearchAll(ctx context.Context, query string) ([]ingredient.Ingredient, error)
}

// RecipeService defines the use cases for recipe management.
type RecipeService interface {
	CreateRecipe(ctx context.Context, cmd CreateRecipeCommand) (*RecipeDTO, error)
	UpdateRecipe(ctx context.Context, cmd UpdateRecipeCommand) (*RecipeDTO, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID, confirmed bool) error
	GetRecipe(ctx context.Context, id uuid.UUID) (*RecipeDTO, error)
	ListRecipes(ctx context.Context) ([]RecipeDTO, error)
}

// CatalogService manages the user's local ingredient catalog.
type CatalogService interface {
	SaveIngredient(ctx context.Context, cmd SaveCatalogIngredientCommand) (*ingredient.Ingredient, error)
	DeleteIngredient(ctx context.Context, sourceID string, confirmed bool) error
	ListCatalog(ctx context.Context) ([]ingredient.Ingredient, error)
	// ImportCSV ingests a catalog export. Lines starting with '#' are
	// comments; rows without a name are skipped; duplicates against the
	// existing catalog (case-insensitive) are skipped and counted.
	ImportCSV(ctx context.Context, r io.Reader) (*ImportSummary, error)
}

// MealPlanService manages concrete entries, recurring rules and week views.
type MealPlanService interface {
	AddEntry(ctx context.Context, cmd AddPlanEntryCommand) (*mealplan.Entry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID, confirmed bool) error
	WeekView(ctx context.Context, week mealplan.WeekRange) (*WeekView, error)

	AddRecurringRule(ctx context.Context, cmd AddRecurringRuleCommand) (*mealplan.RecurringRule, error)
	DeleteRecurringRule(ctx context.Context, id uuid.UUID, confirmed bool) error
	// DeleteOccurrence tombstones a single materialized occurrence of a
	// recurring rule without touching its siblings.
	DeleteOccurrence(ctx context.Context, ruleID uuid.UUID, date string, slot mealplan.Slot) error

	DailyNutrition(ctx context.Context, date string) (*DailySummary, error)
}

// ShoppingService builds and manages shopping lists.
type ShoppingService interface {
	// BuildWeekList aggregates the week's planned meals into grouped,
	// merged shopping items. Returns ErrEmptyWeek when nothing matched.
	BuildWeekList(ctx context.Context, week mealplan.WeekRange) ([]shopping.Item, error)

	CreateList(ctx context.Context, cmd CreateListCommand) (*shopping.List, error)
	DeleteList(ctx context.Context, id uuid.UUID, confirmed bool) error
	GetList(ctx context.Context, id uuid.UUID) (*shopping.List, error)
	ListLists(ctx context.Context) ([]*shopping.List, error)
	// MergeIntoList merges built items into an existing persisted list,
	// matching on (name, unit, store section).
	MergeIntoList(ctx context.Context, listID uuid.UUID, items []shopping.Item) (*shopping.List, error)
	RemoveItem(ctx context.Context, listID, itemID uuid.UUID, confirmed bool) error
}

// Command objects

// SaveCatalogIngredientCommand upserts a local catalog ingredient.
type SaveCatalogIngredientCommand struct {
	ProviderID   string  `validate:"required"`
	Name         string  `validate:"required"`
	Calories     float64 `validate:"gte=0"`
	Protein      float64 `validate:"gte=0"`
	Carbs        float64 `validate:"gte=0"`
	Fat          float64 `validate:"gte=0"`
	ServingGrams float64 `validate:"gte=0"`
	StoreSection string
	Emoji        string
	PricePer100g float64 `validate:"gte=0"`
}

// CreateRecipeCommand contains data for creating a new recipe.
type CreateRecipeCommand struct {
	Name             string `validate:"required"`
	Category         string
	ServingSizeGrams float64 `validate:"gt=0"`
	Steps            string
	Ingredients      []RecipeIngredientCommand `validate:"min=1,dive"`
}

// UpdateRecipeCommand contains data for updating a recipe.
type UpdateRecipeCommand struct {
	RecipeID         uuid.UUID `validate:"required"`
	Name             string    `validate:"required"`
	Category         string
	ServingSizeGrams float64 `validate:"gt=0"`
	Steps            string
	Ingredients      []RecipeIngredientCommand `validate:"min=1,dive"`
}

// RecipeIngredientCommand is one ingredient line of a recipe form. The
// nutrition values become the line's permanent snapshot.
type RecipeIngredientCommand struct {
	SourceID     string  `validate:"required"`
	Name         string  `validate:"required"`
	AmountGrams  float64 `validate:"gte=0"`
	Calories     float64 `validate:"gte=0"`
	Protein      float64 `validate:"gte=0"`
	Carbs        float64 `validate:"gte=0"`
	Fat          float64 `validate:"gte=0"`
	StoreSection string
	Emoji        string
}

// AddPlanEntryCommand plans a recipe or ingredient into a meal slot.
type AddPlanEntryCommand struct {
	Date        string             `validate:"required,datetime=2006-01-02"`
	Slot        mealplan.Slot      `validate:"required"`
	Kind        mealplan.EntryKind `validate:"required,oneof=recipe ingredient"`
	RefID       string             `validate:"required"`
	AmountGrams float64            `validate:"gt=0"`
}

// AddRecurringRuleCommand creates a recurring plan rule.
type AddRecurringRuleCommand struct {
	Kind        mealplan.EntryKind `validate:"required,oneof=recipe ingredient"`
	RefID       string             `validate:"required"`
	AmountGrams float64            `validate:"gt=0"`
	Slot        mealplan.Slot      `validate:"required"`
	Weekdays    []time.Weekday     `validate:"min=1"`
	EndDate     string             `validate:"omitempty,datetime=2006-01-02"`
}

// CreateListCommand creates a shopping list.
type CreateListCommand struct {
	Name        string `validate:"required"`
	Description string
	// Items to seed the list with, typically from BuildWeekList.
	Items []shopping.Item
}

// Response DTOs

// RecipeDTO is the data transfer object for recipes.
type RecipeDTO struct {
	ID               uuid.UUID             `json:"id"`
	Name             string                `json:"name"`
	Category         string                `json:"category"`
	ServingSizeGrams float64               `json:"serving_size_grams"`
	Steps            string                `json:"steps"`
	Ingredients      []RecipeIngredientDTO `json:"ingredients"`
	TotalWeightGrams float64               `json:"total_weight_grams"`
	PerServing       ingredient.Nutrition  `json:"per_serving"`
	CreatedAt        string                `json:"created_at"`
	UpdatedAt        string                `json:"updated_at"`
}

// RecipeIngredientDTO is one recipe line with its nutrition snapshot.
type RecipeIngredientDTO struct {
	SourceID     string               `json:"source_id"`
	Name         string               `json:"name"`
	AmountGrams  float64              `json:"amount_grams"`
	PerGram      ingredient.Nutrition `json:"per_gram"`
	StoreSection string               `json:"store_section"`
	Emoji        string               `json:"emoji,omitempty"`
}

// WeekView is the displayed week: concrete entries plus the occurrences
// materialized from recurring rules.
type WeekView struct {
	Week    mealplan.WeekRange `json:"week"`
	Entries []mealplan.Entry   `json:"entries"`
}

// DailySummary compares a day's planned nutrition against the goals.
type DailySummary struct {
	Date    string               `json:"date"`
	Totals  ingredient.Nutrition `json:"totals"`
	Goals   ingredient.Nutrition `json:"goals"`
	Entries int                  `json:"entries"`
}

// ImportSummary reports the outcome of a CSV catalog import.
type ImportSummary struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
}
