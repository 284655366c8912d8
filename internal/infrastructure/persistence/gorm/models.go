// Package gorm provides GORM model definitions and repository
// implementations for the application.
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IngredientModel represents the GORM model for local catalog ingredients.
// The integer primary key doubles as insertion order; search relevance
// ties are broken by it.
type IngredientModel struct {
	ID                    uint    `gorm:"primaryKey;autoIncrement"`
	SourceID              string  `gorm:"type:varchar(255);uniqueIndex;not null"`
	Source                string  `gorm:"type:varchar(20);not null"`
	Name                  string  `gorm:"type:varchar(255);not null;index"`
	Calories              float64 // per gram
	Protein               float64 // per gram
	Carbs                 float64 // per gram
	Fat                   float64 // per gram
	ReferenceServingGrams float64
	StoreSection          string `gorm:"type:varchar(100)"`
	Emoji                 string `gorm:"type:varchar(16)"`
	PricePerGram          float64
	PricePer100g          float64
	TotalPrice            float64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName overrides the table name
func (IngredientModel) TableName() string {
	return "catalog_ingredients"
}

// RecipeModel represents the GORM model for recipes. Ingredient lines are
// stored as a JSON document because they are only ever read and written as
// part of their recipe.
type RecipeModel struct {
	ID               uuid.UUID       `gorm:"type:char(36);primaryKey"`
	Name             string          `gorm:"type:varchar(255);not null;index"`
	Category         string          `gorm:"type:varchar(100);index"`
	ServingSizeGrams float64         `gorm:"not null"`
	Steps            string          `gorm:"type:text"`
	Ingredients      RecipeLinesJSON `gorm:"type:json"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName overrides the table name
func (RecipeModel) TableName() string {
	return "recipes"
}

// PlanEntryModel represents the GORM model for concrete meal plan entries.
// Recurring occurrences are derived at read time and never persisted here.
type PlanEntryModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Date         string    `gorm:"type:char(10);not null;index"`
	Slot         string    `gorm:"type:varchar(20);not null"`
	Kind         string    `gorm:"type:varchar(20);not null"`
	RefID        string    `gorm:"type:varchar(255);not null"`
	Name         string    `gorm:"type:varchar(255);not null"`
	AmountGrams  float64
	Calories     float64 // per gram snapshot
	Protein      float64
	Carbs        float64
	Fat          float64
	StoreSection string `gorm:"type:varchar(100)"`
	CreatedAt    time.Time
}

// TableName overrides the table name
func (PlanEntryModel) TableName() string {
	return "plan_entries"
}

// RecurringRuleModel represents the GORM model for recurring plan rules.
type RecurringRuleModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Kind         string    `gorm:"type:varchar(20);not null"`
	RefID        string    `gorm:"type:varchar(255);not null"`
	Name         string    `gorm:"type:varchar(255);not null"`
	AmountGrams  float64
	Calories     float64 // per gram snapshot
	Protein      float64
	Carbs        float64
	Fat          float64
	StoreSection string   `gorm:"type:varchar(100)"`
	Slot         string   `gorm:"type:varchar(20);not null"`
	Weekdays     IntsJSON `gorm:"type:json"`
	EndDate      string   `gorm:"type:char(10)"`
	CreatedAt    time.Time
}

// TableName overrides the table name
func (RecurringRuleModel) TableName() string {
	return "recurring_rules"
}

// TombstoneModel marks a deleted occurrence of a recurring rule.
type TombstoneModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	RuleID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_tombstone_occurrence"`
	Date      string    `gorm:"type:char(10);not null;uniqueIndex:idx_tombstone_occurrence"`
	Slot      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_tombstone_occurrence"`
	CreatedAt time.Time
}

// TableName overrides the table name
func (TombstoneModel) TableName() string {
	return "plan_tombstones"
}

// ShoppingListModel represents the GORM model for shopping lists.
type ShoppingListModel struct {
	ID           uuid.UUID   `gorm:"type:char(36);primaryKey"`
	Name         string      `gorm:"type:varchar(255);not null"`
	Description  string      `gorm:"type:text"`
	Items        ItemsJSON   `gorm:"type:json"`
	SectionOrder StringsJSON `gorm:"type:json"`
	CreatedAt    time.Time
}

// TableName overrides the table name
func (ShoppingListModel) TableName() string {
	return "shopping_lists"
}

// SettingsModel is a single-row table of app settings.
type SettingsModel struct {
	ID                 uint `gorm:"primaryKey"`
	GoalCalories       float64
	GoalProtein        float64
	GoalCarbs          float64
	GoalFat            float64
	DefaultStoreNumber int
	UpdatedAt          time.Time
}

// TableName overrides the table name
func (SettingsModel) TableName() string {
	return "settings"
}

// RecipeLineRecord is the persisted shape of one recipe ingredient line.
type RecipeLineRecord struct {
	SourceID     string  `json:"source_id"`
	Name         string  `json:"name"`
	AmountGrams  float64 `json:"amount_grams"`
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fat          float64 `json:"fat"`
	StoreSection string  `json:"store_section"`
	Emoji        string  `json:"emoji,omitempty"`
}

// ItemRecord is the persisted shape of one shopping list item.
type ItemRecord struct {
	ID              uuid.UUID `json:"id"`
	IngredientRefID string    `json:"ingredient_ref_id,omitempty"`
	Name            string    `json:"name"`
	StoreSection    string    `json:"store_section"`
	Quantity        float64   `json:"quantity"`
	Unit            string    `json:"unit"`
	PackageSize     float64   `json:"package_size,omitempty"`
	PackagePrice    float64   `json:"package_price,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	AddedAt         time.Time `json:"added_at"`
}

// RecipeLinesJSON stores recipe ingredient lines as a JSON column.
type RecipeLinesJSON []RecipeLineRecord

// Scan implements the sql.Scanner interface
func (j *RecipeLinesJSON) Scan(value interface{}) error {
	return scanJSON(value, j)
}

// Value implements the driver.Valuer interface
func (j RecipeLinesJSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// ItemsJSON stores shopping list items as a JSON column.
type ItemsJSON []ItemRecord

// Scan implements the sql.Scanner interface
func (j *ItemsJSON) Scan(value interface{}) error {
	return scanJSON(value, j)
}

// Value implements the driver.Valuer interface
func (j ItemsJSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// IntsJSON stores an int slice as a JSON column.
type IntsJSON []int

// Scan implements the sql.Scanner interface
func (j *IntsJSON) Scan(value interface{}) error {
	return scanJSON(value, j)
}

// Value implements the driver.Valuer interface
func (j IntsJSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// StringsJSON stores a string slice as a JSON column.
type StringsJSON []string

// Scan implements the sql.Scanner interface
func (j *StringsJSON) Scan(value interface{}) error {
	return scanJSON(value, j)
}

// Value implements the driver.Valuer interface
func (j StringsJSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into JSON column", value)
	}
}
