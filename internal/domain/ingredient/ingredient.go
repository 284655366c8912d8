// Package ingredient contains the core domain model for ingredients.
// Ingredients are provider-agnostic: every source is normalized to the same
// per-gram nutrition basis before it enters the rest of the system.
package ingredient

import (
	"fmt"
	"strings"
	"unicode"
)

// Source identifies where an ingredient record originated.
type Source string

const (
	SourceLocal       Source = "local"
	SourceNutritionDB Source = "nutrition-db"
	SourceProductDB   Source = "product-db"
)

// DefaultStoreSection is the sentinel used wherever an ingredient has no
// grocery-aisle classification.
const DefaultStoreSection = "Uncategorized"

// DefaultReferenceServingGrams is the serving basis most providers report
// nutrition for.
const DefaultReferenceServingGrams = 100.0

// Nutrition holds calorie and macro values on a per-gram basis.
// All values are non-negative.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// IsZero reports whether every nutrition value is zero. Remote results with
// all-zero nutrition carry no ranking signal and are filtered by the
// adapters; local catalog entries may legitimately be under-specified and
// are kept.
func (n Nutrition) IsZero() bool {
	return n.Calories == 0 && n.Protein == 0 && n.Carbs == 0 && n.Fat == 0
}

// Scale returns the nutrition for the given amount in grams.
func (n Nutrition) Scale(grams float64) Nutrition {
	return Nutrition{
		Calories: n.Calories * grams,
		Protein:  n.Protein * grams,
		Carbs:    n.Carbs * grams,
		Fat:      n.Fat * grams,
	}
}

// Add returns the element-wise sum of two nutrition tuples.
func (n Nutrition) Add(other Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + other.Calories,
		Protein:  n.Protein + other.Protein,
		Carbs:    n.Carbs + other.Carbs,
		Fat:      n.Fat + other.Fat,
	}
}

// Ingredient is the normalized, provider-agnostic ingredient record.
type Ingredient struct {
	// ID is opaque and unique within the source namespace.
	ID string
	// SourceID is the composite "<source>-<providerID>" key used for
	// cross-source dedup and storage lookup.
	SourceID string
	Source   Source
	Name     string
	// PerGram is always expressed per one gram of the ingredient,
	// regardless of the provider's native serving basis.
	PerGram Nutrition
	// ReferenceServingGrams is the serving size the provider natively
	// reported nutrition for.
	ReferenceServingGrams float64
	StoreSection          string
	Emoji                 string
	// Pricing is optional and provider-supplied; at most one field is
	// authoritative, the others are derived from it.
	PricePerGram float64
	PricePer100g float64
	TotalPrice   float64
}

// NewSourceID builds the composite cross-source key.
func NewSourceID(source Source, providerID string) string {
	return fmt.Sprintf("%s-%s", source, providerID)
}

// NormalizeSection maps blank store sections to the sentinel default.
func NormalizeSection(section string) string {
	section = strings.TrimSpace(section)
	if section == "" {
		return DefaultStoreSection
	}
	return section
}

// Validate checks the per-gram invariants.
func (i Ingredient) Validate() error {
	switch i.Source {
	case SourceLocal, SourceNutritionDB, SourceProductDB:
	default:
		return ErrUnknownSource
	}
	if strings.TrimSpace(i.Name) == "" {
		return ErrNameRequired
	}
	if i.PerGram.Calories < 0 || i.PerGram.Protein < 0 || i.PerGram.Carbs < 0 || i.PerGram.Fat < 0 {
		return ErrNegativeNutrition
	}
	return nil
}

// HasUsableName reports whether a provider result carries a real display
// name. Providers occasionally return bare identifiers or numeric strings
// in the name field; those are useless in a result list.
func HasUsableName(name string) bool {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return false
	}
	for _, r := range name {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
