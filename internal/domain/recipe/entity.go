// Package recipe contains the core domain logic for user-authored recipes.
// Nutrition for each recipe ingredient is snapshotted at add time, so later
// edits to the upstream ingredient never retroactively change a recipe.
package recipe

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/plateful/v1/internal/domain/ingredient"
)

// RecipeIngredient is one line of a recipe with its nutrition snapshot.
type RecipeIngredient struct {
	SourceID     string
	Name         string
	AmountGrams  float64
	PerGram      ingredient.Nutrition
	StoreSection string
	Emoji        string
}

// Validate validates a recipe ingredient line.
func (ri RecipeIngredient) Validate() error {
	if strings.TrimSpace(ri.Name) == "" {
		return ErrIngredientNameRequired
	}
	if ri.AmountGrams < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Recipe represents a user-authored recipe.
type Recipe struct {
	ID               uuid.UUID
	Name             string
	Category         string
	ServingSizeGrams float64
	Steps            string
	Ingredients      []RecipeIngredient
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// New creates a recipe with validation.
func New(name, category string, servingSizeGrams float64) (*Recipe, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if servingSizeGrams <= 0 {
		return nil, ErrInvalidServingSize
	}

	now := time.Now()
	return &Recipe{
		ID:               uuid.New(),
		Name:             strings.TrimSpace(name),
		Category:         strings.TrimSpace(category),
		ServingSizeGrams: servingSizeGrams,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// AddIngredient appends an ingredient line after validation.
func (r *Recipe) AddIngredient(ri RecipeIngredient) error {
	if err := ri.Validate(); err != nil {
		return err
	}
	ri.StoreSection = ingredient.NormalizeSection(ri.StoreSection)
	r.Ingredients = append(r.Ingredients, ri)
	r.UpdatedAt = time.Now()
	return nil
}

// TotalWeightGrams is the summed weight of all ingredient lines.
func (r *Recipe) TotalWeightGrams() float64 {
	var total float64
	for _, ri := range r.Ingredients {
		total += ri.AmountGrams
	}
	return total
}

// TotalNutrition is the unscaled nutrition of the whole recipe.
func (r *Recipe) TotalNutrition() ingredient.Nutrition {
	var total ingredient.Nutrition
	for _, ri := range r.Ingredients {
		total = total.Add(ri.PerGram.Scale(ri.AmountGrams))
	}
	return total
}

// PerServing derives the nutrition of one serving, rounded to display
// units: whole calories, one-decimal grams for the macros. A recipe with no
// weight yields all-zero nutrition rather than NaN.
func (r *Recipe) PerServing() ingredient.Nutrition {
	totalWeight := r.TotalWeightGrams()
	if totalWeight <= 0 || r.ServingSizeGrams <= 0 {
		return ingredient.Nutrition{}
	}

	total := r.TotalNutrition()
	ratio := r.ServingSizeGrams / totalWeight
	return ingredient.Nutrition{
		Calories: math.Round(total.Calories * ratio),
		Protein:  roundTenth(total.Protein * ratio),
		Carbs:    roundTenth(total.Carbs * ratio),
		Fat:      roundTenth(total.Fat * ratio),
	}
}

// ValidateForSave enforces the completeness rules a recipe must meet before
// it can be persisted from a form submission.
func (r *Recipe) ValidateForSave() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}
	if r.ServingSizeGrams <= 0 {
		return ErrInvalidServingSize
	}
	if len(r.Ingredients) == 0 {
		return ErrNoIngredients
	}
	return nil
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
