// Package testutils provides test data factories for consistent test data
// generation.
package testutils

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/plateful/v1/internal/domain/ingredient"
	"github.com/plateful/v1/internal/domain/mealplan"
	"github.com/plateful/v1/internal/domain/recipe"
)

// IngredientFactory provides methods to create test ingredients.
type IngredientFactory struct {
	faker *gofakeit.Faker
	seq   int
}

// NewIngredientFactory creates a new ingredient factory with seeded faker.
func NewIngredientFactory(seed int64) *IngredientFactory {
	return &IngredientFactory{faker: gofakeit.New(seed)}
}

// Local creates a local catalog ingredient with the given name.
func (f *IngredientFactory) Local(name string) ingredient.Ingredient {
	f.seq++
	return ingredient.Ingredient{
		SourceID: ingredient.NewSourceID(ingredient.SourceLocal, fmt.Sprintf("test-%d", f.seq)),
		Source:   ingredient.SourceLocal,
		Name:     name,
		PerGram: ingredient.Nutrition{
			Calories: f.faker.Float64Range(0.5, 5),
			Protein:  f.faker.Float64Range(0, 0.3),
			Carbs:    f.faker.Float64Range(0, 0.8),
			Fat:      f.faker.Float64Range(0, 0.4),
		},
		ReferenceServingGrams: ingredient.DefaultReferenceServingGrams,
		StoreSection:          f.faker.RandomString([]string{"Produce", "Dairy", "Baking"}),
	}
}

// Remote creates a remote ingredient from the given source.
func (f *IngredientFactory) Remote(source ingredient.Source, name string) ingredient.Ingredient {
	f.seq++
	return ingredient.Ingredient{
		SourceID: ingredient.NewSourceID(source, fmt.Sprintf("%d", 100000+f.seq)),
		Source:   source,
		Name:     name,
		PerGram: ingredient.Nutrition{
			Calories: f.faker.Float64Range(0.5, 5),
			Protein:  f.faker.Float64Range(0, 0.3),
			Carbs:    f.faker.Float64Range(0, 0.8),
			Fat:      f.faker.Float64Range(0, 0.4),
		},
		ReferenceServingGrams: ingredient.DefaultReferenceServingGrams,
		StoreSection:          ingredient.DefaultStoreSection,
	}
}

// RecipeFactory provides methods to create test recipes.
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a new recipe factory with seeded faker.
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{faker: gofakeit.New(seed)}
}

// Simple creates a recipe with one ingredient line of the given weight and
// per-gram nutrition.
func (f *RecipeFactory) Simple(name string, servingGrams, amountGrams float64, perGram ingredient.Nutrition) *recipe.Recipe {
	r, err := recipe.New(name, "Test", servingGrams)
	if err != nil {
		panic(err)
	}
	err = r.AddIngredient(recipe.RecipeIngredient{
		SourceID:    ingredient.NewSourceID(ingredient.SourceLocal, "test-line"),
		Name:        f.faker.Vegetable(),
		AmountGrams: amountGrams,
		PerGram:     perGram,
	})
	if err != nil {
		panic(err)
	}
	return r
}

// PlanEntry creates a concrete plan entry for the given date and slot.
func PlanEntry(date string, slot mealplan.Slot, kind mealplan.EntryKind, refID, name string, amount float64, perGram ingredient.Nutrition) mealplan.Entry {
	return mealplan.Entry{
		ID:          uuid.New(),
		Date:        date,
		Slot:        slot,
		Kind:        kind,
		RefID:       refID,
		Name:        name,
		AmountGrams: amount,
		PerGram:     perGram,
	}
}
