package gorm_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	gormlogger "gorm.io/gorm/logger"

	"github.com/plateful/v1/internal/domain/ingredient"
	"github.com/plateful/v1/internal/domain/mealplan"
	"github.com/plateful/v1/internal/domain/recipe"
	"github.com/plateful/v1/internal/domain/shopping"
	gormrepo "github.com/plateful/v1/internal/infrastructure/persistence/gorm"
	"github.com/plateful/v1/internal/infrastructure/persistence/sqlite"
	"github.com/plateful/v1/internal/ports/outbound"
	"github.com/plateful/v1/test/testutils"
)

type RepositoryTestSuite struct {
	suite.Suite
	ctx      context.Context
	catalog  outbound.CatalogRepository
	recipes  outbound.RecipeRepository
	plan     outbound.MealPlanRepository
	lists    outbound.ShoppingListRepository
	settings outbound.SettingsRepository
}

func (s *RepositoryTestSuite) SetupTest() {
	db, err := sqlite.SetupDatabase("", gormlogger.Silent)
	s.Require().NoError(err)

	s.ctx = context.Background()
	s.catalog = gormrepo.NewCatalogRepository(db)
	s.recipes = gormrepo.NewRecipeRepository(db)
	s.plan = gormrepo.NewMealPlanRepository(db)
	s.lists = gormrepo.NewShoppingListRepository(db)
	s.settings = gormrepo.NewSettingsRepository(db, outbound.Settings{
		DailyGoals: ingredient.Nutrition{Calories: 2000, Protein: 100, Carbs: 250, Fat: 70},
	})
}

func (s *RepositoryTestSuite) TestCatalogUpsertBySourceID() {
	butter := &ingredient.Ingredient{
		SourceID:              "local-butter",
		Source:                ingredient.SourceLocal,
		Name:                  "Butter",
		PerGram:               ingredient.Nutrition{Calories: 7.17, Fat: 0.81},
		ReferenceServingGrams: 100,
		StoreSection:          "Dairy",
	}
	s.Require().NoError(s.catalog.Save(s.ctx, butter))

	butter.PerGram.Calories = 7.2
	s.Require().NoError(s.catalog.Save(s.ctx, butter))

	entries, err := s.catalog.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.InDelta(7.2, entries[0].PerGram.Calories, 1e-9)
}

func (s *RepositoryTestSuite) TestCatalogListKeepsInsertionOrder() {
	factory := testutils.NewIngredientFactory(7)
	for _, name := range []string{"Oats", "Butter", "Apple"} {
		entry := factory.Local(name)
		s.Require().NoError(s.catalog.Save(s.ctx, &entry))
	}

	entries, err := s.catalog.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal("Oats", entries[0].Name)
	s.Equal("Butter", entries[1].Name)
	s.Equal("Apple", entries[2].Name)
}

func (s *RepositoryTestSuite) TestCatalogFindByNameIsCaseInsensitive() {
	s.Require().NoError(s.catalog.Save(s.ctx, &ingredient.Ingredient{
		SourceID: "local-butter", Source: ingredient.SourceLocal, Name: "Butter",
	}))

	found, err := s.catalog.FindByName(s.ctx, "bUtTeR")
	s.Require().NoError(err)
	s.Equal("Butter", found.Name)

	_, err = s.catalog.FindByName(s.ctx, "margarine")
	s.ErrorIs(err, ingredient.ErrNotFound)
}

func (s *RepositoryTestSuite) TestCatalogDelete() {
	s.Require().NoError(s.catalog.Save(s.ctx, &ingredient.Ingredient{
		SourceID: "local-butter", Source: ingredient.SourceLocal, Name: "Butter",
	}))
	s.Require().NoError(s.catalog.Delete(s.ctx, "local-butter"))

	_, err := s.catalog.FindBySourceID(s.ctx, "local-butter")
	s.ErrorIs(err, ingredient.ErrNotFound)
}

func (s *RepositoryTestSuite) TestRecipeRoundTrip() {
	r, err := recipe.New("Porridge", "Breakfast", 125)
	s.Require().NoError(err)
	s.Require().NoError(r.AddIngredient(recipe.RecipeIngredient{
		SourceID:     "local-oats",
		Name:         "Oats",
		AmountGrams:  50,
		PerGram:      ingredient.Nutrition{Calories: 3.89},
		StoreSection: "Breakfast",
	}))
	s.Require().NoError(s.recipes.Create(s.ctx, r))

	loaded, err := s.recipes.FindByID(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal("Porridge", loaded.Name)
	s.Require().Len(loaded.Ingredients, 1)
	s.Equal("Oats", loaded.Ingredients[0].Name)
	s.InDelta(3.89, loaded.Ingredients[0].PerGram.Calories, 1e-9)
}

func (s *RepositoryTestSuite) TestRecipeUpdateAndDelete() {
	r, err := recipe.New("Porridge", "Breakfast", 125)
	s.Require().NoError(err)
	s.Require().NoError(s.recipes.Create(s.ctx, r))

	r.Name = "Overnight Oats"
	s.Require().NoError(s.recipes.Update(s.ctx, r))

	loaded, err := s.recipes.FindByID(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal("Overnight Oats", loaded.Name)

	s.Require().NoError(s.recipes.Delete(s.ctx, r.ID))
	_, err = s.recipes.FindByID(s.ctx, r.ID)
	s.ErrorIs(err, recipe.ErrNotFound)

	s.ErrorIs(s.recipes.Delete(s.ctx, r.ID), recipe.ErrNotFound)
}

func (s *RepositoryTestSuite) TestPlanEntriesInRange() {
	for _, date := range []string{"2025-03-02", "2025-03-03", "2025-03-09", "2025-03-10"} {
		entry := testutils.PlanEntry(date, mealplan.SlotLunch, mealplan.KindIngredient,
			"local-oats", "Oats", 50, ingredient.Nutrition{Calories: 3.89})
		s.Require().NoError(s.plan.SaveEntry(s.ctx, &entry))
	}

	entries, err := s.plan.FindEntriesInRange(s.ctx, mealplan.WeekRange{Start: "2025-03-03", End: "2025-03-09"})
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("2025-03-03", entries[0].Date)
	s.Equal("2025-03-09", entries[1].Date)
}

func (s *RepositoryTestSuite) TestRuleAndTombstoneRoundTrip() {
	rule := &mealplan.RecurringRule{
		ID:          uuid.New(),
		Kind:        mealplan.KindIngredient,
		RefID:       "local-oats",
		Name:        "Oats",
		AmountGrams: 40,
		Slot:        mealplan.SlotBreakfast,
		Weekdays:    []time.Weekday{time.Monday, time.Friday},
		EndDate:     "2025-06-30",
	}
	s.Require().NoError(s.plan.SaveRule(s.ctx, rule))

	rules, err := s.plan.FindRules(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rules, 1)
	s.Equal([]time.Weekday{time.Monday, time.Friday}, rules[0].Weekdays)
	s.Equal("2025-06-30", rules[0].EndDate)

	tomb := mealplan.Tombstone{RuleID: rule.ID, Date: "2025-03-03", Slot: mealplan.SlotBreakfast}
	s.Require().NoError(s.plan.SaveTombstone(s.ctx, tomb))
	// Saving the same occurrence twice is a no-op.
	s.Require().NoError(s.plan.SaveTombstone(s.ctx, tomb))

	tombstones, err := s.plan.FindTombstones(s.ctx)
	s.Require().NoError(err)
	s.Len(tombstones, 1)
}

func (s *RepositoryTestSuite) TestShoppingListRoundTrip() {
	list, err := shopping.NewList("Week 10", "march groceries")
	s.Require().NoError(err)
	list.Items = []shopping.Item{{
		ID:           uuid.New(),
		Name:         "Flour",
		StoreSection: "Baking",
		Quantity:     400,
		Unit:         "g",
		Notes:        "for Pancakes",
		AddedAt:      time.Now(),
	}}
	s.Require().NoError(s.lists.Create(s.ctx, list))

	loaded, err := s.lists.FindByID(s.ctx, list.ID)
	s.Require().NoError(err)
	s.Equal("Week 10", loaded.Name)
	s.Require().Len(loaded.Items, 1)
	s.Equal(400.0, loaded.Items[0].Quantity)

	s.Require().NoError(s.lists.Delete(s.ctx, list.ID))
	_, err = s.lists.FindByID(s.ctx, list.ID)
	s.ErrorIs(err, shopping.ErrNotFound)
}

func (s *RepositoryTestSuite) TestSettingsDefaultsAndSave() {
	loaded, err := s.settings.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(2000.0, loaded.DailyGoals.Calories)

	loaded.DailyGoals.Calories = 1800
	s.Require().NoError(s.settings.Save(s.ctx, loaded))

	reloaded, err := s.settings.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(1800.0, reloaded.DailyGoals.Calories)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
