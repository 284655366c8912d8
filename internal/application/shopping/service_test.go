package shopping

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plateful/v1/internal/domain/ingredient"
	"github.com/plateful/v1/internal/domain/mealplan"
	"github.com/plateful/v1/internal/domain/recipe"
	"github.com/plateful/v1/internal/domain/shopping"
	"github.com/plateful/v1/internal/ports/inbound"
	apperrors "github.com/plateful/v1/pkg/errors"
)

type fakePlanRepo struct {
	entries    []mealplan.Entry
	rules      []mealplan.RecurringRule
	tombstones []mealplan.Tombstone
}

func (f *fakePlanRepo) SaveEntry(_ context.Context, e *mealplan.Entry) error {
	f.entries = append(f.entries, *e)
	return nil
}
func (f *fakePlanRepo) DeleteEntry(context.Context, uuid.UUID) error { return nil }
func (f *fakePlanRepo) FindEntry(context.Context, uuid.UUID) (*mealplan.Entry, error) {
	return nil, mealplan.ErrEntryNotFound
}
func (f *fakePlanRepo) FindEntriesInRange(_ context.Context, week mealplan.WeekRange) ([]mealplan.Entry, error) {
	var out []mealplan.Entry
	for _, e := range f.entries {
		if week.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out, nil
}
func (f *fakePlanRepo) SaveRule(_ context.Context, r *mealplan.RecurringRule) error {
	f.rules = append(f.rules, *r)
	return nil
}
func (f *fakePlanRepo) DeleteRule(context.Context, uuid.UUID) error { return nil }
func (f *fakePlanRepo) FindRules(context.Context) ([]mealplan.RecurringRule, error) {
	return f.rules, nil
}
func (f *fakePlanRepo) SaveTombstone(_ context.Context, t mealplan.Tombstone) error {
	f.tombstones = append(f.tombstones, t)
	return nil
}
func (f *fakePlanRepo) FindTombstones(context.Context) ([]mealplan.Tombstone, error) {
	return f.tombstones, nil
}

type fakeRecipeRepo struct {
	recipes map[uuid.UUID]*recipe.Recipe
}

func (f *fakeRecipeRepo) Create(_ context.Context, r *recipe.Recipe) error {
	f.recipes[r.ID] = r
	return nil
}
func (f *fakeRecipeRepo) Update(_ context.Context, r *recipe.Recipe) error {
	f.recipes[r.ID] = r
	return nil
}
func (f *fakeRecipeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.recipes, id)
	return nil
}
func (f *fakeRecipeRepo) FindByID(_ context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	r, ok := f.recipes[id]
	if !ok {
		return nil, recipe.ErrNotFound
	}
	return r, nil
}
func (f *fakeRecipeRepo) FindAll(context.Context) ([]*recipe.Recipe, error) { return nil, nil }

type fakeCatalogRepo struct {
	entries []ingredient.Ingredient
}

func (f *fakeCatalogRepo) Save(context.Context, *ingredient.Ingredient) error { return nil }
func (f *fakeCatalogRepo) Delete(context.Context, string) error               { return nil }
func (f *fakeCatalogRepo) FindBySourceID(context.Context, string) (*ingredient.Ingredient, error) {
	return nil, ingredient.ErrNotFound
}
func (f *fakeCatalogRepo) FindByName(_ context.Context, name string) (*ingredient.Ingredient, error) {
	for i := range f.entries {
		if strings.EqualFold(f.entries[i].Name, name) {
			return &f.entries[i], nil
		}
	}
	return nil, ingredient.ErrNotFound
}
func (f *fakeCatalogRepo) List(context.Context) ([]ingredient.Ingredient, error) {
	return f.entries, nil
}

type fakeListRepo struct {
	lists map[uuid.UUID]*shopping.List
}

func newFakeListRepo() *fakeListRepo {
	return &fakeListRepo{lists: map[uuid.UUID]*shopping.List{}}
}

func (f *fakeListRepo) Create(_ context.Context, l *shopping.List) error {
	f.lists[l.ID] = l
	return nil
}
func (f *fakeListRepo) Update(_ context.Context, l *shopping.List) error {
	f.lists[l.ID] = l
	return nil
}
func (f *fakeListRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.lists, id)
	return nil
}
func (f *fakeListRepo) FindByID(_ context.Context, id uuid.UUID) (*shopping.List, error) {
	l, ok := f.lists[id]
	if !ok {
		return nil, shopping.ErrNotFound
	}
	return l, nil
}
func (f *fakeListRepo) FindAll(context.Context) ([]*shopping.List, error) {
	out := make([]*shopping.List, 0, len(f.lists))
	for _, l := range f.lists {
		out = append(out, l)
	}
	return out, nil
}

func pancakesRecipe() *recipe.Recipe {
	r, _ := recipe.New("Pancakes", "Breakfast", 100)
	r.Ingredients = []recipe.RecipeIngredient{
		{SourceID: "local-flour", Name: "Flour", AmountGrams: 50, StoreSection: "Baking"},
		{SourceID: "local-egg", Name: "Egg", AmountGrams: 30, StoreSection: "Dairy"},
		{SourceID: "local-milk", Name: "Milk", AmountGrams: 20, StoreSection: "Dairy"},
	}
	return r
}

func newTestService(plan *fakePlanRepo, recipes *fakeRecipeRepo, catalog *fakeCatalogRepo, lists *fakeListRepo) inbound.ShoppingService {
	return NewShoppingService(plan, recipes, catalog, lists, zap.NewNop())
}

func findItem(t *testing.T, items []shopping.Item, name string) shopping.Item {
	t.Helper()
	for _, item := range items {
		if item.Name == name {
			return item
		}
	}
	t.Fatalf("item %q not in list", name)
	return shopping.Item{}
}

func TestBuildWeekListExplodesAndScalesRecipes(t *testing.T) {
	pancakes := pancakesRecipe()
	plan := &fakePlanRepo{entries: []mealplan.Entry{{
		ID:          uuid.New(),
		Date:        "2025-03-03",
		Slot:        mealplan.SlotBreakfast,
		Kind:        mealplan.KindRecipe,
		RefID:       pancakes.ID.String(),
		Name:        pancakes.Name,
		AmountGrams: 300,
	}}}
	recipes := &fakeRecipeRepo{recipes: map[uuid.UUID]*recipe.Recipe{pancakes.ID: pancakes}}
	svc := newTestService(plan, recipes, &fakeCatalogRepo{}, newFakeListRepo())

	items, err := svc.BuildWeekList(context.Background(), mealplan.WeekRange{Start: "2025-03-03", End: "2025-03-09"})
	require.NoError(t, err)
	require.Len(t, items, 3)

	// 300g planned over a 100g serving size triples every line.
	flour := findItem(t, items, "Flour")
	assert.Equal(t, 150.0, flour.Quantity)
	assert.Equal(t, "Baking", flour.StoreSection)
	assert.Equal(t, "g", flour.Unit)
	assert.Equal(t, "for Pancakes", flour.Notes)

	assert.Equal(t, 90.0, findItem(t, items, "Egg").Quantity)
	assert.Equal(t, 60.0, findItem(t, items, "Milk").Quantity)
}

func TestBuildWeekListMergesAcrossMeals(t *testing.T) {
	pancakes := pancakesRecipe()
	plan := &fakePlanRepo{entries: []mealplan.Entry{
		{
			ID:   uuid.New(),
			Date: "2025-03-03", Slot: mealplan.SlotBreakfast,
			Kind: mealplan.KindRecipe, RefID: pancakes.ID.String(), Name: pancakes.Name,
			AmountGrams: 100,
		},
		{
			ID:   uuid.New(),
			Date: "2025-03-04", Slot: mealplan.SlotLunch,
			Kind: mealplan.KindIngredient, RefID: "local-egg", Name: "egg",
			AmountGrams: 60, StoreSection: "Dairy",
		},
	}}
	recipes := &fakeRecipeRepo{recipes: map[uuid.UUID]*recipe.Recipe{pancakes.ID: pancakes}}
	svc := newTestService(plan, recipes, &fakeCatalogRepo{}, newFakeListRepo())

	items, err := svc.BuildWeekList(context.Background(), mealplan.WeekRange{Start: "2025-03-03", End: "2025-03-09"})
	require.NoError(t, err)

	// The recipe's 30g of Egg and the standalone 60g merge case-insensitively.
	egg := findItem(t, items, "Egg")
	assert.Equal(t, 90.0, egg.Quantity)
	assert.Equal(t, "Dairy", egg.StoreSection)
}

func TestBuildWeekListIncludesRecurringOccurrences(t *testing.T) {
	plan := &fakePlanRepo{rules: []mealplan.RecurringRule{{
		ID:          uuid.New(),
		Kind:        mealplan.KindIngredient,
		RefID:       "local-oats",
		Name:        "Oats",
		AmountGrams: 40,
		Slot:        mealplan.SlotBreakfast,
		Weekdays:    []time.Weekday{time.Monday, time.Wednesday},
	}}}
	svc := newTestService(plan, &fakeRecipeRepo{recipes: map[uuid.UUID]*recipe.Recipe{}}, &fakeCatalogRepo{}, newFakeListRepo())

	// 2025-03-03 is a Monday, so the rule fires twice in the week.
	items, err := svc.BuildWeekList(context.Background(), mealplan.WeekRange{Start: "2025-03-03", End: "2025-03-09"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 80.0, items[0].Quantity)
}

func TestBuildWeekListResolvesSectionFromCatalog(t *testing.T) {
	plan := &fakePlanRepo{entries: []mealplan.Entry{{
		ID:   uuid.New(),
		Date: "2025-03-03", Slot: mealplan.SlotDinner,
		Kind: mealplan.KindIngredient, RefID: "local-salmon", Name: "Salmon",
		AmountGrams: 200,
	}}}
	catalog := &fakeCatalogRepo{entries: []ingredient.Ingredient{{
		SourceID: "local-salmon", Name: "Salmon", StoreSection: "Seafood",
	}}}
	svc := newTestService(plan, &fakeRecipeRepo{recipes: map[uuid.UUID]*recipe.Recipe{}}, catalog, newFakeListRepo())

	items, err := svc.BuildWeekList(context.Background(), mealplan.WeekRange{Start: "2025-03-03", End: "2025-03-09"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Seafood", items[0].StoreSection)
}

func TestBuildWeekListSkipsDeletedRecipe(t *testing.T) {
	plan := &fakePlanRepo{entries: []mealplan.Entry{{
		ID:   uuid.New(),
		Date: "2025-03-03", Slot: mealplan.SlotDinner,
		Kind: mealplan.KindRecipe, RefID: uuid.NewString(), Name: "Gone Casserole",
		AmountGrams: 250,
	}}}
	svc := newTestService(plan, &fakeRecipeRepo{recipes: map[uuid.UUID]*recipe.Recipe{}}, &fakeCatalogRepo{}, newFakeListRepo())

	_, err := svc.BuildWeekList(context.Background(), mealplan.WeekRange{Start: "2025-03-03", End: "2025-03-09"})
	assert.ErrorIs(t, err, inbound.ErrEmptyWeek)
}

func TestBuildWeekListEmptyWeek(t *testing.T) {
	svc := newTestService(&fakePlanRepo{}, &fakeRecipeRepo{recipes: map[uuid.UUID]*recipe.Recipe{}}, &fakeCatalogRepo{}, newFakeListRepo())

	_, err := svc.BuildWeekList(context.Background(), mealplan.WeekRange{Start: "2025-03-03", End: "2025-03-09"})
	assert.ErrorIs(t, err, inbound.ErrEmptyWeek)
}

func TestBuildWeekListRejectsInvalidRange(t *testing.T) {
	svc := newTestService(&fakePlanRepo{}, &fakeRecipeRepo{recipes: map[uuid.UUID]*recipe.Recipe{}}, &fakeCatalogRepo{}, newFakeListRepo())

	_, err := svc.BuildWeekList(context.Background(), mealplan.WeekRange{Start: "not-a-date", End: "2025-03-09"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))
}

func TestCreateAndMergeList(t *testing.T) {
	lists := newFakeListRepo()
	svc := newTestService(&fakePlanRepo{}, &fakeRecipeRepo{recipes: map[uuid.UUID]*recipe.Recipe{}}, &fakeCatalogRepo{}, lists)

	created, err := svc.CreateList(context.Background(), inbound.CreateListCommand{
		Name: "Week 10",
		Items: []shopping.Item{
			{Name: "Flour", StoreSection: "Baking", Quantity: 150, Unit: "g"},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Items, 1)

	merged, err := svc.MergeIntoList(context.Background(), created.ID, []shopping.Item{
		{Name: "flour", StoreSection: "Baking", Quantity: 100, Unit: "g"},
		{Name: "Sugar", StoreSection: "Baking", Quantity: 50, Unit: "g"},
	})
	require.NoError(t, err)
	require.Len(t, merged.Items, 2)
	assert.Equal(t, 250.0, findItem(t, merged.Items, "Flour").Quantity)
	assert.Equal(t, 50.0, findItem(t, merged.Items, "Sugar").Quantity)
}

func TestDeleteListRequiresConfirmation(t *testing.T) {
	lists := newFakeListRepo()
	svc := newTestService(&fakePlanRepo{}, &fakeRecipeRepo{recipes: map[uuid.UUID]*recipe.Recipe{}}, &fakeCatalogRepo{}, lists)

	created, err := svc.CreateList(context.Background(), inbound.CreateListCommand{Name: "Week 10"})
	require.NoError(t, err)

	err = svc.DeleteList(context.Background(), created.ID, false)
	assert.True(t, apperrors.Is(err, apperrors.CodeConfirmationRequired))

	require.NoError(t, svc.DeleteList(context.Background(), created.ID, true))
	_, err = svc.GetList(context.Background(), created.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeListNotFound))
}

func TestRemoveItemFromList(t *testing.T) {
	lists := newFakeListRepo()
	svc := newTestService(&fakePlanRepo{}, &fakeRecipeRepo{recipes: map[uuid.UUID]*recipe.Recipe{}}, &fakeCatalogRepo{}, lists)

	created, err := svc.CreateList(context.Background(), inbound.CreateListCommand{
		Name: "Week 11",
		Items: []shopping.Item{
			{Name: "Flour", StoreSection: "Baking", Quantity: 150, Unit: "g"},
		},
	})
	require.NoError(t, err)
	itemID := created.Items[0].ID

	err = svc.RemoveItem(context.Background(), created.ID, itemID, false)
	assert.True(t, apperrors.Is(err, apperrors.CodeConfirmationRequired))

	err = svc.RemoveItem(context.Background(), created.ID, uuid.New(), true)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	require.NoError(t, svc.RemoveItem(context.Background(), created.ID, itemID, true))
	got, err := svc.GetList(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}
