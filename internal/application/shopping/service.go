// Package shopping provides the application layer for shopping lists,
// including the week aggregation that explodes planned recipes back into
// constituent ingredients.
package shopping

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plateful/v1/internal/domain/ingredient"
	"github.com/plateful/v1/internal/domain/mealplan"
	"github.com/plateful/v1/internal/domain/shopping"
	"github.com/plateful/v1/internal/ports/inbound"
	"github.com/plateful/v1/internal/ports/outbound"
	apperrors "github.com/plateful/v1/pkg/errors"
)

// ShoppingService implements the shopping list use cases.
type ShoppingService struct {
	planRepo    outbound.MealPlanRepository
	recipeRepo  outbound.RecipeRepository
	catalogRepo outbound.CatalogRepository
	listRepo    outbound.ShoppingListRepository
	logger      *zap.Logger
	validate    *validator.Validate
}

// NewShoppingService creates a shopping service.
func NewShoppingService(
	planRepo outbound.MealPlanRepository,
	recipeRepo outbound.RecipeRepository,
	catalogRepo outbound.CatalogRepository,
	listRepo outbound.ShoppingListRepository,
	logger *zap.Logger,
) inbound.ShoppingService {
	return &ShoppingService{
		planRepo:    planRepo,
		recipeRepo:  recipeRepo,
		catalogRepo: catalogRepo,
		listRepo:    listRepo,
		logger:      logger.Named("shopping-service"),
		validate:    validator.New(),
	}
}

// BuildWeekList aggregates the week's planned meals into merged shopping
// items. Recipe entries are exploded into their ingredient lines scaled by
// the planned amount; duplicate ingredients across meals merge by
// normalized (store section, name). Returns ErrEmptyWeek when no plan
// entry fell within the range.
func (s *ShoppingService) BuildWeekList(ctx context.Context, week mealplan.WeekRange) ([]shopping.Item, error) {
	if _, err := week.Dates(); err != nil {
		return nil, apperrors.NewValidationError("invalid week range")
	}

	entries := s.entriesForWeek(ctx, week)

	acc := newAccumulator()
	for _, entry := range entries {
		switch entry.Kind {
		case mealplan.KindRecipe:
			s.explodeRecipe(ctx, entry, acc)
		case mealplan.KindIngredient:
			section := s.resolveSection(ctx, entry.StoreSection, entry.Name)
			acc.add(entry.Name, section, entry.AmountGrams, "", entry.RefID)
		}
	}

	items := acc.items()
	if len(items) == 0 {
		return nil, inbound.ErrEmptyWeek
	}
	shopping.SortItems(items)
	return items, nil
}

// explodeRecipe scales a planned recipe's ingredient lines by the ratio of
// the planned amount to one serving and merges them into the accumulator.
// A recipe that was deleted since planning cannot be exploded and is
// skipped; the entry keeps only its nutrition snapshot.
func (s *ShoppingService) explodeRecipe(ctx context.Context, entry mealplan.Entry, acc *accumulator) {
	id, err := uuid.Parse(entry.RefID)
	if err != nil {
		return
	}
	r, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("planned recipe unavailable, skipping in shopping list",
			zap.String("recipe_id", entry.RefID),
			zap.Error(err))
		return
	}
	if r.ServingSizeGrams <= 0 {
		return
	}

	scale := entry.AmountGrams / r.ServingSizeGrams
	for _, line := range r.Ingredients {
		scaled := math.Round(line.AmountGrams * scale)
		if scaled <= 0 {
			continue
		}
		section := s.resolveSection(ctx, line.StoreSection, line.Name)
		acc.add(line.Name, section, scaled, r.Name, line.SourceID)
	}
}

// resolveSection picks the store section in priority order: the entry's
// own value, a case-insensitive name match against the local catalog, then
// the uncategorized default.
func (s *ShoppingService) resolveSection(ctx context.Context, own, name string) string {
	own = strings.TrimSpace(own)
	if own != "" && own != ingredient.DefaultStoreSection {
		return own
	}
	if match, err := s.catalogRepo.FindByName(ctx, name); err == nil && match != nil {
		return ingredient.NormalizeSection(match.StoreSection)
	}
	return ingredient.DefaultStoreSection
}

// CreateList creates a persisted shopping list, merging any seed items.
func (s *ShoppingService) CreateList(ctx context.Context, cmd inbound.CreateListCommand) (*shopping.List, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	list, err := shopping.NewList(cmd.Name, cmd.Description)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	for _, item := range cmd.Items {
		list.Merge(item)
	}
	shopping.SortItems(list.Items)

	if err := s.listRepo.Create(ctx, list); err != nil {
		return nil, apperrors.NewDatabaseError("create shopping list", err)
	}
	s.logger.Info("shopping list created",
		zap.String("list_id", list.ID.String()),
		zap.Int("items", len(list.Items)))
	return list, nil
}

// DeleteList removes a list after the user confirmed.
func (s *ShoppingService) DeleteList(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return apperrors.NewConfirmationRequiredError("delete shopping list")
	}
	if _, err := s.findList(ctx, id); err != nil {
		return err
	}
	if err := s.listRepo.Delete(ctx, id); err != nil {
		return apperrors.NewDatabaseError("delete shopping list", err)
	}
	return nil
}

// GetList returns one list by id.
func (s *ShoppingService) GetList(ctx context.Context, id uuid.UUID) (*shopping.List, error) {
	return s.findList(ctx, id)
}

// ListLists returns all persisted lists.
func (s *ShoppingService) ListLists(ctx context.Context) ([]*shopping.List, error) {
	lists, err := s.listRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list shopping lists", err)
	}
	return lists, nil
}

// MergeIntoList merges built items into an existing list. Matching is by
// (name, unit, store section), case-insensitive; quantities are summed and
// notes concatenated without duplication.
func (s *ShoppingService) MergeIntoList(ctx context.Context, listID uuid.UUID, items []shopping.Item) (*shopping.List, error) {
	list, err := s.findList(ctx, listID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		list.Merge(item)
	}
	shopping.SortItems(list.Items)

	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, apperrors.NewDatabaseError("update shopping list", err)
	}
	return list, nil
}

// RemoveItem deletes one item from a list after the user confirmed.
func (s *ShoppingService) RemoveItem(ctx context.Context, listID, itemID uuid.UUID, confirmed bool) error {
	if !confirmed {
		return apperrors.NewConfirmationRequiredError("remove shopping list item")
	}
	list, err := s.findList(ctx, listID)
	if err != nil {
		return err
	}
	if err := list.RemoveItem(itemID); err != nil {
		if errors.Is(err, shopping.ErrItemNotFound) {
			return apperrors.NewNotFoundError("shopping list item")
		}
		return err
	}
	if err := s.listRepo.Update(ctx, list); err != nil {
		return apperrors.NewDatabaseError("update shopping list", err)
	}
	return nil
}

func (s *ShoppingService) findList(ctx context.Context, id uuid.UUID) (*shopping.List, error) {
	list, err := s.listRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shopping.ErrNotFound) {
			return nil, apperrors.NewListNotFoundError(id.String())
		}
		return nil, apperrors.NewDatabaseError("find shopping list", err)
	}
	return list, nil
}

// entriesForWeek loads concrete entries and materialized recurring
// occurrences for the range. Storage failures degrade to an empty plan.
func (s *ShoppingService) entriesForWeek(ctx context.Context, week mealplan.WeekRange) []mealplan.Entry {
	entries, err := s.planRepo.FindEntriesInRange(ctx, week)
	if err != nil {
		s.logger.Warn("loading plan entries failed", zap.Error(err))
		entries = nil
	}
	rules, err := s.planRepo.FindRules(ctx)
	if err != nil {
		rules = nil
	}
	tombstones, err := s.planRepo.FindTombstones(ctx)
	if err != nil {
		tombstones = nil
	}
	return append(entries, mealplan.Materialize(rules, tombstones, week)...)
}

// accumulator merges ingredient amounts across meals, keyed by normalized
// (store section, lowercase name). Provenance notes record which recipes
// contributed, each mentioned once.
type accumulator struct {
	byKey map[string]*shopping.Item
	order []string
}

func newAccumulator() *accumulator {
	return &accumulator{byKey: make(map[string]*shopping.Item)}
}

func (a *accumulator) add(name, section string, grams float64, recipeName, refID string) {
	section = ingredient.NormalizeSection(section)
	key := strings.ToLower(section) + "|" + strings.ToLower(strings.TrimSpace(name))

	item, ok := a.byKey[key]
	if !ok {
		item = &shopping.Item{
			ID:              uuid.New(),
			IngredientRefID: refID,
			Name:            name,
			StoreSection:    section,
			Unit:            "g",
		}
		a.byKey[key] = item
		a.order = append(a.order, key)
	}
	item.Quantity += grams
	if recipeName != "" && !strings.Contains(item.Notes, recipeName) {
		if item.Notes == "" {
			item.Notes = "for " + recipeName
		} else {
			item.Notes += ", " + recipeName
		}
	}
}

func (a *accumulator) items() []shopping.Item {
	out := make([]shopping.Item, 0, len(a.byKey))
	for _, key := range a.order {
		out = append(out, *a.byKey[key])
	}
	return out
}
