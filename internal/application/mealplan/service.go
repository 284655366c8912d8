// Package mealplan provides the application layer for the weekly meal
// plan: concrete entries, recurring rules and their materialization into
// the displayed week.
package mealplan

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plateful/v1/internal/domain/ingredient"
	"github.com/plateful/v1/internal/domain/mealplan"
	"github.com/plateful/v1/internal/domain/recipe"
	"github.com/plateful/v1/internal/ports/inbound"
	"github.com/plateful/v1/internal/ports/outbound"
	apperrors "github.com/plateful/v1/pkg/errors"
)

// MealPlanService implements the meal plan use cases.
type MealPlanService struct {
	planRepo     outbound.MealPlanRepository
	recipeRepo   outbound.RecipeRepository
	catalogRepo  outbound.CatalogRepository
	settingsRepo outbound.SettingsRepository
	logger       *zap.Logger
	validate     *validator.Validate
}

// NewMealPlanService creates a meal plan service.
func NewMealPlanService(
	planRepo outbound.MealPlanRepository,
	recipeRepo outbound.RecipeRepository,
	catalogRepo outbound.CatalogRepository,
	settingsRepo outbound.SettingsRepository,
	logger *zap.Logger,
) inbound.MealPlanService {
	return &MealPlanService{
		planRepo:     planRepo,
		recipeRepo:   recipeRepo,
		catalogRepo:  catalogRepo,
		settingsRepo: settingsRepo,
		logger:       logger.Named("mealplan-service"),
		validate:     validator.New(),
	}
}

// AddEntry plans a recipe or ingredient into a meal slot. The referenced
// item's nutrition is snapshotted onto the entry, so later edits or
// deletions upstream never change what was planned.
func (s *MealPlanService) AddEntry(ctx context.Context, cmd inbound.AddPlanEntryCommand) (*mealplan.Entry, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if _, err := mealplan.ParseSlot(string(cmd.Slot)); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	name, perGram, section, err := s.resolveSnapshot(ctx, cmd.Kind, cmd.RefID)
	if err != nil {
		return nil, err
	}

	entry := &mealplan.Entry{
		ID:           uuid.New(),
		Date:         cmd.Date,
		Slot:         cmd.Slot,
		Kind:         cmd.Kind,
		RefID:        cmd.RefID,
		Name:         name,
		AmountGrams:  cmd.AmountGrams,
		PerGram:      perGram,
		StoreSection: section,
	}
	if err := s.planRepo.SaveEntry(ctx, entry); err != nil {
		return nil, apperrors.NewDatabaseError("save plan entry", err)
	}
	return entry, nil
}

// DeleteEntry removes a concrete plan entry after the user confirmed.
func (s *MealPlanService) DeleteEntry(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return apperrors.NewConfirmationRequiredError("delete plan entry")
	}
	if _, err := s.planRepo.FindEntry(ctx, id); err != nil {
		if errors.Is(err, mealplan.ErrEntryNotFound) {
			return apperrors.NewAppError(apperrors.CodePlanEntryNotFound, "Plan entry not found", id.String())
		}
		return apperrors.NewDatabaseError("find plan entry", err)
	}
	if err := s.planRepo.DeleteEntry(ctx, id); err != nil {
		return apperrors.NewDatabaseError("delete plan entry", err)
	}
	return nil
}

// WeekView returns the displayed week: concrete entries plus the
// occurrences materialized from recurring rules. A corrupt persisted plan
// degrades to an empty view rather than failing the render.
func (s *MealPlanService) WeekView(ctx context.Context, week mealplan.WeekRange) (*inbound.WeekView, error) {
	if _, err := week.Dates(); err != nil {
		return nil, apperrors.NewValidationError("invalid week range")
	}

	entries := s.entriesForWeek(ctx, week)
	sortEntries(entries)
	return &inbound.WeekView{Week: week, Entries: entries}, nil
}

// AddRecurringRule creates a recurring plan rule with a nutrition snapshot
// of its referenced item.
func (s *MealPlanService) AddRecurringRule(ctx context.Context, cmd inbound.AddRecurringRuleCommand) (*mealplan.RecurringRule, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	name, perGram, section, err := s.resolveSnapshot(ctx, cmd.Kind, cmd.RefID)
	if err != nil {
		return nil, err
	}

	rule := &mealplan.RecurringRule{
		ID:           uuid.New(),
		Kind:         cmd.Kind,
		RefID:        cmd.RefID,
		Name:         name,
		AmountGrams:  cmd.AmountGrams,
		PerGram:      perGram,
		StoreSection: section,
		Slot:         cmd.Slot,
		Weekdays:     cmd.Weekdays,
		EndDate:      cmd.EndDate,
	}
	if err := s.planRepo.SaveRule(ctx, rule); err != nil {
		return nil, apperrors.NewDatabaseError("save recurring rule", err)
	}
	return rule, nil
}

// DeleteRecurringRule removes a rule entirely after the user confirmed.
// Concretely saved past occurrences are unaffected.
func (s *MealPlanService) DeleteRecurringRule(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return apperrors.NewConfirmationRequiredError("delete recurring rule")
	}
	if err := s.planRepo.DeleteRule(ctx, id); err != nil {
		if errors.Is(err, mealplan.ErrRuleNotFound) {
			return apperrors.NewNotFoundError("recurring rule")
		}
		return apperrors.NewDatabaseError("delete recurring rule", err)
	}
	return nil
}

// DeleteOccurrence records a tombstone for one materialized occurrence so
// re-materialization does not resurrect it. Sibling occurrences of the
// same rule are untouched.
func (s *MealPlanService) DeleteOccurrence(ctx context.Context, ruleID uuid.UUID, date string, slot mealplan.Slot) error {
	if _, err := time.Parse(mealplan.DateLayout, date); err != nil {
		return apperrors.NewValidationError(mealplan.ErrInvalidDate.Error())
	}
	if _, err := mealplan.ParseSlot(string(slot)); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	tombstone := mealplan.Tombstone{RuleID: ruleID, Date: date, Slot: slot}
	if err := s.planRepo.SaveTombstone(ctx, tombstone); err != nil {
		return apperrors.NewDatabaseError("save tombstone", err)
	}
	return nil
}

// DailyNutrition sums a day's planned nutrition, recurring occurrences
// included, against the configured daily goals.
func (s *MealPlanService) DailyNutrition(ctx context.Context, date string) (*inbound.DailySummary, error) {
	if _, err := time.Parse(mealplan.DateLayout, date); err != nil {
		return nil, apperrors.NewValidationError(mealplan.ErrInvalidDate.Error())
	}

	day := mealplan.WeekRange{Start: date, End: date}
	entries := s.entriesForWeek(ctx, day)

	var totals ingredient.Nutrition
	for _, e := range entries {
		totals = totals.Add(e.Nutrition())
	}

	settings, err := s.settingsRepo.Load(ctx)
	if err != nil {
		s.logger.Warn("loading settings failed, using zero goals", zap.Error(err))
		settings = outbound.Settings{}
	}

	return &inbound.DailySummary{
		Date:    date,
		Totals:  totals,
		Goals:   settings.DailyGoals,
		Entries: len(entries),
	}, nil
}

// entriesForWeek loads concrete entries and materializes recurring rules
// for the range. Storage failures degrade to an empty plan.
func (s *MealPlanService) entriesForWeek(ctx context.Context, week mealplan.WeekRange) []mealplan.Entry {
	entries, err := s.planRepo.FindEntriesInRange(ctx, week)
	if err != nil {
		s.logger.Warn("loading plan entries failed, rendering empty plan", zap.Error(err))
		entries = nil
	}
	rules, err := s.planRepo.FindRules(ctx)
	if err != nil {
		s.logger.Warn("loading recurring rules failed", zap.Error(err))
		rules = nil
	}
	tombstones, err := s.planRepo.FindTombstones(ctx)
	if err != nil {
		s.logger.Warn("loading tombstones failed", zap.Error(err))
		tombstones = nil
	}
	return append(entries, mealplan.Materialize(rules, tombstones, week)...)
}

// resolveSnapshot looks up the referenced recipe or catalog ingredient and
// returns its display name, per-gram nutrition and store section.
func (s *MealPlanService) resolveSnapshot(ctx context.Context, kind mealplan.EntryKind, refID string) (string, ingredient.Nutrition, string, error) {
	switch kind {
	case mealplan.KindRecipe:
		id, err := uuid.Parse(refID)
		if err != nil {
			return "", ingredient.Nutrition{}, "", apperrors.NewValidationError("invalid recipe id")
		}
		r, err := s.recipeRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, recipe.ErrNotFound) {
				return "", ingredient.Nutrition{}, "", apperrors.NewRecipeNotFoundError(refID)
			}
			return "", ingredient.Nutrition{}, "", apperrors.NewDatabaseError("find recipe", err)
		}
		return r.Name, recipePerGram(r), "", nil

	case mealplan.KindIngredient:
		ing, err := s.catalogRepo.FindBySourceID(ctx, refID)
		if err != nil {
			if errors.Is(err, ingredient.ErrNotFound) {
				return "", ingredient.Nutrition{}, "", apperrors.NewIngredientNotFoundError(refID)
			}
			return "", ingredient.Nutrition{}, "", apperrors.NewDatabaseError("find catalog ingredient", err)
		}
		return ing.Name, ing.PerGram, ing.StoreSection, nil
	}
	return "", ingredient.Nutrition{}, "", apperrors.NewValidationError("unknown entry kind")
}

// recipePerGram is the recipe's total nutrition divided by its total
// weight. A weightless recipe snapshots as all-zero.
func recipePerGram(r *recipe.Recipe) ingredient.Nutrition {
	weight := r.TotalWeightGrams()
	if weight <= 0 {
		return ingredient.Nutrition{}
	}
	return r.TotalNutrition().Scale(1 / weight)
}

var slotRank = map[mealplan.Slot]int{
	mealplan.SlotBreakfast: 0,
	mealplan.SlotLunch:     1,
	mealplan.SlotDinner:    2,
	mealplan.SlotSnack:     3,
}

func sortEntries(entries []mealplan.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return slotRank[entries[i].Slot] < slotRank[entries[j].Slot]
	})
}
