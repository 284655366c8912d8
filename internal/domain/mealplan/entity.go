// Package mealplan contains the domain model for the weekly meal plan:
// concrete plan entries keyed by (date, slot), recurring rules, and the
// tombstones that keep deleted recurring occurrences from resurrecting.
package mealplan

import (
	"time"

	"github.com/google/uuid"

	"github.com/plateful/v1/internal/domain/ingredient"
)

// DateLayout is the ISO date format used throughout the plan. Zero-padded
// dates make lexicographic comparison equivalent to chronological order.
const DateLayout = "2006-01-02"

// Slot is one of the four meal slots within a day.
type Slot string

const (
	SlotBreakfast Slot = "breakfast"
	SlotLunch     Slot = "lunch"
	SlotDinner    Slot = "dinner"
	SlotSnack     Slot = "snack"
)

// ParseSlot validates a slot name.
func ParseSlot(s string) (Slot, error) {
	switch Slot(s) {
	case SlotBreakfast, SlotLunch, SlotDinner, SlotSnack:
		return Slot(s), nil
	}
	return "", ErrInvalidSlot
}

// EntryKind distinguishes recipe references from direct ingredient entries.
type EntryKind string

const (
	KindRecipe     EntryKind = "recipe"
	KindIngredient EntryKind = "ingredient"
)

// Entry is a single planned item in a meal slot. Entries referencing a
// recipe hold a weak reference: if the recipe is later deleted, the entry
// keeps its nutrition snapshot and display name.
type Entry struct {
	ID          uuid.UUID
	Date        string
	Slot        Slot
	Kind        EntryKind
	RefID       string
	Name        string
	AmountGrams float64
	// PerGram is the nutrition snapshot taken when the entry was planned.
	PerGram      ingredient.Nutrition
	StoreSection string
	Recurring    bool
	RuleID       uuid.UUID
}

// Nutrition returns the entry's total nutrition for its planned amount.
func (e Entry) Nutrition() ingredient.Nutrition {
	return e.PerGram.Scale(e.AmountGrams)
}

// RecurringRule is a template that generates plan entries on specified
// weekdays until an optional end date.
type RecurringRule struct {
	ID           uuid.UUID
	Kind         EntryKind
	RefID        string
	Name         string
	AmountGrams  float64
	PerGram      ingredient.Nutrition
	StoreSection string
	Slot         Slot
	Weekdays     []time.Weekday
	// EndDate is an ISO date; empty means the rule never expires.
	EndDate string
}

// ActiveOn reports whether the rule still generates occurrences on the
// given date. Expired rules are skipped during materialization but never
// deleted, so concretely saved past occurrences stay intact.
func (r RecurringRule) ActiveOn(date string) bool {
	return r.EndDate == "" || date <= r.EndDate
}

// AppliesTo reports whether the rule covers the given weekday.
func (r RecurringRule) AppliesTo(day time.Weekday) bool {
	for _, d := range r.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// Tombstone marks a manually deleted recurring occurrence so that
// re-materialization does not resurrect it.
type Tombstone struct {
	RuleID uuid.UUID
	Date   string
	Slot   Slot
}

// WeekRange is an inclusive ISO date range.
type WeekRange struct {
	Start string
	End   string
}

// Contains reports whether date falls within the range, inclusive on both
// ends. Lexicographic comparison is valid for zero-padded ISO dates.
func (w WeekRange) Contains(date string) bool {
	return date >= w.Start && date <= w.End
}

// Dates enumerates every date of the range in order.
func (w WeekRange) Dates() ([]string, error) {
	start, err := time.Parse(DateLayout, w.Start)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(DateLayout, w.End)
	if err != nil {
		return nil, err
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates, nil
}
