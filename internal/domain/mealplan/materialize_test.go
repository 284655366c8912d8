package mealplan

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// week of Monday 2025-03-03 through Sunday 2025-03-09
var testWeek = WeekRange{Start: "2025-03-03", End: "2025-03-09"}

func TestMaterialize(t *testing.T) {
	t.Run("EmitsOneEntryPerApplicableWeekday", func(t *testing.T) {
		rule := RecurringRule{
			ID:          uuid.New(),
			Kind:        KindIngredient,
			RefID:       "local-oats",
			Name:        "Oats",
			AmountGrams: 60,
			Slot:        SlotBreakfast,
			Weekdays:    []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		}

		entries := Materialize([]RecurringRule{rule}, nil, testWeek)

		require.Len(t, entries, 3)
		assert.Equal(t, "2025-03-03", entries[0].Date)
		assert.Equal(t, "2025-03-05", entries[1].Date)
		assert.Equal(t, "2025-03-07", entries[2].Date)
		for _, e := range entries {
			assert.True(t, e.Recurring)
			assert.Equal(t, rule.ID, e.RuleID)
			assert.Equal(t, SlotBreakfast, e.Slot)
		}
	})

	t.Run("TombstonedOccurrenceStaysDeleted", func(t *testing.T) {
		rule := RecurringRule{
			ID:       uuid.New(),
			Kind:     KindIngredient,
			RefID:    "local-oats",
			Name:     "Oats",
			Slot:     SlotBreakfast,
			Weekdays: []time.Weekday{time.Monday, time.Wednesday},
		}
		tombstones := []Tombstone{
			{RuleID: rule.ID, Date: "2025-03-05", Slot: SlotBreakfast},
		}

		// Materializing twice must not resurrect the deleted occurrence.
		for i := 0; i < 2; i++ {
			entries := Materialize([]RecurringRule{rule}, tombstones, testWeek)
			require.Len(t, entries, 1)
			assert.Equal(t, "2025-03-03", entries[0].Date)
		}
	})

	t.Run("TombstoneForOtherSlotDoesNotApply", func(t *testing.T) {
		rule := RecurringRule{
			ID:       uuid.New(),
			Slot:     SlotDinner,
			Kind:     KindIngredient,
			Weekdays: []time.Weekday{time.Tuesday},
		}
		tombstones := []Tombstone{
			{RuleID: rule.ID, Date: "2025-03-04", Slot: SlotLunch},
		}

		entries := Materialize([]RecurringRule{rule}, tombstones, testWeek)
		assert.Len(t, entries, 1)
	})

	t.Run("ExpiredRuleIsSkipped", func(t *testing.T) {
		rule := RecurringRule{
			ID:       uuid.New(),
			Slot:     SlotLunch,
			Kind:     KindIngredient,
			Weekdays: []time.Weekday{time.Monday, time.Friday},
			EndDate:  "2025-03-04",
		}

		entries := Materialize([]RecurringRule{rule}, nil, testWeek)

		// Only Monday the 3rd falls on or before the end date.
		require.Len(t, entries, 1)
		assert.Equal(t, "2025-03-03", entries[0].Date)
	})

	t.Run("InvalidWeekYieldsNothing", func(t *testing.T) {
		rule := RecurringRule{ID: uuid.New(), Weekdays: []time.Weekday{time.Monday}}
		entries := Materialize([]RecurringRule{rule}, nil, WeekRange{Start: "bogus", End: "2025-03-09"})
		assert.Nil(t, entries)
	})
}

func TestWeekRange(t *testing.T) {
	t.Run("ContainsIsInclusive", func(t *testing.T) {
		assert.True(t, testWeek.Contains("2025-03-03"))
		assert.True(t, testWeek.Contains("2025-03-09"))
		assert.False(t, testWeek.Contains("2025-03-02"))
		assert.False(t, testWeek.Contains("2025-03-10"))
	})

	t.Run("DatesEnumeratesInOrder", func(t *testing.T) {
		dates, err := testWeek.Dates()
		require.NoError(t, err)
		require.Len(t, dates, 7)
		assert.Equal(t, "2025-03-03", dates[0])
		assert.Equal(t, "2025-03-09", dates[6])
	})
}

func TestParseSlot(t *testing.T) {
	for _, valid := range []string{"breakfast", "lunch", "dinner", "snack"} {
		slot, err := ParseSlot(valid)
		require.NoError(t, err)
		assert.Equal(t, Slot(valid), slot)
	}

	_, err := ParseSlot("brunch")
	assert.Equal(t, ErrInvalidSlot, err)
}

func TestRecurringRuleActiveOn(t *testing.T) {
	rule := RecurringRule{EndDate: "2025-03-05"}
	assert.True(t, rule.ActiveOn("2025-03-05"))
	assert.False(t, rule.ActiveOn("2025-03-06"))

	open := RecurringRule{}
	assert.True(t, open.ActiveOn("2099-12-31"))
}
