package mealplan

import "time"

// Materialize synthesizes plan entries for every active recurring rule
// applicable to the given week. It is a pure function run on every
// week-view render; the synthesized entries are derived data and are never
// persisted. Concrete entries are untouched by this process.
func Materialize(rules []RecurringRule, tombstones []Tombstone, week WeekRange) []Entry {
	dates, err := week.Dates()
	if err != nil {
		return nil
	}

	deleted := make(map[tombstoneKey]struct{}, len(tombstones))
	for _, t := range tombstones {
		deleted[tombstoneKey{t.RuleID.String(), t.Date, t.Slot}] = struct{}{}
	}

	var entries []Entry
	for _, rule := range rules {
		for _, date := range dates {
			if !rule.ActiveOn(date) {
				continue
			}
			day, err := time.Parse(DateLayout, date)
			if err != nil {
				continue
			}
			if !rule.AppliesTo(day.Weekday()) {
				continue
			}
			if _, ok := deleted[tombstoneKey{rule.ID.String(), date, rule.Slot}]; ok {
				continue
			}
			entries = append(entries, Entry{
				Date:         date,
				Slot:         rule.Slot,
				Kind:         rule.Kind,
				RefID:        rule.RefID,
				Name:         rule.Name,
				AmountGrams:  rule.AmountGrams,
				PerGram:      rule.PerGram,
				StoreSection: rule.StoreSection,
				Recurring:    true,
				RuleID:       rule.ID,
			})
		}
	}
	return entries
}

type tombstoneKey struct {
	ruleID string
	date   string
	slot   Slot
}
