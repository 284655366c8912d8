// Package shopping contains the domain model for shopping lists. The core
// invariant: within one list no two items share the same normalized
// (store section, name) key. Additions merge instead of duplicating.
package shopping

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/plateful/v1/internal/domain/ingredient"
)

// Item is one line of a shopping list.
type Item struct {
	ID              uuid.UUID
	IngredientRefID string
	Name            string
	StoreSection    string
	Quantity        float64
	Unit            string
	PackageSize     float64
	PackagePrice    float64
	Notes           string
	AddedAt         time.Time
}

// List is a persisted, named shopping list.
type List struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Items        []Item
	SectionOrder []string
	CreatedAt    time.Time
}

// NewList creates a shopping list with validation.
func NewList(name, description string) (*List, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	return &List{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now(),
	}, nil
}

// MergeKey builds the case-insensitive match key used when merging items
// into an existing list.
func MergeKey(name, unit, section string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" +
		strings.ToLower(strings.TrimSpace(unit)) + "|" +
		strings.ToLower(ingredient.NormalizeSection(section))
}

// Merge adds an item to the list. A matching existing item (same name,
// unit and store section, case-insensitive) absorbs the addition: the
// quantities are summed and rounded to one decimal place, and the note is
// appended with "; " only if it is not already present.
func (l *List) Merge(item Item) {
	item.StoreSection = ingredient.NormalizeSection(item.StoreSection)
	key := MergeKey(item.Name, item.Unit, item.StoreSection)

	for i := range l.Items {
		existing := &l.Items[i]
		if MergeKey(existing.Name, existing.Unit, existing.StoreSection) != key {
			continue
		}
		existing.Quantity = roundTenth(existing.Quantity + item.Quantity)
		existing.Notes = mergeNotes(existing.Notes, item.Notes)
		return
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	item.Quantity = roundTenth(item.Quantity)
	l.Items = append(l.Items, item)
}

// RemoveItem deletes an item by id. Returns ErrItemNotFound when no item
// matched.
func (l *List) RemoveItem(id uuid.UUID) error {
	for i := range l.Items {
		if l.Items[i].ID == id {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// SortItems orders items for display: sections alphabetically with
// "Uncategorized" always last, items alphabetically within a section.
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		si := ingredient.NormalizeSection(items[i].StoreSection)
		sj := ingredient.NormalizeSection(items[j].StoreSection)
		if si != sj {
			if si == ingredient.DefaultStoreSection {
				return false
			}
			if sj == ingredient.DefaultStoreSection {
				return true
			}
			return strings.ToLower(si) < strings.ToLower(sj)
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}

// mergeNotes concatenates with "; " unless the note is already a substring.
func mergeNotes(existing, addition string) string {
	addition = strings.TrimSpace(addition)
	if addition == "" {
		return existing
	}
	if existing == "" {
		return addition
	}
	if strings.Contains(existing, addition) {
		return existing
	}
	return existing + "; " + addition
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
