package shopping

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMerge(t *testing.T) {
	t.Run("SameNameUnitSection_SumsQuantities", func(t *testing.T) {
		list, err := NewList("Weekly", "")
		require.NoError(t, err)

		list.Merge(Item{Name: "Flour", Unit: "g", StoreSection: "Baking", Quantity: 250})
		list.Merge(Item{Name: "flour", Unit: "g", StoreSection: "baking", Quantity: 150})

		require.Len(t, list.Items, 1)
		assert.Equal(t, 400.0, list.Items[0].Quantity)
	})

	t.Run("DifferentUnit_StaysSeparate", func(t *testing.T) {
		list, err := NewList("Weekly", "")
		require.NoError(t, err)

		list.Merge(Item{Name: "Milk", Unit: "g", StoreSection: "Dairy", Quantity: 200})
		list.Merge(Item{Name: "Milk", Unit: "ml", StoreSection: "Dairy", Quantity: 200})

		assert.Len(t, list.Items, 2)
	})

	t.Run("QuantityRoundedToOneDecimal", func(t *testing.T) {
		list, err := NewList("Weekly", "")
		require.NoError(t, err)

		list.Merge(Item{Name: "Rice", Unit: "g", Quantity: 0.15})
		list.Merge(Item{Name: "Rice", Unit: "g", Quantity: 0.11})

		require.Len(t, list.Items, 1)
		assert.Equal(t, 0.3, list.Items[0].Quantity)
	})

	t.Run("NotesConcatenatedWithoutDuplicates", func(t *testing.T) {
		list, err := NewList("Weekly", "")
		require.NoError(t, err)

		list.Merge(Item{Name: "Egg", Unit: "g", Quantity: 60, Notes: "for Pancakes"})
		list.Merge(Item{Name: "Egg", Unit: "g", Quantity: 60, Notes: "for Omelette"})
		list.Merge(Item{Name: "Egg", Unit: "g", Quantity: 60, Notes: "for Pancakes"})

		require.Len(t, list.Items, 1)
		assert.Equal(t, "for Pancakes; for Omelette", list.Items[0].Notes)
	})

	t.Run("NewItemGetsIDAndTimestamp", func(t *testing.T) {
		list, err := NewList("Weekly", "")
		require.NoError(t, err)

		list.Merge(Item{Name: "Butter", Unit: "g", Quantity: 50})

		require.Len(t, list.Items, 1)
		assert.NotEqual(t, uuid.Nil, list.Items[0].ID)
		assert.False(t, list.Items[0].AddedAt.IsZero())
	})
}

func TestRemoveItem(t *testing.T) {
	list, err := NewList("Weekly", "")
	require.NoError(t, err)

	list.Merge(Item{Name: "Butter", Unit: "g", Quantity: 50})
	id := list.Items[0].ID

	require.NoError(t, list.RemoveItem(id))
	assert.Empty(t, list.Items)
	assert.ErrorIs(t, list.RemoveItem(id), ErrItemNotFound)
}

func TestSortItems(t *testing.T) {
	items := []Item{
		{Name: "Mystery", StoreSection: "Uncategorized"},
		{Name: "Milk", StoreSection: "Dairy"},
		{Name: "Apple", StoreSection: "Produce"},
		{Name: "Banana", StoreSection: "Produce"},
		{Name: "Bread", StoreSection: ""},
	}

	SortItems(items)

	// Sections alphabetical, blank normalizes to Uncategorized and sorts
	// last; names alphabetical within a section.
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, "Apple", items[1].Name)
	assert.Equal(t, "Banana", items[2].Name)
	assert.Equal(t, "Bread", items[3].Name)
	assert.Equal(t, "Mystery", items[4].Name)
}

func TestNewListValidation(t *testing.T) {
	_, err := NewList("  ", "desc")
	assert.Equal(t, ErrNameRequired, err)
}
