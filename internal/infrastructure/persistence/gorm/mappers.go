package gorm

import (
	"time"

	"github.com/plateful/v1/internal/domain/ingredient"
	"github.com/plateful/v1/internal/domain/mealplan"
	"github.com/plateful/v1/internal/domain/recipe"
	"github.com/plateful/v1/internal/domain/shopping"
)

// IngredientToModel converts a domain ingredient to its GORM model.
func IngredientToModel(i *ingredient.Ingredient) *IngredientModel {
	return &IngredientModel{
		SourceID:              i.SourceID,
		Source:                string(i.Source),
		Name:                  i.Name,
		Calories:              i.PerGram.Calories,
		Protein:               i.PerGram.Protein,
		Carbs:                 i.PerGram.Carbs,
		Fat:                   i.PerGram.Fat,
		ReferenceServingGrams: i.ReferenceServingGrams,
		StoreSection:          i.StoreSection,
		Emoji:                 i.Emoji,
		PricePerGram:          i.PricePerGram,
		PricePer100g:          i.PricePer100g,
		TotalPrice:            i.TotalPrice,
	}
}

// ModelToIngredient converts a GORM model to a domain ingredient.
func ModelToIngredient(m *IngredientModel) *ingredient.Ingredient {
	return &ingredient.Ingredient{
		ID:       m.SourceID,
		SourceID: m.SourceID,
		Source:   ingredient.Source(m.Source),
		Name:     m.Name,
		PerGram: ingredient.Nutrition{
			Calories: m.Calories,
			Protein:  m.Protein,
			Carbs:    m.Carbs,
			Fat:      m.Fat,
		},
		ReferenceServingGrams: m.ReferenceServingGrams,
		StoreSection:          m.StoreSection,
		Emoji:                 m.Emoji,
		PricePerGram:          m.PricePerGram,
		PricePer100g:          m.PricePer100g,
		TotalPrice:            m.TotalPrice,
	}
}

// RecipeToModel converts a domain recipe to its GORM model.
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	lines := make(RecipeLinesJSON, len(r.Ingredients))
	for i, ri := range r.Ingredients {
		lines[i] = RecipeLineRecord{
			SourceID:     ri.SourceID,
			Name:         ri.Name,
			AmountGrams:  ri.AmountGrams,
			Calories:     ri.PerGram.Calories,
			Protein:      ri.PerGram.Protein,
			Carbs:        ri.PerGram.Carbs,
			Fat:          ri.PerGram.Fat,
			StoreSection: ri.StoreSection,
			Emoji:        ri.Emoji,
		}
	}
	return &RecipeModel{
		ID:               r.ID,
		Name:             r.Name,
		Category:         r.Category,
		ServingSizeGrams: r.ServingSizeGrams,
		Steps:            r.Steps,
		Ingredients:      lines,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// ModelToRecipe converts a GORM model to a domain recipe.
func ModelToRecipe(m *RecipeModel) *recipe.Recipe {
	lines := make([]recipe.RecipeIngredient, len(m.Ingredients))
	for i, rec := range m.Ingredients {
		lines[i] = recipe.RecipeIngredient{
			SourceID:    rec.SourceID,
			Name:        rec.Name,
			AmountGrams: rec.AmountGrams,
			PerGram: ingredient.Nutrition{
				Calories: rec.Calories,
				Protein:  rec.Protein,
				Carbs:    rec.Carbs,
				Fat:      rec.Fat,
			},
			StoreSection: rec.StoreSection,
			Emoji:        rec.Emoji,
		}
	}
	return &recipe.Recipe{
		ID:               m.ID,
		Name:             m.Name,
		Category:         m.Category,
		ServingSizeGrams: m.ServingSizeGrams,
		Steps:            m.Steps,
		Ingredients:      lines,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// EntryToModel converts a domain plan entry to its GORM model.
func EntryToModel(e *mealplan.Entry) *PlanEntryModel {
	return &PlanEntryModel{
		ID:           e.ID,
		Date:         e.Date,
		Slot:         string(e.Slot),
		Kind:         string(e.Kind),
		RefID:        e.RefID,
		Name:         e.Name,
		AmountGrams:  e.AmountGrams,
		Calories:     e.PerGram.Calories,
		Protein:      e.PerGram.Protein,
		Carbs:        e.PerGram.Carbs,
		Fat:          e.PerGram.Fat,
		StoreSection: e.StoreSection,
	}
}

// ModelToEntry converts a GORM model to a domain plan entry.
func ModelToEntry(m *PlanEntryModel) mealplan.Entry {
	return mealplan.Entry{
		ID:          m.ID,
		Date:        m.Date,
		Slot:        mealplan.Slot(m.Slot),
		Kind:        mealplan.EntryKind(m.Kind),
		RefID:       m.RefID,
		Name:        m.Name,
		AmountGrams: m.AmountGrams,
		PerGram: ingredient.Nutrition{
			Calories: m.Calories,
			Protein:  m.Protein,
			Carbs:    m.Carbs,
			Fat:      m.Fat,
		},
		StoreSection: m.StoreSection,
	}
}

// RuleToModel converts a domain recurring rule to its GORM model.
func RuleToModel(r *mealplan.RecurringRule) *RecurringRuleModel {
	days := make(IntsJSON, len(r.Weekdays))
	for i, d := range r.Weekdays {
		days[i] = int(d)
	}
	return &RecurringRuleModel{
		ID:           r.ID,
		Kind:         string(r.Kind),
		RefID:        r.RefID,
		Name:         r.Name,
		AmountGrams:  r.AmountGrams,
		Calories:     r.PerGram.Calories,
		Protein:      r.PerGram.Protein,
		Carbs:        r.PerGram.Carbs,
		Fat:          r.PerGram.Fat,
		StoreSection: r.StoreSection,
		Slot:         string(r.Slot),
		Weekdays:     days,
		EndDate:      r.EndDate,
	}
}

// ModelToRule converts a GORM model to a domain recurring rule.
func ModelToRule(m *RecurringRuleModel) mealplan.RecurringRule {
	days := make([]time.Weekday, len(m.Weekdays))
	for i, d := range m.Weekdays {
		days[i] = time.Weekday(d)
	}
	return mealplan.RecurringRule{
		ID:          m.ID,
		Kind:        mealplan.EntryKind(m.Kind),
		RefID:       m.RefID,
		Name:        m.Name,
		AmountGrams: m.AmountGrams,
		PerGram: ingredient.Nutrition{
			Calories: m.Calories,
			Protein:  m.Protein,
			Carbs:    m.Carbs,
			Fat:      m.Fat,
		},
		StoreSection: m.StoreSection,
		Slot:         mealplan.Slot(m.Slot),
		Weekdays:     days,
		EndDate:      m.EndDate,
	}
}

// ListToModel converts a domain shopping list to its GORM model.
func ListToModel(l *shopping.List) *ShoppingListModel {
	items := make(ItemsJSON, len(l.Items))
	for i, item := range l.Items {
		items[i] = ItemRecord{
			ID:              item.ID,
			IngredientRefID: item.IngredientRefID,
			Name:            item.Name,
			StoreSection:    item.StoreSection,
			Quantity:        item.Quantity,
			Unit:            item.Unit,
			PackageSize:     item.PackageSize,
			PackagePrice:    item.PackagePrice,
			Notes:           item.Notes,
			AddedAt:         item.AddedAt,
		}
	}
	return &ShoppingListModel{
		ID:           l.ID,
		Name:         l.Name,
		Description:  l.Description,
		Items:        items,
		SectionOrder: StringsJSON(l.SectionOrder),
		CreatedAt:    l.CreatedAt,
	}
}

// ModelToList converts a GORM model to a domain shopping list.
func ModelToList(m *ShoppingListModel) *shopping.List {
	items := make([]shopping.Item, len(m.Items))
	for i, rec := range m.Items {
		items[i] = shopping.Item{
			ID:              rec.ID,
			IngredientRefID: rec.IngredientRefID,
			Name:            rec.Name,
			StoreSection:    rec.StoreSection,
			Quantity:        rec.Quantity,
			Unit:            rec.Unit,
			PackageSize:     rec.PackageSize,
			PackagePrice:    rec.PackagePrice,
			Notes:           rec.Notes,
			AddedAt:         rec.AddedAt,
		}
	}
	return &shopping.List{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Items:        items,
		SectionOrder: []string(m.SectionOrder),
		CreatedAt:    m.CreatedAt,
	}
}
