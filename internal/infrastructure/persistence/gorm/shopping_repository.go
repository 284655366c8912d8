package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plateful/v1/internal/domain/shopping"
	"github.com/plateful/v1/internal/ports/outbound"
)

// ShoppingListRepository implements the shopping list repository interface
// using GORM.
type ShoppingListRepository struct {
	db *gorm.DB
}

// NewShoppingListRepository creates a new shopping list repository.
func NewShoppingListRepository(db *gorm.DB) outbound.ShoppingListRepository {
	return &ShoppingListRepository{db: db}
}

// Create creates a new shopping list.
func (r *ShoppingListRepository) Create(ctx context.Context, l *shopping.List) error {
	return r.db.WithContext(ctx).Create(ListToModel(l)).Error
}

// Update updates an existing shopping list.
func (r *ShoppingListRepository) Update(ctx context.Context, l *shopping.List) error {
	result := r.db.WithContext(ctx).Save(ListToModel(l))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shopping.ErrNotFound
	}
	return nil
}

// Delete deletes a shopping list by id.
func (r *ShoppingListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ShoppingListModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shopping.ErrNotFound
	}
	return nil
}

// FindByID finds a shopping list by id.
func (r *ShoppingListRepository) FindByID(ctx context.Context, id uuid.UUID) (*shopping.List, error) {
	var model ShoppingListModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, shopping.ErrNotFound
		}
		return nil, result.Error
	}
	return ModelToList(&model), nil
}

// FindAll returns all shopping lists, newest first.
func (r *ShoppingListRepository) FindAll(ctx context.Context) ([]*shopping.List, error) {
	var models []ShoppingListModel
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	out := make([]*shopping.List, len(models))
	for i := range models {
		out[i] = ModelToList(&models[i])
	}
	return out, nil
}
