package shopping

import "errors"

// Domain errors for shopping list operations
var (
	ErrNameRequired = errors.New("shopping list name is required")
	ErrNotFound     = errors.New("shopping list not found")
	ErrItemNotFound = errors.New("shopping list item not found")
)
