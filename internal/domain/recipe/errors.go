package recipe

import "errors"

// Domain errors for recipe operations
var (
	ErrNameRequired           = errors.New("recipe name is required")
	ErrInvalidServingSize     = errors.New("serving size must be positive")
	ErrNoIngredients          = errors.New("recipe must have at least one ingredient")
	ErrIngredientNameRequired = errors.New("recipe ingredient name is required")
	ErrNegativeAmount         = errors.New("ingredient amount cannot be negative")
	ErrNotFound               = errors.New("recipe not found")
)
