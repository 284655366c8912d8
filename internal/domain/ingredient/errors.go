package ingredient

import "errors"

// Domain errors for ingredient operations
var (
	ErrNameRequired      = errors.New("ingredient name is required")
	ErrNegativeNutrition = errors.New("nutrition values cannot be negative")
	ErrUnknownSource     = errors.New("unknown ingredient source")
	ErrNotFound          = errors.New("ingredient not found")
)
