package mealplan

import "errors"

// Domain errors for meal plan operations
var (
	ErrInvalidSlot   = errors.New("invalid meal slot")
	ErrInvalidDate   = errors.New("invalid plan date")
	ErrEntryNotFound = errors.New("plan entry not found")
	ErrRuleNotFound  = errors.New("recurring rule not found")
)
