package shoppinglist

import "errors"

// Domain errors for shopping list operations

var (
	ErrEmptyListName   = errors.New("shopping list name must not be empty")
	ErrEmptyIngredient = errors.New("ingredient name must not be empty")
)

// DefaultListName is the reserved list used when migrating legacy unnamed
// data and as the fallback active list.
const DefaultListName = "Default"
