// Package outbound defines the interfaces for outbound ports (secondary/driven
// adapters): the key-value store backing shopping lists and the pantry, and
// the read-only recipe data source.
package outbound

import (
	"context"

	"github.com/pantrychef/v2/internal/domain/recipe"
)

// Storage keys used by the shopping list and pantry core. Only the shape of
// the stored JSON is contractual; the key strings are an implementation
// detail shared by all KeyValueStore adapters.
const (
	KeyLegacyShoppingList = "shopping_list"        // legacy bare item array
	KeyShoppingLists      = "shopping_lists"       // map of name -> []Item
	KeyActiveShoppingList = "active_shopping_list" // active list name
	KeyPantryItems        = "pantry_items"         // []string
)

// KeyValueStore is the persistence layer: string-keyed JSON blobs.
// Get returns (nil, nil) for an absent key; callers treat absent and present
// identically to a mobile key-value store that yields null for unset keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// RecipeSource supplies the full static recipe collection. Implementations
// may load lazily; callers treat the result as read-only.
type RecipeSource interface {
	AllRecipes(ctx context.Context) ([]recipe.Recipe, error)
}
