// Package inbound defines the interfaces for inbound ports (primary/driving
// adapters). HTTP handlers and CLI tooling depend on these, never on the
// concrete services.
package inbound

import (
	"context"

	"github.com/pantrychef/v2/internal/domain/pantry"
	"github.com/pantrychef/v2/internal/domain/shoppinglist"
)

// MatchingService ranks recipes by pantry coverage and owns the persisted
// pantry item list.
type MatchingService interface {
	// MatchByPantry scores all recipes against the query's pantry items.
	// An empty PantryItems slice falls back to the persisted pantry.
	MatchByPantry(ctx context.Context, query MatchQuery) ([]pantry.Match, error)

	GetPantryItems(ctx context.Context) ([]string, error)
	SavePantryItems(ctx context.Context, items []string) error
}

// MatchQuery parameterizes a pantry match request.
type MatchQuery struct {
	PantryItems []string
	MaxMissing  *int
}

// ShoppingListService covers named shopping lists: merging items in,
// individual item mutation, list management, the active-list pointer and
// CSV export.
//
// Writes are read-modify-write with last-writer-wins per list; callers that
// parallelize calls against the same list must serialize them.
type ShoppingListService interface {
	// Aggregation
	AddItemsToList(ctx context.Context, listName string, items []NewItemCommand) error
	AddRecipesToList(ctx context.Context, listName string, recipeIDs []string, onlyMissing bool) error

	// Item mutation. An empty listName targets the active list. Missing
	// lists and missing items are no-ops, not errors. A blank ingredient
	// is rejected with a bad request error.
	ToggleItemChecked(ctx context.Context, listName, ingredient string, checked bool) error
	RemoveItem(ctx context.Context, listName, ingredient string) error

	// Reads. Missing names yield empty collections, never errors.
	GetListByName(ctx context.Context, name string) ([]shoppinglist.Item, error)
	GetAllLists(ctx context.Context) (shoppinglist.Lists, error)
	GetActiveList(ctx context.Context) ([]shoppinglist.Item, error)

	// Registry
	CreateList(ctx context.Context, name string) error
	RenameList(ctx context.Context, oldName, newName string) error
	DeleteList(ctx context.Context, name string) error
	SetActiveListName(ctx context.Context, name string) error
	GetActiveListName(ctx context.Context) (string, error)

	// Export
	ExportCSV(ctx context.Context, listName string) (string, error)
}

// NewItemCommand is one incoming shopping list entry before merging.
type NewItemCommand struct {
	Ingredient  string   `json:"ingredient" validate:"required"`
	TotalAmount string   `json:"totalAmount"`
	Category    string   `json:"category"`
	Recipes     []string `json:"recipes"`
}
