// Package shoppinglist provides the application layer for named shopping
// lists: merging ingredient contributions in, managing the list registry and
// the active-list pointer, and exporting lists as CSV.
//
// All mutations are read-modify-write against the key-value store with
// last-writer-wins semantics per write. The client is assumed to issue
// operations sequentially; callers that parallelize must serialize writes
// per list themselves.
package shoppinglist

import (
	"context"
	"encoding/json"

	"github.com/pantrychef/v2/internal/domain/pantry"
	"github.com/pantrychef/v2/internal/domain/shoppinglist"
	"github.com/pantrychef/v2/internal/ports/inbound"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"github.com/pantrychef/v2/pkg/errors"
	"go.uber.org/zap"
)

// Service implements the shopping list use cases
type Service struct {
	store   outbound.KeyValueStore
	recipes outbound.RecipeSource
	logger  *zap.Logger
}

// NewService creates a new shopping list service
func NewService(store outbound.KeyValueStore, recipes outbound.RecipeSource, logger *zap.Logger) inbound.ShoppingListService {
	return &Service{
		store:   store,
		recipes: recipes,
		logger:  logger.Named("shopping-list-service"),
	}
}

// AddItemsToList merges the incoming items into the named list, creating the
// list when it does not yet exist. An empty listName targets the active list.
func (s *Service) AddItemsToList(ctx context.Context, listName string, items []inbound.NewItemCommand) error {
	name, err := s.resolveListName(ctx, listName)
	if err != nil {
		return err
	}

	lists, err := s.readLists(ctx)
	if err != nil {
		return err
	}

	incoming := make([]shoppinglist.Item, 0, len(items))
	for _, cmd := range items {
		incoming = append(incoming, shoppinglist.Item{
			Ingredient:  cmd.Ingredient,
			TotalAmount: cmd.TotalAmount,
			Category:    cmd.Category,
			Recipes:     cmd.Recipes,
		})
	}

	lists[name] = shoppinglist.Merge(lists[name], incoming)
	if err := s.writeLists(ctx, lists); err != nil {
		return err
	}

	s.logger.Info("Added items to shopping list",
		zap.String("list", name),
		zap.Int("incoming", len(items)),
		zap.Int("total", len(lists[name])),
	)
	return nil
}

// AddRecipesToList merges the ingredients of the given recipes into the
// named list. Unknown recipe IDs are skipped silently so a partially valid
// request still succeeds. With onlyMissing set, ingredients already covered
// by the persisted pantry are left out.
func (s *Service) AddRecipesToList(ctx context.Context, listName string, recipeIDs []string, onlyMissing bool) error {
	all, err := s.recipes.AllRecipes(ctx)
	if err != nil {
		return errors.NewDatasetError("load recipes for shopping list", err)
	}

	var pantryItems []string
	if onlyMissing {
		pantryItems = s.readPantry(ctx)
	}

	byID := make(map[string]int, len(all))
	for i := range all {
		byID[all[i].ID] = i
	}

	items := make([]inbound.NewItemCommand, 0)
	skipped := 0
	for _, id := range recipeIDs {
		i, ok := byID[id]
		if !ok {
			skipped++
			continue
		}
		r := &all[i]
		for _, ing := range r.Ingredients {
			if onlyMissing && pantry.Covered(pantryItems, ing.Name) {
				continue
			}
			items = append(items, inbound.NewItemCommand{
				Ingredient:  ing.Name,
				TotalAmount: ing.Amount,
				Category:    string(ing.Category),
				Recipes:     []string{r.Name},
			})
		}
	}

	if skipped > 0 {
		s.logger.Warn("Skipped unknown recipes while building shopping list",
			zap.Int("skipped", skipped),
		)
	}
	if len(items) == 0 {
		return nil
	}
	return s.AddItemsToList(ctx, listName, items)
}

// ToggleItemChecked flips the checked flag of the matching item. Missing
// lists and missing items are silent no-ops; a blank ingredient is a bad
// request.
func (s *Service) ToggleItemChecked(ctx context.Context, listName, ingredient string, checked bool) error {
	name, err := s.resolveListName(ctx, listName)
	if err != nil {
		return err
	}

	lists, err := s.readLists(ctx)
	if err != nil {
		return err
	}

	key := pantry.Normalize(ingredient)
	if key == "" {
		return errors.NewBadRequestError(shoppinglist.ErrEmptyIngredient.Error())
	}

	items, ok := lists[name]
	if !ok {
		return nil
	}

	for i := range items {
		if items[i].Key() == key {
			items[i].Checked = checked
			lists[name] = items
			return s.writeLists(ctx, lists)
		}
	}
	return nil
}

// RemoveItem deletes the matching item from the list. Missing lists and
// missing items are silent no-ops; a blank ingredient is a bad request.
func (s *Service) RemoveItem(ctx context.Context, listName, ingredient string) error {
	name, err := s.resolveListName(ctx, listName)
	if err != nil {
		return err
	}

	lists, err := s.readLists(ctx)
	if err != nil {
		return err
	}

	key := pantry.Normalize(ingredient)
	if key == "" {
		return errors.NewBadRequestError(shoppinglist.ErrEmptyIngredient.Error())
	}

	items, ok := lists[name]
	if !ok {
		return nil
	}

	kept := make([]shoppinglist.Item, 0, len(items))
	for _, item := range items {
		if item.Key() != key {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}

	lists[name] = kept
	return s.writeLists(ctx, lists)
}

// GetListByName returns the named list, or an empty slice when the name is
// unknown. Missing names are never an error.
func (s *Service) GetListByName(ctx context.Context, name string) ([]shoppinglist.Item, error) {
	lists, err := s.readLists(ctx)
	if err != nil {
		return nil, err
	}
	items, ok := lists[name]
	if !ok {
		return []shoppinglist.Item{}, nil
	}
	return items, nil
}

// GetAllLists returns every named list, migrating legacy single-list data on
// first read.
func (s *Service) GetAllLists(ctx context.Context) (shoppinglist.Lists, error) {
	return s.readLists(ctx)
}

// GetActiveList returns the contents of the active list.
func (s *Service) GetActiveList(ctx context.Context) ([]shoppinglist.Item, error) {
	name, err := s.GetActiveListName(ctx)
	if err != nil {
		return nil, err
	}
	return s.GetListByName(ctx, name)
}

// CreateList adds an empty list under name. Creating an existing list is a
// no-op; existing contents are preserved.
func (s *Service) CreateList(ctx context.Context, name string) error {
	if name == "" {
		return errors.NewBadRequestError(shoppinglist.ErrEmptyListName.Error())
	}

	lists, err := s.readLists(ctx)
	if err != nil {
		return err
	}
	if _, ok := lists[name]; ok {
		return nil
	}

	lists[name] = []shoppinglist.Item{}
	if err := s.writeLists(ctx, lists); err != nil {
		return err
	}

	s.logger.Info("Created shopping list", zap.String("list", name))
	return nil
}

// RenameList moves a list's contents to a new name. A collision overwrites
// the target (last-write-wins, no merge); the active pointer follows the
// rename. Renaming a missing list is a no-op.
func (s *Service) RenameList(ctx context.Context, oldName, newName string) error {
	if newName == "" {
		return errors.NewBadRequestError(shoppinglist.ErrEmptyListName.Error())
	}

	lists, err := s.readLists(ctx)
	if err != nil {
		return err
	}
	items, ok := lists[oldName]
	if !ok {
		return nil
	}

	delete(lists, oldName)
	lists[newName] = items
	if err := s.writeLists(ctx, lists); err != nil {
		return err
	}

	active, err := s.GetActiveListName(ctx)
	if err != nil {
		return err
	}
	if active == oldName {
		if err := s.SetActiveListName(ctx, newName); err != nil {
			return err
		}
	}

	s.logger.Info("Renamed shopping list",
		zap.String("from", oldName),
		zap.String("to", newName),
	)
	return nil
}

// DeleteList removes a list. Deleting the active list resets the active
// pointer to "Default", creating the Default list (empty) when absent.
// Deleting a missing list is a no-op.
func (s *Service) DeleteList(ctx context.Context, name string) error {
	lists, err := s.readLists(ctx)
	if err != nil {
		return err
	}
	if _, ok := lists[name]; !ok {
		return nil
	}

	delete(lists, name)

	active, err := s.GetActiveListName(ctx)
	if err != nil {
		return err
	}
	if active == name {
		if _, ok := lists[shoppinglist.DefaultListName]; !ok {
			lists[shoppinglist.DefaultListName] = []shoppinglist.Item{}
		}
		if err := s.SetActiveListName(ctx, shoppinglist.DefaultListName); err != nil {
			return err
		}
	}

	if err := s.writeLists(ctx, lists); err != nil {
		return err
	}

	s.logger.Info("Deleted shopping list", zap.String("list", name))
	return nil
}

// SetActiveListName persists the active-list pointer.
func (s *Service) SetActiveListName(ctx context.Context, name string) error {
	if name == "" {
		return errors.NewBadRequestError(shoppinglist.ErrEmptyListName.Error())
	}
	data, err := json.Marshal(name)
	if err != nil {
		return errors.NewStorageError("encode active list name", err)
	}
	if err := s.store.Set(ctx, outbound.KeyActiveShoppingList, data); err != nil {
		return errors.NewStorageError("save active list name", err)
	}
	return nil
}

// GetActiveListName returns the persisted pointer, defaulting to "Default"
// when none has ever been set or the record is unreadable.
func (s *Service) GetActiveListName(ctx context.Context) (string, error) {
	data, err := s.store.Get(ctx, outbound.KeyActiveShoppingList)
	if err != nil {
		s.logger.Warn("Failed to read active list name, using default", zap.Error(err))
		return shoppinglist.DefaultListName, nil
	}
	if data == nil {
		return shoppinglist.DefaultListName, nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil || name == "" {
		s.logger.Warn("Corrupt active list record, using default", zap.Error(err))
		return shoppinglist.DefaultListName, nil
	}
	return name, nil
}

// ExportCSV renders the named list as CSV. A missing list exports as a
// header-only document rather than an error.
func (s *Service) ExportCSV(ctx context.Context, listName string) (string, error) {
	name, err := s.resolveListName(ctx, listName)
	if err != nil {
		return "", err
	}
	items, err := s.GetListByName(ctx, name)
	if err != nil {
		return "", err
	}
	out, err := shoppinglist.ToCSV(items)
	if err != nil {
		return "", errors.Wrap(err, "failed to render CSV export")
	}
	return out, nil
}

// resolveListName maps an empty list name to the active list.
func (s *Service) resolveListName(ctx context.Context, listName string) (string, error) {
	if listName != "" {
		return listName, nil
	}
	return s.GetActiveListName(ctx)
}

// readLists loads the named-list structure. When no named-list storage
// exists yet but the legacy single-list key holds data, the legacy array is
// migrated verbatim into "Default" and the named structure persisted; the
// legacy key is never consulted again once named storage exists. Unreadable
// records degrade to empty rather than failing the caller.
func (s *Service) readLists(ctx context.Context) (shoppinglist.Lists, error) {
	data, err := s.store.Get(ctx, outbound.KeyShoppingLists)
	if err != nil {
		s.logger.Warn("Failed to read shopping lists, treating as empty", zap.Error(err))
		return shoppinglist.Lists{}, nil
	}

	if data != nil {
		var lists shoppinglist.Lists
		if err := json.Unmarshal(data, &lists); err != nil {
			s.logger.Warn("Corrupt shopping lists record, treating as empty", zap.Error(err))
			return shoppinglist.Lists{}, nil
		}
		// Every present name maps to a non-nil array.
		for name, items := range lists {
			if items == nil {
				lists[name] = []shoppinglist.Item{}
			}
		}
		return lists, nil
	}

	return s.migrateLegacy(ctx)
}

// migrateLegacy imports the legacy bare-array list into a "Default" named
// list. Runs at most once in effect: once the named structure is persisted,
// readLists never reaches this path again.
func (s *Service) migrateLegacy(ctx context.Context) (shoppinglist.Lists, error) {
	data, err := s.store.Get(ctx, outbound.KeyLegacyShoppingList)
	if err != nil || data == nil {
		return shoppinglist.Lists{}, nil
	}

	var legacy []shoppinglist.Item
	if err := json.Unmarshal(data, &legacy); err != nil {
		s.logger.Warn("Corrupt legacy shopping list, ignoring", zap.Error(err))
		return shoppinglist.Lists{}, nil
	}

	lists := shoppinglist.Lists{shoppinglist.DefaultListName: legacy}
	if legacy == nil {
		lists[shoppinglist.DefaultListName] = []shoppinglist.Item{}
	}
	if err := s.writeLists(ctx, lists); err != nil {
		return nil, err
	}

	s.logger.Info("Migrated legacy shopping list to named storage",
		zap.Int("items", len(legacy)),
	)
	return lists, nil
}

// writeLists persists the whole named-list structure (last-writer-wins).
func (s *Service) writeLists(ctx context.Context, lists shoppinglist.Lists) error {
	data, err := json.Marshal(lists)
	if err != nil {
		return errors.NewStorageError("encode shopping lists", err)
	}
	if err := s.store.Set(ctx, outbound.KeyShoppingLists, data); err != nil {
		return errors.NewStorageError("save shopping lists", err)
	}
	return nil
}

// readPantry mirrors the matcher's pantry read: absent or unreadable pantry
// data degrades to empty.
func (s *Service) readPantry(ctx context.Context) []string {
	data, err := s.store.Get(ctx, outbound.KeyPantryItems)
	if err != nil || data == nil {
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("Corrupt pantry items record, treating as empty", zap.Error(err))
		return nil
	}
	return items
}
