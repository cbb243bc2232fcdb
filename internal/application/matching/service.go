// Package matching provides the application layer for pantry matching:
// it joins the persisted pantry with the recipe dataset and delegates the
// scoring to the pantry domain package.
package matching

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pantrychef/v2/internal/domain/pantry"
	"github.com/pantrychef/v2/internal/ports/inbound"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"github.com/pantrychef/v2/pkg/errors"
	"go.uber.org/zap"
)

// Service implements the pantry matching use cases
type Service struct {
	recipes outbound.RecipeSource
	store   outbound.KeyValueStore
	logger  *zap.Logger
}

// NewService creates a new matching service
func NewService(recipes outbound.RecipeSource, store outbound.KeyValueStore, logger *zap.Logger) inbound.MatchingService {
	return &Service{
		recipes: recipes,
		store:   store,
		logger:  logger.Named("matching-service"),
	}
}

// MatchByPantry scores every recipe in the dataset against the query's
// pantry items, falling back to the persisted pantry when none are given.
func (s *Service) MatchByPantry(ctx context.Context, query inbound.MatchQuery) ([]pantry.Match, error) {
	pantryItems := query.PantryItems
	if len(pantryItems) == 0 {
		saved, err := s.GetPantryItems(ctx)
		if err != nil {
			return nil, err
		}
		pantryItems = saved
	}

	recipes, err := s.recipes.AllRecipes(ctx)
	if err != nil {
		return nil, errors.NewDatasetError("load recipes for matching", err)
	}

	matches := pantry.MatchRecipes(recipes, pantryItems, pantry.Options{MaxMissing: query.MaxMissing})

	s.logger.Info("Matched recipes by pantry",
		zap.Int("recipes", len(recipes)),
		zap.Int("pantry_items", len(pantryItems)),
		zap.Int("results", len(matches)),
	)

	return matches, nil
}

// GetPantryItems returns the persisted pantry. An unset or unreadable
// pantry record degrades to an empty list rather than failing the caller.
func (s *Service) GetPantryItems(ctx context.Context) ([]string, error) {
	data, err := s.store.Get(ctx, outbound.KeyPantryItems)
	if err != nil {
		s.logger.Warn("Failed to read pantry items, treating as empty", zap.Error(err))
		return []string{}, nil
	}
	if data == nil {
		return []string{}, nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("Corrupt pantry items record, treating as empty", zap.Error(err))
		return []string{}, nil
	}
	return items, nil
}

// SavePantryItems persists the pantry. The pantry is a set semantically:
// blank entries and duplicates (compared normalized) are collapsed, keeping
// the first-seen spelling and order.
func (s *Service) SavePantryItems(ctx context.Context, items []string) error {
	deduped := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		key := pantry.Normalize(item)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, strings.TrimSpace(item))
	}

	data, err := json.Marshal(deduped)
	if err != nil {
		return errors.NewStorageError("encode pantry items", err)
	}
	if err := s.store.Set(ctx, outbound.KeyPantryItems, data); err != nil {
		return errors.NewStorageError("save pantry items", err)
	}

	s.logger.Info("Saved pantry items", zap.Int("count", len(deduped)))
	return nil
}
