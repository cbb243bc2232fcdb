package testutils

import (
	"context"

	"github.com/pantrychef/v2/internal/domain/recipe"
)

// StaticRecipeSource serves a fixed recipe slice, or a fixed error, and
// counts loads. It stands in for the dataset loader in service tests.
type StaticRecipeSource struct {
	Recipes []recipe.Recipe
	Err     error
	Loads   int
}

// AllRecipes implements outbound.RecipeSource
func (s *StaticRecipeSource) AllRecipes(ctx context.Context) ([]recipe.Recipe, error) {
	s.Loads++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Recipes, nil
}

// FlakyStore wraps a real key-value store and injects failures. A nil
// error field passes the call through to the inner store.
type FlakyStore struct {
	Inner     KeyValueStore
	GetErr    error
	SetErr    error
	DeleteErr error
}

// KeyValueStore mirrors the outbound storage port so testutils does not
// import internal packages beyond the domain.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Get implements KeyValueStore
func (f *FlakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	return f.Inner.Get(ctx, key)
}

// Set implements KeyValueStore
func (f *FlakyStore) Set(ctx context.Context, key string, value []byte) error {
	if f.SetErr != nil {
		return f.SetErr
	}
	return f.Inner.Set(ctx, key, value)
}

// Delete implements KeyValueStore
func (f *FlakyStore) Delete(ctx context.Context, key string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	return f.Inner.Delete(ctx, key)
}
