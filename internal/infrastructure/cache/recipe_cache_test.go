package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pantrychef/v2/internal/domain/recipe"
	"github.com/pantrychef/v2/pkg/logger"
	"github.com/pantrychef/v2/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock for driving TTL expiry
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestRecipeCache(t *testing.T) {
	ctx := context.Background()
	dataset := []recipe.Recipe{{ID: "r1", Name: "One"}, {ID: "r2", Name: "Two"}}

	t.Run("SecondRead_ShouldServeFromCache", func(t *testing.T) {
		source := &testutils.StaticRecipeSource{Recipes: dataset}
		cache := NewRecipeCache(source, logger.NewNop())

		first, err := cache.AllRecipes(ctx)
		require.NoError(t, err)
		second, err := cache.AllRecipes(ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, source.Loads)
	})

	t.Run("ExpiredTTL_ShouldReload", func(t *testing.T) {
		source := &testutils.StaticRecipeSource{Recipes: dataset}
		clock := &fakeClock{t: time.Unix(1700000000, 0)}
		cache := NewRecipeCache(source, logger.NewNop(),
			WithTTL(time.Minute),
			WithClock(clock.Now),
		)

		_, err := cache.AllRecipes(ctx)
		require.NoError(t, err)
		clock.Advance(61 * time.Second)
		_, err = cache.AllRecipes(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, source.Loads)
	})

	t.Run("WithinTTL_ShouldNotReload", func(t *testing.T) {
		source := &testutils.StaticRecipeSource{Recipes: dataset}
		clock := &fakeClock{t: time.Unix(1700000000, 0)}
		cache := NewRecipeCache(source, logger.NewNop(),
			WithTTL(time.Minute),
			WithClock(clock.Now),
		)

		_, err := cache.AllRecipes(ctx)
		require.NoError(t, err)
		clock.Advance(59 * time.Second)
		_, err = cache.AllRecipes(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, source.Loads)
	})

	t.Run("FailedReload_ShouldServeStale", func(t *testing.T) {
		source := &testutils.StaticRecipeSource{Recipes: dataset}
		clock := &fakeClock{t: time.Unix(1700000000, 0)}
		cache := NewRecipeCache(source, logger.NewNop(),
			WithTTL(time.Minute),
			WithClock(clock.Now),
		)

		_, err := cache.AllRecipes(ctx)
		require.NoError(t, err)

		source.Err = errors.New("dataset gone")
		clock.Advance(2 * time.Minute)

		recipes, err := cache.AllRecipes(ctx)
		require.NoError(t, err)
		assert.Len(t, recipes, 2)
	})

	t.Run("FailedFirstLoad_ShouldReturnError", func(t *testing.T) {
		source := &testutils.StaticRecipeSource{Err: errors.New("dataset gone")}
		cache := NewRecipeCache(source, logger.NewNop())

		_, err := cache.AllRecipes(ctx)

		assert.Error(t, err)
	})

	t.Run("Invalidate_ShouldForceReload", func(t *testing.T) {
		source := &testutils.StaticRecipeSource{Recipes: dataset}
		cache := NewRecipeCache(source, logger.NewNop())

		_, err := cache.AllRecipes(ctx)
		require.NoError(t, err)
		cache.Invalidate()
		_, err = cache.AllRecipes(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, source.Loads)
	})
}
