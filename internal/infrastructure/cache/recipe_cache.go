// Package cache provides a TTL cache over the recipe data source.
//
// The cache is an explicit object with an injectable clock rather than
// module-level state: owners construct it, compose it where a RecipeSource
// is needed, and can invalidate it on demand.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pantrychef/v2/internal/domain/recipe"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"go.uber.org/zap"
)

// DefaultTTL bounds how long a loaded dataset is served before reloading.
const DefaultTTL = 5 * time.Minute

// RecipeCache memoizes the result of an underlying RecipeSource for a TTL.
// It implements RecipeSource itself, so it is a drop-in wrapper.
type RecipeCache struct {
	source outbound.RecipeSource
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mutex    sync.Mutex
	recipes  []recipe.Recipe
	loadedAt time.Time
}

// Option configures a RecipeCache
type Option func(*RecipeCache)

// WithTTL overrides the default cache TTL
func WithTTL(ttl time.Duration) Option {
	return func(c *RecipeCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock injects a clock, used by tests to drive expiry
func WithClock(now func() time.Time) Option {
	return func(c *RecipeCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewRecipeCache wraps source with a TTL cache
func NewRecipeCache(source outbound.RecipeSource, logger *zap.Logger, opts ...Option) *RecipeCache {
	c := &RecipeCache{
		source: source,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: logger.Named("recipe-cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ outbound.RecipeSource = (*RecipeCache)(nil)

// AllRecipes returns the cached dataset, reloading from the source when the
// cache is empty or the TTL has elapsed. A failed reload does not evict a
// previously loaded dataset.
func (c *RecipeCache) AllRecipes(ctx context.Context) ([]recipe.Recipe, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.recipes != nil && c.now().Sub(c.loadedAt) < c.ttl {
		return c.recipes, nil
	}

	recipes, err := c.source.AllRecipes(ctx)
	if err != nil {
		if c.recipes != nil {
			c.logger.Warn("Dataset reload failed, serving stale cache", zap.Error(err))
			return c.recipes, nil
		}
		return nil, err
	}

	c.recipes = recipes
	c.loadedAt = c.now()
	return c.recipes, nil
}

// Invalidate drops the cached dataset; the next read reloads.
func (c *RecipeCache) Invalidate() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.recipes = nil
	c.loadedAt = time.Time{}
}
