// Package dataset loads the static recipe collection from per-country JSON
// documents on disk. The loader is the read-only RecipeSource at the edge of
// the system; callers normally consume it through the TTL cache.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pantrychef/v2/internal/domain/recipe"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"go.uber.org/zap"
)

// Loader reads country JSON files from a directory
type Loader struct {
	dir    string
	logger *zap.Logger
}

// NewLoader creates a dataset loader for dir
func NewLoader(dir string, logger *zap.Logger) *Loader {
	return &Loader{dir: dir, logger: logger.Named("dataset-loader")}
}

var _ outbound.RecipeSource = (*Loader)(nil)

// AllRecipes reads every *.json country file in the dataset directory and
// flattens the result into a single recipe slice, ordered by file name then
// file order. A malformed file is logged and skipped so one bad document
// does not hide the rest of the dataset.
func (l *Loader) AllRecipes(ctx context.Context) ([]recipe.Recipe, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read dataset dir %s: %w", l.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var recipes []recipe.Recipe
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(l.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn("Skipping unreadable dataset file",
				zap.String("file", name),
				zap.Error(err),
			)
			continue
		}

		var country recipe.CountryFile
		if err := json.Unmarshal(data, &country); err != nil {
			l.logger.Warn("Skipping malformed dataset file",
				zap.String("file", name),
				zap.Error(err),
			)
			continue
		}

		recipes = append(recipes, country.Recipes...)
	}

	l.logger.Info("Loaded recipe dataset",
		zap.Int("files", len(names)),
		zap.Int("recipes", len(recipes)),
	)
	return recipes, nil
}
