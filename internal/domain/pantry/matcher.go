package pantry

import (
	"math"
	"sort"
	"strings"

	"github.com/pantrychef/v2/internal/domain/recipe"
)

// Match is the per-recipe result of a pantry scan. Matched and Missing hold
// normalized ingredient names in first-seen order, one entry per ingredient
// occurrence, so len(Matched)+len(Missing) always equals the recipe's raw
// ingredient count (a recipe listing the same name twice contributes twice).
type Match struct {
	RecipeID     string         `json:"recipe_id"`
	Recipe       *recipe.Recipe `json:"recipe"`
	Matched      []string       `json:"matched_ingredients"`
	Missing      []string       `json:"missing_ingredients"`
	MissingCount int            `json:"missing_count"`
	MatchPercent int            `json:"match_percent"`
}

// Options controls recipe matching.
type Options struct {
	// MaxMissing, when set, excludes results with more missing ingredients.
	MaxMissing *int
}

// MatchRecipes scores every recipe against the pantry and returns results
// ordered best-first: ascending missing count, then descending match
// percent, stable for equal keys so input recipe order is preserved.
//
// An ingredient counts as matched when its normalized name and a normalized
// pantry item contain each other in either direction, so "tomato" satisfies
// both "tomatoes" and "ripe tomato". This is a deliberately loose heuristic
// ("pea" matches "peanut") kept for compatibility with historical results.
// The scan is O(ingredients x pantry) per recipe, which is fine at dataset
// scale (tens of recipes, dozens of pantry items).
func MatchRecipes(recipes []recipe.Recipe, pantryItems []string, opts Options) []Match {
	normalized := make([]string, 0, len(pantryItems))
	for _, item := range pantryItems {
		if p := Normalize(item); p != "" {
			normalized = append(normalized, p)
		}
	}

	results := make([]Match, 0, len(recipes))
	for i := range recipes {
		results = append(results, matchRecipe(&recipes[i], normalized))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MissingCount != results[j].MissingCount {
			return results[i].MissingCount < results[j].MissingCount
		}
		return results[i].MatchPercent > results[j].MatchPercent
	})

	if opts.MaxMissing == nil {
		return results
	}
	filtered := make([]Match, 0, len(results))
	for _, m := range results {
		if m.MissingCount <= *opts.MaxMissing {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// matchRecipe scores a single recipe against an already-normalized pantry.
func matchRecipe(r *recipe.Recipe, pantry []string) Match {
	m := Match{
		RecipeID: r.ID,
		Recipe:   r,
		Matched:  []string{},
		Missing:  []string{},
	}

	for _, ing := range r.Ingredients {
		name := Normalize(ing.Name)
		if inPantry(name, pantry) {
			m.Matched = append(m.Matched, name)
		} else {
			m.Missing = append(m.Missing, name)
		}
	}

	m.MissingCount = len(m.Missing)
	total := len(r.Ingredients)
	if total > 0 {
		m.MatchPercent = int(math.Round(float64(len(m.Matched)) / float64(total) * 100))
	}
	return m
}

// Covered reports whether the pantry satisfies a single raw ingredient name,
// using the same bidirectional containment rule as MatchRecipes.
func Covered(pantryItems []string, ingredientName string) bool {
	normalized := make([]string, 0, len(pantryItems))
	for _, item := range pantryItems {
		if p := Normalize(item); p != "" {
			normalized = append(normalized, p)
		}
	}
	return inPantry(Normalize(ingredientName), normalized)
}

// inPantry reports whether any pantry item and the ingredient name contain
// each other as substrings.
func inPantry(name string, pantry []string) bool {
	if name == "" {
		return false
	}
	for _, p := range pantry {
		if strings.Contains(name, p) || strings.Contains(p, name) {
			return true
		}
	}
	return false
}
