// Package pantry computes pantry coverage for recipes: which of a recipe's
// ingredients the user already has, which are missing, and how the recipes
// rank against each other. Everything here is pure; persistence and data
// loading live in the application and infrastructure layers.
package pantry

import "strings"

// Normalize lowercases and trims whitespace from a raw ingredient or pantry
// name. It is the sole key-derivation function for every equality and merge
// decision in the pantry/shopping-list core.
//
// Lowercasing is plain ASCII folding (strings.ToLower); non-ASCII casing is
// out of scope.
func Normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
