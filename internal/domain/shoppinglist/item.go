// Package shoppinglist holds the shopping list model and the merge rules
// that keep a list deduplicated as recipes and manual entries are added.
package shoppinglist

import (
	"github.com/pantrychef/v2/internal/domain/pantry"
	"github.com/pantrychef/v2/internal/domain/quantity"
)

// Item is one persisted shopping list entry. The JSON field names are the
// storage schema and must stay stable across app versions.
//
// Recipes records which recipe names contributed the item; it keeps set
// semantics as an array, preserving first-seen insertion order.
type Item struct {
	Ingredient  string   `json:"ingredient"`
	TotalAmount string   `json:"totalAmount"`
	Category    string   `json:"category"`
	Recipes     []string `json:"recipes"`
	Checked     bool     `json:"checked"`
}

// Lists maps list name to its ordered items. Names are case-sensitive and
// every present name maps to a non-nil slice.
type Lists map[string][]Item

// Key returns the merge identity of an item: its normalized ingredient name.
// Within one list no two items share a key.
func (i Item) Key() string {
	return pantry.Normalize(i.Ingredient)
}

// DisplayName trims a raw ingredient name and uppercases its first letter
// for display. Only an ASCII letter is flipped; digits and multi-byte
// leading runes pass through unchanged so Key() stays stable.
func DisplayName(s string) string {
	s = pantry.Normalize(s)
	if s == "" {
		return ""
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// Merge folds incoming entries into a list, returning the updated slice.
//
// An incoming item whose key matches an existing one is merged in place:
// contributing recipe names are unioned in first-seen order and the amounts
// are consolidated via quantity.Add, keeping the existing amount whenever
// consolidation fails. Unmatched items are appended unchecked with a
// display-cased name. The checked state of existing items is never touched.
func Merge(existing []Item, incoming []Item) []Item {
	out := make([]Item, len(existing))
	copy(out, existing)

	index := make(map[string]int, len(out))
	for i, item := range out {
		index[item.Key()] = i
	}

	for _, in := range incoming {
		key := in.Key()
		if key == "" {
			continue
		}

		if i, ok := index[key]; ok {
			out[i].Recipes = unionRecipes(out[i].Recipes, in.Recipes)
			if sum, ok := quantity.Add(out[i].TotalAmount, in.TotalAmount); ok {
				out[i].TotalAmount = sum
			}
			if out[i].Category == "" {
				out[i].Category = in.Category
			}
			continue
		}

		out = append(out, Item{
			Ingredient:  DisplayName(in.Ingredient),
			TotalAmount: in.TotalAmount,
			Category:    in.Category,
			Recipes:     unionRecipes(nil, in.Recipes),
			Checked:     false,
		})
		index[key] = len(out) - 1
	}

	return out
}

// unionRecipes appends the members of add that existing does not already
// contain. Recipe names compare case-sensitively.
func unionRecipes(existing []string, add []string) []string {
	out := make([]string, 0, len(existing)+len(add))
	seen := make(map[string]bool, len(existing)+len(add))
	all := append(append([]string{}, existing...), add...)
	for _, name := range all {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
