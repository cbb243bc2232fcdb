// Package testutils provides test data factories and fakes shared by the
// unit and integration tests.
package testutils

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/pantrychef/v2/internal/domain/recipe"
	"github.com/pantrychef/v2/internal/domain/shoppinglist"
)

// RecipeFactory generates dataset-shaped recipes with a seeded faker so
// tests are reproducible.
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a recipe factory with a seeded faker
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{
		faker: gofakeit.New(seed),
	}
}

// Recipe builds a recipe with the given ingredient names, filling the rest
// of the fields with plausible fake data.
func (f *RecipeFactory) Recipe(name string, ingredientNames ...string) recipe.Recipe {
	ingredients := make([]recipe.Ingredient, 0, len(ingredientNames))
	for _, ing := range ingredientNames {
		ingredients = append(ingredients, recipe.Ingredient{
			Name:     ing,
			Amount:   fmt.Sprintf("%d cups", f.faker.Number(1, 4)),
			Category: recipe.CategoryOther,
		})
	}
	return recipe.Recipe{
		ID:          uuid.NewString(),
		Name:        name,
		Cuisine:     f.faker.Country(),
		Servings:    f.faker.Number(1, 8),
		Difficulty:  recipe.DifficultyEasy,
		Ingredients: ingredients,
	}
}

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	r recipe.Recipe
}

// NewRecipeBuilder creates a builder with sensible defaults
func NewRecipeBuilder() *RecipeBuilder {
	return &RecipeBuilder{
		r: recipe.Recipe{
			ID:         uuid.NewString(),
			Name:       "Test Recipe",
			Cuisine:    "Test Cuisine",
			Servings:   4,
			Difficulty: recipe.DifficultyMedium,
		},
	}
}

// WithID sets the recipe ID
func (b *RecipeBuilder) WithID(id string) *RecipeBuilder {
	b.r.ID = id
	return b
}

// WithName sets the recipe name
func (b *RecipeBuilder) WithName(name string) *RecipeBuilder {
	b.r.Name = name
	return b
}

// WithIngredient appends one ingredient line
func (b *RecipeBuilder) WithIngredient(name, amount string, category recipe.IngredientCategory) *RecipeBuilder {
	b.r.Ingredients = append(b.r.Ingredients, recipe.Ingredient{
		Name:     name,
		Amount:   amount,
		Category: category,
	})
	return b
}

// Build returns the assembled recipe
func (b *RecipeBuilder) Build() recipe.Recipe {
	return b.r
}

// ItemBuilder provides a fluent interface for building shopping list items
type ItemBuilder struct {
	item shoppinglist.Item
}

// NewItemBuilder creates a builder for one shopping list item
func NewItemBuilder(ingredient string) *ItemBuilder {
	return &ItemBuilder{
		item: shoppinglist.Item{
			Ingredient: ingredient,
			Recipes:    []string{},
		},
	}
}

// WithAmount sets the consolidated amount text
func (b *ItemBuilder) WithAmount(amount string) *ItemBuilder {
	b.item.TotalAmount = amount
	return b
}

// WithCategory sets the grouping category
func (b *ItemBuilder) WithCategory(category string) *ItemBuilder {
	b.item.Category = category
	return b
}

// WithRecipes sets the contributing recipe names
func (b *ItemBuilder) WithRecipes(names ...string) *ItemBuilder {
	b.item.Recipes = names
	return b
}

// Checked marks the item as checked off
func (b *ItemBuilder) Checked() *ItemBuilder {
	b.item.Checked = true
	return b
}

// Build returns the assembled item
func (b *ItemBuilder) Build() shoppinglist.Item {
	return b.item
}
