// Package recipe contains the read-only recipe dataset model.
// Recipes are supplied as static JSON documents, one per country, and are
// never mutated by this application; the types here mirror that JSON schema.
package recipe

// Recipe is a single entry from the country dataset files.
type Recipe struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Cuisine      string       `json:"cuisine"`
	MealType     []string     `json:"mealType,omitempty"`
	Image        string       `json:"image,omitempty"`
	PrepTime     string       `json:"prepTime,omitempty"`
	CookTime     string       `json:"cookTime,omitempty"`
	Servings     int          `json:"servings,omitempty"`
	Difficulty   Difficulty   `json:"difficulty,omitempty"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions,omitempty"`
	Nutrition    *Nutrition   `json:"nutrition,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	Rating       float64      `json:"rating,omitempty"`
	Reviews      int          `json:"reviews,omitempty"`
}

// Ingredient is one line of a recipe's ingredient list. Amount is free text
// ("2 cups", "1/2 tsp", "to taste") and is only ever interpreted by the
// quantity package.
type Ingredient struct {
	Name     string             `json:"name"`
	Amount   string             `json:"amount,omitempty"`
	Category IngredientCategory `json:"category,omitempty"`
}

// Nutrition holds the per-serving nutrition block of the dataset.
type Nutrition struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

// CountryFile is the top-level shape of one dataset document.
type CountryFile struct {
	Country string   `json:"country"`
	Flag    string   `json:"flag"`
	Recipes []Recipe `json:"recipes"`
}

// Difficulty represents recipe difficulty as stored in the dataset.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IngredientCategory buckets ingredients for shopping list grouping.
type IngredientCategory string

const (
	CategoryProtein   IngredientCategory = "protein"
	CategoryVegetable IngredientCategory = "vegetable"
	CategoryGrain     IngredientCategory = "grain"
	CategoryDairy     IngredientCategory = "dairy"
	CategorySpice     IngredientCategory = "spice"
	CategoryNut       IngredientCategory = "nut"
	CategoryOther     IngredientCategory = "other"
)
