package models

import "strings"

// Source identifies which backing provider produced a FoodItem.
type Source string

const (
	SourceCurated     Source = "curated"
	SourceContributed Source = "contributed"
	SourceRecipe      Source = "recipe"
	SourceRemote      Source = "remote"
)

// UnnamedFood is used when a record carries no usable name.
const UnnamedFood = "Unnamed food"

// Nutrients is the normalized nutrient record attached to every FoodItem.
// The four macro fields are always present; the optional ones are only set
// when the source supplied a value.
type Nutrients struct {
	Calories      float64  `json:"calories"`
	Protein       float64  `json:"protein"`
	Carbohydrates float64  `json:"carbohydrates"`
	Fat           float64  `json:"fat"`
	Fiber         *float64 `json:"fiber,omitempty"`
	Sugar         *float64 `json:"sugar,omitempty"`
	Sodium        *float64 `json:"sodium,omitempty"`
}

// FoodItem is the unified search result shape shared by all sources.
type FoodItem struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Source         Source    `json:"source"`
	Nutrients      Nutrients `json:"nutrients"`
	Category       string    `json:"category,omitempty"`
	Description    string    `json:"description,omitempty"`
	IsVegetarian   bool      `json:"isVegetarian"`
	IsVegan        bool      `json:"isVegan"`
	ContainsGluten bool      `json:"containsGluten"`
}

// DisplayName returns name, or the placeholder when name is blank.
func DisplayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return UnnamedFood
	}
	return name
}
