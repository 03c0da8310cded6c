package types

import "github.com/pageza/dietplan/backend/internal/models"

// NutrientsInput is the nutrient block accepted from clients. Every field is optional.
type NutrientsInput struct {
	Calories      *float64 `json:"calories"`
	Protein       *float64 `json:"protein"`
	Carbohydrates *float64 `json:"carbohydrates"`
	Fat           *float64 `json:"fat"`
	Fiber         *float64 `json:"fiber"`
	Sugar         *float64 `json:"sugar"`
	Sodium        *float64 `json:"sodium"`
}

// Doc converts the input into the stored nutrient document
func (n *NutrientsInput) Doc() models.NutrientDoc {
	if n == nil {
		return models.NutrientDoc{}
	}
	return models.NutrientDoc{
		Calories:      n.Calories,
		Protein:       n.Protein,
		Carbohydrates: n.Carbohydrates,
		Fat:           n.Fat,
		Fiber:         n.Fiber,
		Sugar:         n.Sugar,
		Sodium:        n.Sodium,
	}
}

// CreateFoodRequest represents the request body for contributing a food
type CreateFoodRequest struct {
	Name           string          `json:"name" binding:"required"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Nutrients      *NutrientsInput `json:"nutrients"`
	IsVegetarian   bool            `json:"isVegetarian"`
	IsVegan        bool            `json:"isVegan"`
	ContainsGluten bool            `json:"containsGluten"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Name           string          `json:"name" binding:"required"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Ingredients    []string        `json:"ingredients" binding:"required"`
	Instructions   []string        `json:"instructions"`
	Servings       int             `json:"servings"`
	Nutrients      *NutrientsInput `json:"nutrients"`
	IsVegetarian   bool            `json:"isVegetarian"`
	IsVegan        bool            `json:"isVegan"`
	ContainsGluten bool            `json:"containsGluten"`
}

// SearchResponse is the body returned by the food search endpoint
type SearchResponse struct {
	Query string            `json:"query"`
	Count int               `json:"count"`
	Items []models.FoodItem `json:"items"`
}
