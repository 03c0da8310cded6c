package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/dietplan/backend/internal/models"
	"github.com/pageza/dietplan/backend/internal/types"
)

// FoodSource is one backing provider of search results
type FoodSource interface {
	Source() models.Source
	Fetch(ctx context.Context, term string, limit int) ([]models.FoodItem, error)
}

// FoodRepository is the storage the database-backed sources and handlers read and write
type FoodRepository interface {
	FindCuratedByKeyword(ctx context.Context, keyword string, limit int) ([]models.CuratedFood, error)
	ListCurated(ctx context.Context, limit int) ([]models.CuratedFood, error)
	ListContributed(ctx context.Context, limit int) ([]models.ContributedFood, error)
	ListRecipes(ctx context.Context, limit int) ([]models.Recipe, error)
	CreateContributed(ctx context.Context, food *models.ContributedFood) error
	ListContributedByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ContributedFood, error)
	CreateRecipe(ctx context.Context, recipe *models.Recipe) error
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
}

// FoodSearcher runs an aggregated food search
type FoodSearcher interface {
	Search(ctx context.Context, term string, limit int) []models.FoodItem
}

// NutritionSearcher answers nutrition proxy requests with a JSON body
type NutritionSearcher interface {
	Search(ctx context.Context, action, query string) ([]byte, error)
}

// ITokenService defines the interface for contributor token operations
type ITokenService interface {
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
}
