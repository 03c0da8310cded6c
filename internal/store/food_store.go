// Package store holds the gorm-backed tables the food search reads from: the
// curated nutrition table, user contributed foods, and recipes.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/dietplan/backend/internal/models"
)

// ErrNotFound is returned when a single record lookup has no match
var ErrNotFound = errors.New("record not found")

// FoodStore provides access to the food tables
type FoodStore struct {
	db *gorm.DB
}

// NewFoodStore creates a new FoodStore instance
func NewFoodStore(db *gorm.DB) *FoodStore {
	return &FoodStore{db: db}
}

// FindCuratedByKeyword returns curated rows whose keyword list contains keyword exactly
func (s *FoodStore) FindCuratedByKeyword(ctx context.Context, keyword string, limit int) ([]models.CuratedFood, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := s.db.WithContext(ctx).Model(&models.CuratedFood{})
	if s.db.Dialector.Name() == "postgres" {
		needle, err := json.Marshal([]string{keyword})
		if err != nil {
			return nil, err
		}
		query = query.Where("keywords @> ?::jsonb", string(needle))
	} else {
		query = query.Where("EXISTS (SELECT 1 FROM json_each(nutrition_foods.keywords) WHERE json_each.value = ?)", keyword)
	}

	var foods []models.CuratedFood
	if err := query.Order("name, id").Limit(limit).Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("failed to query curated foods by keyword: %w", err)
	}
	return foods, nil
}

// ListCurated returns up to limit curated rows in name order
func (s *FoodStore) ListCurated(ctx context.Context, limit int) ([]models.CuratedFood, error) {
	var foods []models.CuratedFood
	if err := s.bounded(ctx, limit, "name, id").Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("failed to list curated foods: %w", err)
	}
	return foods, nil
}

// ListContributed returns up to limit contributed foods across all owners
func (s *FoodStore) ListContributed(ctx context.Context, limit int) ([]models.ContributedFood, error) {
	var foods []models.ContributedFood
	if err := s.bounded(ctx, limit, "created_at, id").Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("failed to list contributed foods: %w", err)
	}
	return foods, nil
}

// ListRecipes returns up to limit recipes across all owners
func (s *FoodStore) ListRecipes(ctx context.Context, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.bounded(ctx, limit, "created_at, id").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

func (s *FoodStore) bounded(ctx context.Context, limit int, order string) *gorm.DB {
	if limit < 0 {
		limit = 0
	}
	return s.db.WithContext(ctx).Order(order).Limit(limit)
}

// CreateCurated inserts a curated food
func (s *FoodStore) CreateCurated(ctx context.Context, food *models.CuratedFood) error {
	food.Keywords = NormalizeKeywords(food.Keywords)
	if err := s.db.WithContext(ctx).Create(food).Error; err != nil {
		return fmt.Errorf("failed to create curated food: %w", err)
	}
	return nil
}

// UpsertCurated inserts or replaces curated foods by primary key
func (s *FoodStore) UpsertCurated(ctx context.Context, foods []models.CuratedFood) error {
	if len(foods) == 0 {
		return nil
	}
	for i := range foods {
		foods[i].Keywords = NormalizeKeywords(foods[i].Keywords)
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(foods, 100).Error
	if err != nil {
		return fmt.Errorf("failed to upsert curated foods: %w", err)
	}
	return nil
}

// CreateContributed inserts a user contributed food
func (s *FoodStore) CreateContributed(ctx context.Context, food *models.ContributedFood) error {
	if err := s.db.WithContext(ctx).Create(food).Error; err != nil {
		return fmt.Errorf("failed to create contributed food: %w", err)
	}
	return nil
}

// ListContributedByOwner returns the foods a single user contributed, newest first
func (s *FoodStore) ListContributedByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ContributedFood, error) {
	var foods []models.ContributedFood
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id").
		Find(&foods).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contributed foods for owner: %w", err)
	}
	return foods, nil
}

// CreateRecipe inserts a recipe
func (s *FoodStore) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	if recipe.Servings <= 0 {
		recipe.Servings = 1
	}
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// GetRecipe retrieves a recipe by ID
func (s *FoodStore) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}

// NormalizeKeywords lower-cases, trims and de-duplicates keywords, keeping order
func NormalizeKeywords(keywords []string) models.StringList {
	seen := make(map[string]struct{}, len(keywords))
	out := make(models.StringList, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// KeywordsFromName derives the keyword list for a food name: the whole name
// plus each word of it.
func KeywordsFromName(name string) models.StringList {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return models.StringList{}
	}
	keywords := []string{name}
	keywords = append(keywords, strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == ',' || r == '-' || r == '(' || r == ')' || r == '/'
	})...)
	return NormalizeKeywords(keywords)
}
