package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/dietplan/backend/internal/models"
)

// curatedScanSize bounds the substring fallback over the curated table
const curatedScanSize = 100

// matchesTerm reports whether any of the fields contains the lower-cased term
func matchesTerm(term string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// CuratedSource searches the curated nutrition table
type CuratedSource struct {
	repo FoodRepository
}

// NewCuratedSource creates a new CuratedSource instance
func NewCuratedSource(repo FoodRepository) *CuratedSource {
	return &CuratedSource{repo: repo}
}

func (s *CuratedSource) Source() models.Source { return models.SourceCurated }

// Fetch matches the term against the keyword arrays first. When that yields
// fewer than half of limit, a bounded scan adds rows whose text contains the term.
func (s *CuratedSource) Fetch(ctx context.Context, term string, limit int) ([]models.FoodItem, error) {
	rows, err := s.repo.FindCuratedByKeyword(ctx, term, limit)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(rows))
	items := make([]models.FoodItem, 0, len(rows))
	for i := range rows {
		if _, ok := seen[rows[i].ID]; ok {
			continue
		}
		seen[rows[i].ID] = struct{}{}
		items = append(items, rows[i].ToFoodItem())
	}

	if 2*len(items) >= limit {
		return items, nil
	}

	candidates, err := s.repo.ListCurated(ctx, curatedScanSize)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if len(items) >= limit {
			break
		}
		c := &candidates[i]
		if _, ok := seen[c.ID]; ok {
			continue
		}
		if !matchesTerm(term, c.Name, c.Description, c.Category) {
			continue
		}
		seen[c.ID] = struct{}{}
		items = append(items, c.ToFoodItem())
	}
	return items, nil
}

// ContributedSource searches foods added by users
type ContributedSource struct {
	repo FoodRepository
}

// NewContributedSource creates a new ContributedSource instance
func NewContributedSource(repo FoodRepository) *ContributedSource {
	return &ContributedSource{repo: repo}
}

func (s *ContributedSource) Source() models.Source { return models.SourceContributed }

// Fetch filters a candidate set of 2*limit rows on name, category and description
func (s *ContributedSource) Fetch(ctx context.Context, term string, limit int) ([]models.FoodItem, error) {
	rows, err := s.repo.ListContributed(ctx, 2*limit)
	if err != nil {
		return nil, err
	}

	var items []models.FoodItem
	for i := range rows {
		if matchesTerm(term, rows[i].Name, rows[i].Category, rows[i].Description) {
			items = append(items, rows[i].ToFoodItem())
		}
	}
	return items, nil
}

// RecipeSource searches saved recipes
type RecipeSource struct {
	repo FoodRepository
}

// NewRecipeSource creates a new RecipeSource instance
func NewRecipeSource(repo FoodRepository) *RecipeSource {
	return &RecipeSource{repo: repo}
}

func (s *RecipeSource) Source() models.Source { return models.SourceRecipe }

// Fetch filters a candidate set of 2*limit recipes on name, category and description
func (s *RecipeSource) Fetch(ctx context.Context, term string, limit int) ([]models.FoodItem, error) {
	rows, err := s.repo.ListRecipes(ctx, 2*limit)
	if err != nil {
		return nil, err
	}

	var items []models.FoodItem
	for i := range rows {
		if matchesTerm(term, rows[i].Name, rows[i].Category, rows[i].Description) {
			items = append(items, rows[i].ToFoodItem())
		}
	}
	return items, nil
}
