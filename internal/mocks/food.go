package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/dietplan/backend/internal/models"
)

// MockFoodSource is a mock implementation of the FoodSource interface
type MockFoodSource struct {
	mock.Mock
	Kind models.Source
}

func (m *MockFoodSource) Source() models.Source {
	return m.Kind
}

func (m *MockFoodSource) Fetch(ctx context.Context, term string, limit int) ([]models.FoodItem, error) {
	args := m.Called(ctx, term, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FoodItem), args.Error(1)
}

// MockFoodSearcher is a mock implementation of the FoodSearcher interface
type MockFoodSearcher struct {
	mock.Mock
}

func (m *MockFoodSearcher) Search(ctx context.Context, term string, limit int) []models.FoodItem {
	args := m.Called(ctx, term, limit)
	return args.Get(0).([]models.FoodItem)
}

// MockNutritionSearcher is a mock implementation of the NutritionSearcher interface
type MockNutritionSearcher struct {
	mock.Mock
}

func (m *MockNutritionSearcher) Search(ctx context.Context, action, query string) ([]byte, error) {
	args := m.Called(ctx, action, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
