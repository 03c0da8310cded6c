package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/dietplan/backend/internal/database"
	"github.com/pageza/dietplan/backend/internal/middleware"
	"github.com/pageza/dietplan/backend/internal/mocks"
	"github.com/pageza/dietplan/backend/internal/models"
	"github.com/pageza/dietplan/backend/internal/service"
	"github.com/pageza/dietplan/backend/internal/store"
	"github.com/pageza/dietplan/backend/internal/types"
)

type testEnv struct {
	router   *gin.Engine
	searcher *mocks.MockFoodSearcher
	proxy    *mocks.MockNutritionSearcher
	store    *store.FoodStore
	userID   uuid.UUID
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	env := &testEnv{
		searcher: new(mocks.MockFoodSearcher),
		proxy:    new(mocks.MockNutritionSearcher),
		store:    store.NewFoodStore(db),
		userID:   uuid.New(),
	}

	tokens := new(mocks.MockTokenService)
	tokens.On("ValidateToken", "valid-token").Return(&types.TokenClaims{UserID: env.userID}, nil)
	tokens.On("ValidateToken", mock.Anything).Return(nil, service.ErrInvalidToken)

	log := zap.NewNop()
	router := gin.New()
	v1 := router.Group("/api/v1")
	authMW := middleware.AuthMiddleware(tokens)
	NewFoodHandler(env.searcher, env.store, SearchLimits{Default: 20, Max: 50}, log).RegisterRoutes(v1, authMW)
	NewRecipeHandler(env.store, log).RegisterRoutes(v1, authMW)
	NewNutritionHandler(env.proxy).RegisterRoutes(v1)
	router.GET("/health", NewHealthHandler(func(ctx context.Context) error { return database.HealthCheck(ctx, db) }).HealthCheck)

	env.router = router
	return env
}

func (e *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	env := setupTestRouter(t)
	w := env.do(http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "ok", resp["database"])
}

func TestSearchFoods(t *testing.T) {
	env := setupTestRouter(t)
	items := []models.FoodItem{{ID: "1", Name: "Rice", Source: models.SourceCurated}}
	env.searcher.On("Search", mock.Anything, "Rice", 5).Return(items)

	w := env.do(http.MethodGet, "/api/v1/foods/search?q=Rice&limit=5", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp types.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Rice", resp.Query)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, items, resp.Items)
}

func TestSearchFoodsLimits(t *testing.T) {
	env := setupTestRouter(t)
	env.searcher.On("Search", mock.Anything, "dal", 20).Return([]models.FoodItem{})
	env.searcher.On("Search", mock.Anything, "dal", 50).Return([]models.FoodItem{})

	w := env.do(http.MethodGet, "/api/v1/foods/search?q=dal", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"query":"dal","count":0,"items":[]}`, w.Body.String())

	w = env.do(http.MethodGet, "/api/v1/foods/search?q=dal&limit=500", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/v1/foods/search?q=dal&limit=ten", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.searcher.AssertExpectations(t)
}

func TestSearchMiddlewareDoesNotWriteIntoCallerSlice(t *testing.T) {
	gin.SetMode(gin.TestMode)
	searcher := new(mocks.MockFoodSearcher)
	searcher.On("Search", mock.Anything, "rice", 20).Return([]models.FoodItem{})

	mw := make([]gin.HandlerFunc, 1, 2)
	mw[0] = func(c *gin.Context) {
		c.Header("X-Search-Middleware", "1")
		c.Next()
	}

	router := gin.New()
	h := NewFoodHandler(searcher, nil, SearchLimits{Default: 20, Max: 50}, zap.NewNop())
	h.RegisterRoutes(router.Group("/api/v1"), func(c *gin.Context) { c.Next() }, mw...)

	assert.Nil(t, mw[:2][1])

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/foods/search?q=rice", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Search-Middleware"))
}

func TestContributedFoods(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodPost, "/api/v1/foods/contributed", map[string]interface{}{"name": "Sattu"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/api/v1/foods/contributed", map[string]interface{}{"name": "Sattu"}, "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/api/v1/foods/contributed", map[string]interface{}{
		"name":      "Sattu",
		"category":  "Flour",
		"nutrients": map[string]interface{}{"calories": 413, "fiber": 18},
		"isVegan":   true,
	}, "valid-token")
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Food models.FoodItem `json:"food"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Sattu", created.Food.Name)
	assert.Equal(t, models.SourceContributed, created.Food.Source)
	assert.Equal(t, 413.0, created.Food.Nutrients.Calories)
	assert.Equal(t, 0.0, created.Food.Nutrients.Protein)
	require.NotNil(t, created.Food.Nutrients.Fiber)
	assert.True(t, created.Food.IsVegan)

	w = env.do(http.MethodPost, "/api/v1/foods/contributed", map[string]interface{}{"category": "Flour"}, "valid-token")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/v1/foods/contributed", nil, "valid-token")
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Foods []models.FoodItem `json:"foods"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Foods, 1)
	assert.Equal(t, created.Food.ID, listed.Foods[0].ID)
}

func TestCreateAndGetRecipe(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodPost, "/api/v1/recipes", map[string]interface{}{
		"name":        "Vegetable Khichdi",
		"ingredients": []string{"rice", "moong dal", "vegetables"},
		"servings":    4,
		"nutrients":   map[string]interface{}{"calories": 320, "protein": 11},
	}, "valid-token")
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Recipe models.Recipe `json:"recipe"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, env.userID, created.Recipe.OwnerID)

	w = env.do(http.MethodGet, "/api/v1/recipes/"+created.Recipe.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Recipe models.Recipe   `json:"recipe"`
		Item   models.FoodItem `json:"item"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Vegetable Khichdi", got.Recipe.Name)
	assert.Equal(t, 4, got.Recipe.Servings)
	assert.Equal(t, models.SourceRecipe, got.Item.Source)
	assert.Equal(t, 320.0, got.Item.Nutrients.Calories)

	w = env.do(http.MethodGet, "/api/v1/recipes/"+uuid.New().String(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/v1/recipes/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/v1/recipes", map[string]interface{}{"name": "No ingredients"}, "valid-token")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNutritionProxyEndpoint(t *testing.T) {
	env := setupTestRouter(t)
	env.proxy.On("Search", mock.Anything, "search", "oats").Return([]byte(`{"foods":[]}`), nil)
	env.proxy.On("Search", mock.Anything, "lookup", "oats").Return(nil, service.ErrInvalidAction)
	env.proxy.On("Search", mock.Anything, "search", "").Return(nil, service.ErrMissingQuery)
	env.proxy.On("Search", mock.Anything, "search", "fail").Return(nil, errors.Join(service.ErrUpstream, errors.New("status 500")))

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/v1/nutrition?action=search&query=oats", http.StatusOK},
		{"/api/v1/nutrition?action=lookup&query=oats", http.StatusBadRequest},
		{"/api/v1/nutrition?action=search", http.StatusBadRequest},
		{"/api/v1/nutrition?action=search&query=fail", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := env.do(http.MethodGet, tt.path, nil, "")
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
