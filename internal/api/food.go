package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/dietplan/backend/internal/middleware"
	"github.com/pageza/dietplan/backend/internal/models"
	"github.com/pageza/dietplan/backend/internal/service"
	"github.com/pageza/dietplan/backend/internal/types"
)

// SearchLimits bounds the limit query parameter
type SearchLimits struct {
	Default int
	Max     int
}

// FoodHandler serves food search and user contributed foods
type FoodHandler struct {
	searcher service.FoodSearcher
	repo     service.FoodRepository
	limits   SearchLimits
	log      *zap.Logger
}

// NewFoodHandler creates a new FoodHandler instance
func NewFoodHandler(searcher service.FoodSearcher, repo service.FoodRepository, limits SearchLimits, log *zap.Logger) *FoodHandler {
	if limits.Default <= 0 {
		limits.Default = 20
	}
	if limits.Max < limits.Default {
		limits.Max = limits.Default
	}
	return &FoodHandler{
		searcher: searcher,
		repo:     repo,
		limits:   limits,
		log:      log,
	}
}

// RegisterRoutes mounts the food routes. searchMW runs before search only
// (rate limiting); authMW guards the contributed food routes.
func (h *FoodHandler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, searchMW ...gin.HandlerFunc) {
	search := make([]gin.HandlerFunc, 0, len(searchMW)+1)
	search = append(search, searchMW...)
	search = append(search, h.Search)

	foods := router.Group("/foods")
	{
		foods.GET("/search", search...)
		foods.POST("/contributed", authMW, h.CreateContributed)
		foods.GET("/contributed", authMW, h.ListContributed)
	}
}

// Search runs the aggregated search. It always answers 200 with a list.
func (h *FoodHandler) Search(c *gin.Context) {
	query := c.Query("q")

	limit := h.limits.Default
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = n
	}
	if limit > h.limits.Max {
		limit = h.limits.Max
	}

	items := h.searcher.Search(c.Request.Context(), query, limit)
	c.JSON(http.StatusOK, types.SearchResponse{
		Query: query,
		Count: len(items),
		Items: items,
	})
}

// CreateContributed stores a food owned by the caller
func (h *FoodHandler) CreateContributed(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req types.CreateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	food := &models.ContributedFood{
		OwnerID:        userID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Category:       req.Category,
		Nutrients:      req.Nutrients.Doc(),
		IsVegetarian:   req.IsVegetarian,
		IsVegan:        req.IsVegan,
		ContainsGluten: req.ContainsGluten,
	}
	if err := h.repo.CreateContributed(c.Request.Context(), food); err != nil {
		h.log.Error("[FoodHandler] create contributed food failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save food"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"food": food.ToFoodItem()})
}

// ListContributed returns the caller's own foods
func (h *FoodHandler) ListContributed(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	foods, err := h.repo.ListContributedByOwner(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("[FoodHandler] list contributed foods failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch foods"})
		return
	}

	items := make([]models.FoodItem, 0, len(foods))
	for i := range foods {
		items = append(items, foods[i].ToFoodItem())
	}
	c.JSON(http.StatusOK, gin.H{"foods": items})
}
