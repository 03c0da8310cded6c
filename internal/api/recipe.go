package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/dietplan/backend/internal/middleware"
	"github.com/pageza/dietplan/backend/internal/models"
	"github.com/pageza/dietplan/backend/internal/service"
	"github.com/pageza/dietplan/backend/internal/types"
)

type RecipeHandler struct {
	repo service.FoodRepository
	log  *zap.Logger
}

func NewRecipeHandler(repo service.FoodRepository, log *zap.Logger) *RecipeHandler {
	return &RecipeHandler{repo: repo, log: log}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", authMW, h.CreateRecipe)
	}
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID"})
		return
	}

	recipe, err := h.repo.GetRecipe(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		h.log.Error("[RecipeHandler] get recipe failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe, "item": recipe.ToFoodItem()})
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	recipe := &models.Recipe{
		OwnerID:        userID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Category:       req.Category,
		Ingredients:    models.StringList(req.Ingredients),
		Instructions:   models.StringList(req.Instructions),
		Servings:       req.Servings,
		Nutrients:      req.Nutrients.Doc(),
		IsVegetarian:   req.IsVegetarian,
		IsVegan:        req.IsVegan,
		ContainsGluten: req.ContainsGluten,
	}
	if err := h.repo.CreateRecipe(c.Request.Context(), recipe); err != nil {
		h.log.Error("[RecipeHandler] create recipe failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}
