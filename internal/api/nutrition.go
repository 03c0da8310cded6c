package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/dietplan/backend/internal/service"
)

// NutritionHandler exposes the nutrition proxy
type NutritionHandler struct {
	proxy service.NutritionSearcher
}

// NewNutritionHandler creates a new NutritionHandler instance
func NewNutritionHandler(proxy service.NutritionSearcher) *NutritionHandler {
	return &NutritionHandler{proxy: proxy}
}

func (h *NutritionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/nutrition", h.Search)
}

// Search answers GET /nutrition?action=search&query=
func (h *NutritionHandler) Search(c *gin.Context) {
	body, err := h.proxy.Search(c.Request.Context(), c.Query("action"), c.Query("query"))
	switch {
	case errors.Is(err, service.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
	case errors.Is(err, service.ErrMissingQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter is required"})
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch nutrition data"})
	default:
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
	}
}
