package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/dietplan/backend/internal/api"
	"github.com/pageza/dietplan/backend/internal/middleware"
	"github.com/pageza/dietplan/backend/internal/service"
)

// Dependencies are the services the routes are built from
type Dependencies struct {
	Logger      *zap.Logger
	CORSOrigins []string
	Limits      api.SearchLimits

	Searcher  service.FoodSearcher
	Repo      service.FoodRepository
	Nutrition service.NutritionSearcher
	Tokens    middleware.TokenValidator

	// Optional
	RateLimiter *middleware.RateLimiter
	DBPing      api.Pinger
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(deps.CORSOrigins))

	health := api.NewHealthHandler(deps.DBPing)
	router.GET("/health", health.HealthCheck)
	router.GET("/api/health", health.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	authMW := middleware.AuthMiddleware(deps.Tokens)

	var searchMW []gin.HandlerFunc
	if deps.RateLimiter != nil {
		searchMW = append(searchMW, deps.RateLimiter.RateLimitMiddleware())
	}

	api.NewFoodHandler(deps.Searcher, deps.Repo, deps.Limits, log).RegisterRoutes(v1, authMW, searchMW...)
	api.NewRecipeHandler(deps.Repo, log).RegisterRoutes(v1, authMW)
	api.NewNutritionHandler(deps.Nutrition).RegisterRoutes(v1)

	return router
}
