package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/dietplan/backend/config"
	"github.com/pageza/dietplan/backend/internal/api"
	"github.com/pageza/dietplan/backend/internal/cache"
	"github.com/pageza/dietplan/backend/internal/database"
	"github.com/pageza/dietplan/backend/internal/middleware"
	"github.com/pageza/dietplan/backend/internal/router"
	"github.com/pageza/dietplan/backend/internal/server"
	"github.com/pageza/dietplan/backend/internal/service"
	"github.com/pageza/dietplan/backend/internal/store"
)

func newLogger() (*zap.Logger, error) {
	if config.IsProduction() || config.IsCI() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func main() {
	logger, err := newLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("[Main] server exited", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis backs the response cache and the search rate limiter when reachable
	var (
		responses   cache.Store
		rateLimiter *middleware.RateLimiter
	)
	if cfg.RedisEnabled() {
		redisClient, err := database.NewRedisClient(cfg, logger)
		if err != nil {
			logger.Warn("[Main] Redis unavailable, using in-memory cache without rate limiting", zap.Error(err))
		} else {
			defer redisClient.Close()
			responses = cache.NewRedisStore(redisClient, "nutrition", cfg.SearchCacheTTL)
			rateLimiter = middleware.NewSearchRateLimiter(redisClient, logger)
		}
	}
	if responses == nil {
		mem := cache.NewMemoryStore(cfg.SearchCacheTTL, cache.SystemClock)
		mem.StartJanitor(ctx, cfg.SearchCacheTTL)
		responses = mem
	}

	foods := store.NewFoodStore(db)

	remoteURL := cfg.NutritionAPIURL
	if remoteURL == "" {
		remoteURL = fmt.Sprintf("http://127.0.0.1:%s/api/v1/nutrition", cfg.ServerPort)
	}

	searcher := service.NewFoodSearchService(logger,
		service.NewRemoteSource(remoteURL, cfg.RemoteTimeout, logger),
		service.NewCuratedSource(foods),
		service.NewContributedSource(foods),
		service.NewRecipeSource(foods),
	)
	proxy := service.NewNutritionProxy(cfg.USDAAPIURL, cfg.USDAAPIKey, cfg.RemoteTimeout, responses, logger)

	engine := router.SetupRouter(router.Dependencies{
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
		Limits:      api.SearchLimits{Default: cfg.SearchDefaultLimit, Max: cfg.SearchMaxLimit},
		Searcher:    searcher,
		Repo:        foods,
		Nutrition:   proxy,
		Tokens:      service.NewTokenService(cfg.JWTSecret),
		RateLimiter: rateLimiter,
		DBPing: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
	})

	srv := server.New(cfg, engine, logger)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			return err
		}
	case sig := <-quit:
		logger.Info("[Main] received signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	closeDB(db, logger)
	logger.Info("[Main] server stopped")
	return nil
}

func closeDB(db *gorm.DB, logger *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("[Main] closing database failed", zap.Error(err))
	}
}
