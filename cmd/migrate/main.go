package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/pageza/dietplan/backend/config"
	"github.com/pageza/dietplan/backend/internal/database"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "migrations", "Directory holding the SQL migration files")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if *rollback {
		if err := database.RollbackLast(db, *dir, logger); err != nil {
			logger.Fatal("rollback failed", zap.Error(err))
		}
		return
	}

	if err := database.RunMigrations(db, *dir, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("migrations complete")
}
