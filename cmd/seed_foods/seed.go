package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/dietplan/backend/config"
	"github.com/pageza/dietplan/backend/internal/database"
	"github.com/pageza/dietplan/backend/internal/models"
	"github.com/pageza/dietplan/backend/internal/store"
	"github.com/pageza/dietplan/backend/internal/types"
)

// systemOwner owns recipes that were imported rather than created by a user
var systemOwner = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type seedFood struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Description    string                `json:"description"`
	Category       string                `json:"category"`
	Keywords       []string              `json:"keywords"`
	Nutrients      *types.NutrientsInput `json:"nutrients"`
	IsVegetarian   bool                  `json:"isVegetarian"`
	IsVegan        bool                  `json:"isVegan"`
	ContainsGluten bool                  `json:"containsGluten"`
}

type seedRecipe struct {
	types.CreateRecipeRequest
}

type seedFile struct {
	Foods   []seedFood   `json:"foods"`
	Recipes []seedRecipe `json:"recipes"`
}

// seedData is a parsed seed file ready to be written
type seedData struct {
	Foods   []models.CuratedFood
	Recipes []models.Recipe
}

// curatedID derives a stable ID from the food name so re-imports update rows in place
func curatedID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("nutrition_foods:"+strings.ToLower(strings.TrimSpace(name))))
}

func parseSeed(data []byte, owner uuid.UUID) (*seedData, error) {
	var raw seedFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}

	out := &seedData{}
	for i, f := range raw.Foods {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return nil, fmt.Errorf("food %d: name is required", i)
		}

		id := curatedID(name)
		if f.ID != "" {
			parsed, err := uuid.Parse(f.ID)
			if err != nil {
				return nil, fmt.Errorf("food %q: invalid id: %w", name, err)
			}
			id = parsed
		}

		keywords := store.NormalizeKeywords(f.Keywords)
		if len(keywords) == 0 {
			keywords = store.KeywordsFromName(name)
		}

		out.Foods = append(out.Foods, models.CuratedFood{
			ID:             id,
			Name:           name,
			Description:    f.Description,
			Category:       f.Category,
			Keywords:       keywords,
			Nutrients:      f.Nutrients.Doc(),
			IsVegetarian:   f.IsVegetarian,
			IsVegan:        f.IsVegan,
			ContainsGluten: f.ContainsGluten,
		})
	}

	for i, r := range raw.Recipes {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, fmt.Errorf("recipe %d: name is required", i)
		}
		out.Recipes = append(out.Recipes, models.Recipe{
			OwnerID:        owner,
			Name:           name,
			Description:    r.Description,
			Category:       r.Category,
			Ingredients:    models.StringList(r.Ingredients),
			Instructions:   models.StringList(r.Instructions),
			Servings:       r.Servings,
			Nutrients:      r.Nutrients.Doc(),
			IsVegetarian:   r.IsVegetarian,
			IsVegan:        r.IsVegan,
			ContainsGluten: r.ContainsGluten,
		})
	}
	return out, nil
}

// readSource loads the seed file from disk or from S3
func readSource(ctx context.Context, source string) ([]byte, error) {
	if bucket, key, ok := config.ParseS3URI(source); ok {
		s3cfg, err := config.NewS3Config(ctx)
		if err != nil {
			return nil, err
		}
		return s3cfg.ReadObject(ctx, bucket, key)
	}
	if strings.HasPrefix(source, "s3://") {
		return nil, fmt.Errorf("invalid s3 uri %q", source)
	}
	return os.ReadFile(source)
}

func openDB(cmd *cli.Command, logger *zap.Logger) (*gorm.DB, error) {
	if dsn := cmd.String("sqlite"); dsn != "" {
		db, err := database.OpenSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return db, database.AutoMigrate(db)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return database.New(cfg, logger)
}

func writeSeed(ctx context.Context, db *gorm.DB, data *seedData) error {
	return db.Transaction(func(tx *gorm.DB) error {
		fs := store.NewFoodStore(tx)
		if err := fs.UpsertCurated(ctx, data.Foods); err != nil {
			return err
		}
		for i := range data.Recipes {
			if err := fs.CreateRecipe(ctx, &data.Recipes[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func runSeed(ctx context.Context, cmd *cli.Command) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer logger.Sync()

	owner, err := uuid.Parse(cmd.String("owner"))
	if err != nil {
		return fmt.Errorf("invalid owner id: %w", err)
	}

	source := cmd.String("source")
	raw, err := readSource(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", source, err)
	}

	data, err := parseSeed(raw, owner)
	if err != nil {
		return err
	}
	logger.Info("[Seed] parsed seed data",
		zap.String("source", source),
		zap.Int("foods", len(data.Foods)),
		zap.Int("recipes", len(data.Recipes)),
	)

	if cmd.Bool("dry-run") {
		return nil
	}

	db, err := openDB(cmd, logger)
	if err != nil {
		return err
	}
	if err := writeSeed(ctx, db, data); err != nil {
		return err
	}

	logger.Info("[Seed] import complete")
	return nil
}
