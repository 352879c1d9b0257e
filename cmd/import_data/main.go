package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/service"
)

// import_data loads the ingredient and tag catalogs from CSV files.
func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.csv", "CSV of name,measurement_unit rows (empty to skip)")
	tagsPath := flag.String("tags", "data/tags.csv", "CSV of name,color,slug rows (empty to skip)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	refs := service.NewReferenceService(db)
	ctx := context.Background()

	if *ingredientsPath != "" {
		stats, err := importFile(*ingredientsPath, func(f *os.File) (service.ImportStats, error) {
			return refs.ImportIngredients(ctx, f)
		})
		if err != nil {
			log.Fatalf("Failed to import ingredients: %v", err)
		}
		fmt.Printf("Ingredients: %d created, %d already present\n", stats.Created, stats.Skipped)
	}

	if *tagsPath != "" {
		stats, err := importFile(*tagsPath, func(f *os.File) (service.ImportStats, error) {
			return refs.ImportTags(ctx, f)
		})
		if err != nil {
			log.Fatalf("Failed to import tags: %v", err)
		}
		fmt.Printf("Tags: %d created, %d already present\n", stats.Created, stats.Skipped)
	}
}

func importFile(path string, load func(*os.File) (service.ImportStats, error)) (service.ImportStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return service.ImportStats{}, err
	}
	defer f.Close()
	return load(f)
}
