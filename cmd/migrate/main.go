package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "", "Migrations directory (defaults to MIGRATIONS_DIR)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	migrationsDir := cfg.MigrationsDir
	if *dir != "" {
		migrationsDir = *dir
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = cfg.PostgresDSN()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if *rollback {
		name, err := database.RollbackLastMigration(db, migrationsDir)
		if errors.Is(err, database.ErrNothingToRollback) {
			log.Fatal("No migrations to rollback")
		}
		if err != nil {
			log.Fatalf("rollback failed: %v", err)
		}
		fmt.Printf("Successfully rolled back migration: %s\n", name)
		return
	}

	applied, err := database.ApplySQLMigrations(db, migrationsDir)
	for _, name := range applied {
		fmt.Printf("Successfully applied migration: %s\n", name)
	}
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	fmt.Println("All migrations applied successfully.")
}
