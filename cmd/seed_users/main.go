package main

import (
	"context"
	"errors"
	"log"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// seed_users creates a few demo accounts for local development.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if config.IsProduction() {
		log.Fatal("Refusing to seed demo users in production")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Password shared by all demo users
	password := "testpassword123"

	demoUsers := []types.RegisterRequest{
		{Email: "john.doe@example.com", Username: "johndoe", FirstName: "John", LastName: "Doe"},
		{Email: "jane.smith@example.com", Username: "janesmith", FirstName: "Jane", LastName: "Smith"},
		{Email: "chef.mike@example.com", Username: "chefmike", FirstName: "Mike", LastName: "Brown"},
	}

	users := service.NewUserService(db)
	ctx := context.Background()
	for _, req := range demoUsers {
		req.Password = password
		user, err := users.Register(ctx, &req)
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			log.Printf("Skipping %s: %v", req.Username, verr)
		case err != nil:
			log.Fatalf("Failed to create %s: %v", req.Username, err)
		default:
			log.Printf("Created demo user %s (id %d)", user.Username, user.ID)
		}
	}

	log.Printf("Demo users use password %q", password)
}
