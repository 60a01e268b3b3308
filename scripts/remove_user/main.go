package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"

	"github.com/johnquangdev/meeting-intel/internal/adapter/repository"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-intel/pkg/config"
)

// Usage: go run ./scripts/remove_user -email someone@example.com
func main() {
	email := flag.String("email", "", "email of the account to delete")
	flag.Parse()

	address := strings.ToLower(strings.TrimSpace(*email))
	if address == "" {
		log.Fatal("-email is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	users := repository.NewUserRepository(db)
	if err := users.DeleteByEmail(context.Background(), address); err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Fatalf("No user with email %s", address)
		}
		log.Fatalf("Failed to delete %s: %v", address, err)
	}

	log.Printf("✅ Removed %s and their login history", address)
}
