package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/johnquangdev/meeting-intel/internal/adapter/repository"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-intel/pkg/config"
	pkgjwt "github.com/johnquangdev/meeting-intel/pkg/jwt"
)

const testPassword = "password123"

func main() {
	log.Println("🚀 Starting test users creation...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	jwtManager := pkgjwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	testUsers := []string{
		"alice@test.local",
		"bob@test.local",
		"charlie@test.local",
	}

	log.Println("🗑️  Cleaning up existing test users...")
	for _, email := range testUsers {
		if err := users.DeleteByEmail(ctx, email); err != nil && !errors.Is(err, entities.ErrUserNotFound) {
			log.Printf("⚠️  Failed to remove %s: %v", email, err)
		}
	}

	log.Println("🔑 Creating verified test users...")
	for i, email := range testUsers {
		user := entities.NewLocalUser(email, string(hash), "")
		user.IsVerified = true
		user.VerificationToken = nil

		if err := users.Create(ctx, user); err != nil {
			log.Printf("❌ Failed to create user %s: %v", email, err)
			continue
		}

		token, err := jwtManager.GenerateAccessToken(user.ID, user.Email)
		if err != nil {
			log.Printf("❌ Failed to generate token for %s: %v", email, err)
			continue
		}

		fmt.Printf("═══════════════════════════════════════════════════════════════\n")
		fmt.Printf("🟢 User %d\n", i+1)
		fmt.Printf("Email:        %s\n", user.Email)
		fmt.Printf("Password:     %s\n", testPassword)
		fmt.Printf("User ID:      %s\n", user.ID)
		fmt.Printf("\n📋 Access Token (expires in %v):\n", jwtManager.GetAccessExpiry())
		fmt.Printf("%s\n", token)
		fmt.Printf("───────────────────────────────────────────────────────────────\n\n")
	}

	log.Println("✅ All test users created successfully!")
	log.Println("💡 Set header: Authorization: Bearer <access_token>")
	log.Println("🧹 To clean up, run: go run ./scripts/remove_user -email <email>")
}
