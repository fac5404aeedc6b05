package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"codeberg.org/devconnector/server/devconnector/users"
	"codeberg.org/devconnector/server/internal/auth"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const (
	testName     = "Test User"
	testEmail    = "test@devconnector.dev"
	testPassword = "test-password"
)

// seeds a test account and prints a credential for it, for curl and client testing
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	dbConnString := os.Getenv("DATABASE_URL")
	if dbConnString == "" {
		log.Fatal("DATABASE_URL not set")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	ctx := context.Background()

	dbPool, err := pgxpool.New(ctx, dbConnString)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	repo := users.NewRepository(dbPool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to prepare users table: %v", err)
	}

	account, err := repo.FindByEmail(ctx, testEmail)

	switch {
	case errors.Is(err, users.ErrNotFound):
		hash, hashErr := auth.HashPassword(testPassword)
		if hashErr != nil {
			log.Fatalf("Failed to hash password: %v", hashErr)
		}

		account, err = repo.Create(ctx, &users.User{
			Name:         testName,
			Email:        testEmail,
			AvatarURL:    users.GravatarURL(testEmail),
			PasswordHash: hash,
		})
		if err != nil {
			log.Fatalf("Failed to create test user: %v", err)
		}

		fmt.Printf("Created test user: %s (ID: %s)\n", testEmail, account.ID)

	case err != nil:
		log.Fatalf("Failed to look up test user: %v", err)

	default:
		fmt.Printf("Using existing test user (ID: %s)\n", account.ID)
	}

	// goes through the same password check as /api/users/login
	token, err := auth.NewIssuer(repo, secret).Issue(ctx, testEmail, testPassword)
	if err != nil {
		log.Fatalf("Failed to issue credential (was the test user created with another password?): %v", err)
	}

	fmt.Printf("\nTest credential (valid for %s):\n%s%s\n\n", auth.CredentialLifetime, auth.BearerPrefix, token)
	fmt.Printf("Export this token for testing:\nexport TEST_TOKEN=\"%s%s\"\n", auth.BearerPrefix, token)
}
