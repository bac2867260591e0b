// Command token-generator mints a JWT access token for a user ID, for local
// development and manual API testing.
//
// Usage:
//
//	PATHWISE_AUTH_JWT_SECRET=... go run ./cmd/token-generator <user-uuid>
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pathwise/pathwise-api/internal/service/auth"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <user-uuid>", os.Args[0])
	}

	userID, err := uuid.Parse(os.Args[1])
	if err != nil {
		log.Fatalf("invalid user ID %q: %v", os.Args[1], err)
	}

	secret := os.Getenv("PATHWISE_AUTH_JWT_SECRET")
	if secret == "" {
		log.Fatal("PATHWISE_AUTH_JWT_SECRET must be set")
	}

	svc, err := auth.NewJWTService(secret, 24*time.Hour)
	if err != nil {
		log.Fatalf("failed to create JWT service: %v", err)
	}

	token, err := svc.GenerateToken(context.Background(), userID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}

	fmt.Println(token)
}
