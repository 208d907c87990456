//go:build ignore

// This script generates operator credentials for the dispatch API.
// Run with: go run scripts/generate_keys.go [operator-id]
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 30 * 24 * time.Hour

func generateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "Error generating %s: %v\n", what, err)
	os.Exit(1)
}

func main() {
	operator := "dispatcher-1"
	if len(os.Args) > 1 {
		operator = os.Args[1]
	}

	fmt.Println("=== KandyPack Dispatch Key Generator ===")
	fmt.Println()

	// API key for the X-API-Key header; only its bcrypt hash is configured server side.
	apiKey, err := generateSecureKey(24)
	if err != nil {
		fail("API key", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		fail("API key hash", err)
	}

	// HS256 secret (32 bytes = 256 bits) and a bearer token for operator.
	jwtSecret, err := generateSecureKey(32)
	if err != nil {
		fail("JWT secret", err)
	}
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   operator,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	}).SignedString([]byte(jwtSecret))
	if err != nil {
		fail("bearer token", err)
	}

	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Println("# Comma separated bcrypt hashes of accepted API keys")
	fmt.Printf("API_KEY_HASHES=%s\n", hash)
	fmt.Printf("JWT_SECRET_KEY=%s\n", jwtSecret)
	fmt.Println()
	fmt.Println("Give these to the operator:")
	fmt.Println()
	fmt.Printf("X-API-Key: %s\n", apiKey)
	fmt.Printf("Authorization: Bearer %s\n", token)
	fmt.Printf("(token subject %q, expires %s)\n", operator, now.Add(tokenLifetime).Format(time.RFC3339))
	fmt.Println()
	fmt.Println("=== IMPORTANT ===")
	fmt.Println("- Never commit these keys to version control")
	fmt.Println("- Use different keys for each environment (dev, staging, prod)")
	fmt.Println("- Store production keys in a secure secret manager")
}
