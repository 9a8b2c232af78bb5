// Package config - token.go provides access-token hashing for the local API.
package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// TokenConfig holds configuration for hashing and verifying the local API
// access token. Only the bcrypt hash is ever stored or configured; the plain
// token lives with the caller.
type TokenConfig struct {
	BcryptCost int
	Pepper     string // optional global secret for additional security
}

// NewTokenConfig creates a token configuration from environment variables.
// It reads BCRYPT_COST (default: 12) and optionally TOKEN_PEPPER.
func NewTokenConfig() (*TokenConfig, error) {
	costStr := os.Getenv("BCRYPT_COST")
	if costStr == "" {
		costStr = "12" // default
	}

	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
	}

	config := &TokenConfig{
		BcryptCost: cost,
		Pepper:     os.Getenv("TOKEN_PEPPER"), // empty if not set
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *TokenConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	return nil
}

// HashToken hashes an access token using bcrypt (with optional pepper).
func (c *TokenConfig) HashToken(token string) (string, error) {
	secret := token
	if c.Pepper != "" {
		secret = token + c.Pepper
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}

	return string(hash), nil
}

// VerifyToken verifies an access token against a stored hash (with optional
// pepper).
func (c *TokenConfig) VerifyToken(token, storedHash string) bool {
	secret := token
	if c.Pepper != "" {
		secret = token + c.Pepper
	}

	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(secret))
	return err == nil
}
