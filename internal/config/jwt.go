package config

import (
	"fmt"
	"os"
	"strconv"
)

// defaultJWTIssuer is used when JWT_ISSUER is unset.
const defaultJWTIssuer = "profile-optimizer"

// JWTConfig holds configuration for JWT token validation.
type JWTConfig struct {
	Secret          string
	Issuer          string
	ExpirationHours int
}

// NewJWTConfig creates a new JWT configuration from environment variables.
// It reads JWT_SECRET (required), JWT_ISSUER (default: profile-optimizer)
// and JWT_EXPIRATION_HOURS (default: 24).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, configErr("JWT_SECRET", "required but not set")
	}

	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = defaultJWTIssuer
	}

	expirationStr := os.Getenv("JWT_EXPIRATION_HOURS")
	if expirationStr == "" {
		expirationStr = "24"
	}
	expirationHours, err := strconv.Atoi(expirationStr)
	if err != nil {
		return nil, &ConfigurationError{Field: "JWT_EXPIRATION_HOURS", Message: "not an integer", Cause: err}
	}

	cfg := &JWTConfig{
		Secret:          secret,
		Issuer:          issuer,
		ExpirationHours: expirationHours,
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *JWTConfig) normalize() error {
	if len(c.Secret) < 16 {
		return configErr("JWT_SECRET", "must be at least 16 characters")
	}
	if c.ExpirationHours < 1 {
		return configErr("JWT_EXPIRATION_HOURS", "must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}

// String hides the secret.
func (c *JWTConfig) String() string {
	return fmt.Sprintf("JWTConfig{Issuer: %s, ExpirationHours: %d}", c.Issuer, c.ExpirationHours)
}
