package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort int
	AppEnv     string

	// Hosted row-store access.
	SupabaseURL     string // REST root, e.g. https://<project>.supabase.co/rest/v1
	SupabaseAnonKey string

	// Token signing.
	JWTSecret    string
	JWTExpiresIn time.Duration
	JWTMaxAge    int // cookie max-age, seconds
}

// Load loads configuration from environment variables. Values without a
// default are required and abort startup when missing.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	supabaseURL, err := requireEnv("SUPABASE_URL")
	if err != nil {
		return nil, err
	}
	supabaseKey, err := requireEnv("SUPABASE_ANON_KEY")
	if err != nil {
		return nil, err
	}
	jwtSecret, err := requireEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}

	expiresStr := getEnv("JWT_EXPIRES_IN", "60m")
	expiresIn, err := time.ParseDuration(expiresStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN %q: %w", expiresStr, err)
	}

	maxAgeStr := getEnv("JWT_MAXAGE", "3600")
	maxAge, err := strconv.Atoi(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_MAXAGE %q: %w", maxAgeStr, err)
	}

	return &Config{
		ServerPort:      port,
		AppEnv:          getEnv("APP_ENV", "development"),
		SupabaseURL:     supabaseURL,
		SupabaseAnonKey: supabaseKey,
		JWTSecret:       jwtSecret,
		JWTExpiresIn:    expiresIn,
		JWTMaxAge:       maxAge,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func requireEnv(key string) (string, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return "", fmt.Errorf("%s must be set", key)
	}
	return value, nil
}
