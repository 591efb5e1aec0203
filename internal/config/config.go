// Package config loads environment configuration for the chordbook
// binaries. A .env file is honored when present; required variables that
// are still missing afterwards are an error.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Env is the loaded set of environment variables, keyed by name.
type Env map[string]string

// Load reads .env (if any) and collects the required variables. It returns
// an error naming the first variable that is missing or empty.
func Load(required ...string) (Env, error) {
	_ = godotenv.Load()

	env := make(Env, len(required))
	for _, key := range required {
		value := os.Getenv(key)
		if value == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", key)
		}
		env[key] = value
	}
	return env, nil
}

// Optional returns the value of a variable, or fallback when unset.
func Optional(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
