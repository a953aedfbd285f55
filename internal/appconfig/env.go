package appconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// APIKeyEnv is the environment variable holding the Gemini API key.
const APIKeyEnv = "GOOGLE_API_KEY"

// ErrMissingAPIKey is returned when GOOGLE_API_KEY is absent from both the environment and .env.
var ErrMissingAPIKey = errors.New(APIKeyEnv + " not found in environment or .env file")

// FindDotEnv walks from dir towards the filesystem root and returns the first .env file found.
func FindDotEnv(dir string) (string, bool) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", false
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, ".env")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadDotEnv loads the nearest .env file into the process environment.
// Variables already present in the environment are not overridden.
// It returns the loaded path, or "" when no .env file exists.
func LoadDotEnv(dir string) (string, error) {
	path, ok := FindDotEnv(dir)
	if !ok {
		return "", nil
	}
	if err := godotenv.Load(path); err != nil {
		return "", fmt.Errorf("load %s: %w", path, err)
	}
	return path, nil
}

// RequireAPIKey returns GOOGLE_API_KEY or ErrMissingAPIKey.
func RequireAPIKey() (string, error) {
	key := strings.TrimSpace(os.Getenv(APIKeyEnv))
	if key == "" {
		return "", ErrMissingAPIKey
	}
	return key, nil
}
