package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// maxParentLevels bounds the upward search for .env and go.mod.
const maxParentLevels = 6

// LoadDotEnv loads variables from a .env file. Explicit paths are loaded
// as given; otherwise the working directory is tried first, then its
// parents up to the project root (the first directory holding go.mod).
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) > 0 {
		return godotenv.Load(paths...)
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	dir := wd
	for range maxParentLevels {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			return godotenv.Load(envPath)
		}
		if isProjectRoot(dir) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return os.ErrNotExist
}

// FindProjectRoot walks up from start until it finds a directory holding go.mod.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if isProjectRoot(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("project root not found")
		}
		dir = parent
	}
}

func isProjectRoot(dir string) bool {
	fi, err := os.Stat(filepath.Join(dir, "go.mod"))
	return err == nil && !fi.IsDir()
}

// GetEnv returns the environment variable value if set, or the default.
func GetEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// EnvEnabled reports whether key holds a truthy value ("1", "true", "yes", "on").
func EnvEnabled(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
