package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment overrides, usually placed in a .env file next to the course files.
const (
	EnvServer   = "GEM_SERVER"
	EnvFolder   = "GEM_FOLDER"
	EnvTimeout  = "GEM_TIMEOUT"
	EnvLogLevel = "GEM_LOG_LEVEL"
)

// LoadEnvFile loads variables from a .env file. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// ApplyEnv overlays environment overrides onto the config
func ApplyEnv(cfg *LocalConfig) error {
	if server := getEnv(EnvServer, ""); server != "" {
		if err := cfg.SetServer(server); err != nil {
			return fmt.Errorf("%s: %w", EnvServer, err)
		}
	}
	cfg.Folder = getEnv(EnvFolder, cfg.Folder)
	cfg.TimeoutSeconds = getEnvInt(EnvTimeout, cfg.TimeoutSeconds)
	cfg.LogLevel = getEnv(EnvLogLevel, cfg.LogLevel)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
