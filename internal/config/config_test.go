package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/msh-shiplu/GEM/internal/domain"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{"returns default when not set", "GEM_TEST_KEY_UNSET", "default", "", "default"},
		{"returns env value when set", "GEM_TEST_KEY_SET", "default", "custom", "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue int
		envValue     string
		want         int
	}{
		{"returns default when not set", "GEM_TEST_INT_UNSET", 7, "", 7},
		{"parses valid int", "GEM_TEST_INT_VALID", 7, "15", 15},
		{"returns default on invalid int", "GEM_TEST_INT_INVALID", 7, "soon", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnvInt(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvInt(%q, %d) = %d, want %d", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvServer, "10.0.0.5:8080")
	t.Setenv(EnvFolder, "/tmp/gem-work")
	t.Setenv(EnvTimeout, "12")

	cfg := DefaultLocalConfig(domain.RoleStudent)
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	if cfg.Server != "http://10.0.0.5:8080" {
		t.Errorf("Server = %q, want http://10.0.0.5:8080", cfg.Server)
	}
	if cfg.Folder != "/tmp/gem-work" {
		t.Errorf("Folder = %q, want /tmp/gem-work", cfg.Folder)
	}
	if cfg.TimeoutSeconds != 12 {
		t.Errorf("TimeoutSeconds = %d, want 12", cfg.TimeoutSeconds)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()

	if err := LoadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("LoadEnvFile() should ignore a missing file: %v", err)
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("GEM_TEST_FROM_DOTENV=classroom\n"), 0644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("GEM_TEST_FROM_DOTENV") })

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("GEM_TEST_FROM_DOTENV"); got != "classroom" {
		t.Errorf("GEM_TEST_FROM_DOTENV = %q, want classroom", got)
	}
}
