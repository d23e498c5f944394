package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/msh-shiplu/GEM/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultTimeoutSeconds bounds every request to the GEM server
	DefaultTimeoutSeconds = 7
	// StudentServerPlaceholder is offered when a student first sets the server
	StudentServerPlaceholder = "http://x.x.x.x:8080"
)

// LocalConfig holds the settings of one client role
type LocalConfig struct {
	Role           domain.Role `yaml:"-"`
	Server         string      `yaml:"server"`
	NameServer     string      `yaml:"name_server,omitempty"`
	CourseID       string      `yaml:"course_id,omitempty"`
	Folder         string      `yaml:"folder"`
	Name           string      `yaml:"name,omitempty"`
	Uid            int         `yaml:"uid,omitempty"`
	TimeoutSeconds int         `yaml:"timeout_seconds"`
	LogLevel       string      `yaml:"log_level"`
	Password       string      `yaml:"-"` // Loaded from <role>.secrets.yaml
}

// SecretsConfig holds the password loaded from <role>.secrets.yaml
type SecretsConfig struct {
	Password string `yaml:"password"`
}

// GemDir returns the path to ~/.gem
func GemDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".gem"), nil
}

// EnsureGemDir creates ~/.gem and its subdirectories if they don't exist
func EnsureGemDir() (string, error) {
	dir, err := GemDir()
	if err != nil {
		return "", err
	}

	for _, subdir := range []string{"", "logs"} {
		path := filepath.Join(dir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", fmt.Errorf("create dir %s: %w", path, err)
		}
	}

	return dir, nil
}

// DefaultFolder is the working folder suggested for a role
func DefaultFolder(role domain.Role) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	if role == domain.RoleTeacher {
		return filepath.Join(home, "GEMT")
	}
	return filepath.Join(home, "GEM")
}

// DefaultLocalConfig returns an unconfigured config for a role
func DefaultLocalConfig(role domain.Role) *LocalConfig {
	return &LocalConfig{
		Role:           role,
		TimeoutSeconds: DefaultTimeoutSeconds,
		LogLevel:       "info",
	}
}

// LoadLocalConfig loads ~/.gem/<role>.yaml, returning defaults when it is missing
func LoadLocalConfig(role domain.Role) (*LocalConfig, error) {
	dir, err := GemDir()
	if err != nil {
		return nil, err
	}
	return loadFrom(dir, role)
}

func loadFrom(dir string, role domain.Role) (*LocalConfig, error) {
	cfg := DefaultLocalConfig(role)
	configPath := filepath.Join(dir, string(role)+".yaml")

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Role = role
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}

	if err := loadSecrets(dir, cfg); err != nil {
		return nil, fmt.Errorf("load secrets: %w", err)
	}

	return cfg, nil
}

// loadSecrets loads the password from <role>.secrets.yaml
func loadSecrets(dir string, cfg *LocalConfig) error {
	secretsPath := filepath.Join(dir, string(cfg.Role)+".secrets.yaml")

	data, err := os.ReadFile(secretsPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read secrets: %w", err)
	}

	var secrets SecretsConfig
	if err := yaml.Unmarshal(data, &secrets); err != nil {
		return fmt.Errorf("parse secrets: %w", err)
	}
	cfg.Password = secrets.Password

	return nil
}

// SaveLocalConfig saves the config to ~/.gem/<role>.yaml and the password
// to ~/.gem/<role>.secrets.yaml
func SaveLocalConfig(cfg *LocalConfig) error {
	dir, err := EnsureGemDir()
	if err != nil {
		return err
	}
	return saveTo(dir, cfg)
}

func saveTo(dir string, cfg *LocalConfig) error {
	if cfg.Role == "" {
		return fmt.Errorf("config has no role")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, string(cfg.Role)+".yaml"), data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if cfg.Password == "" {
		return nil
	}

	secrets, err := yaml.Marshal(SecretsConfig{Password: cfg.Password})
	if err != nil {
		return fmt.Errorf("marshal secrets: %w", err)
	}
	// Owner read/write only
	if err := os.WriteFile(filepath.Join(dir, string(cfg.Role)+".secrets.yaml"), secrets, 0600); err != nil {
		return fmt.Errorf("write secrets: %w", err)
	}

	return nil
}

// NormalizeAddress trims an address and adds the http:// scheme when missing.
func NormalizeAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", fmt.Errorf("server address cannot be empty")
	}
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return addr, nil
}

// SetServer validates and stores the server address
func (c *LocalConfig) SetServer(addr string) error {
	normalized, err := NormalizeAddress(addr)
	if err != nil {
		return err
	}
	c.Server = normalized
	return nil
}

// SetFolder stores the working folder, creating it when needed. It reports
// whether the folder already existed.
func (c *LocalConfig) SetFolder(folder string) (existed bool, err error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return false, fmt.Errorf("folder name cannot be empty")
	}

	info, err := os.Stat(folder)
	switch {
	case err == nil && !info.IsDir():
		return false, fmt.Errorf("%s is not a directory", folder)
	case err == nil:
		existed = true
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(folder, 0755); err != nil {
			return false, fmt.Errorf("could not create %s: %w", folder, err)
		}
	default:
		return false, fmt.Errorf("stat %s: %w", folder, err)
	}

	c.Folder = folder
	return existed, nil
}

// ApplyRegistration stores server-assigned credentials
func (c *LocalConfig) ApplyRegistration(name string, reg domain.Registration) {
	c.Name = strings.TrimSpace(name)
	c.Uid = reg.Uid
	c.Password = strings.TrimSpace(reg.Password)
	if reg.CourseID != "" {
		c.CourseID = strings.TrimSpace(reg.CourseID)
	}
	if reg.NameServer != "" {
		c.NameServer = reg.NameServer
	}
}

// Registered reports whether credentials are present
func (c *LocalConfig) Registered() bool {
	return c.Name != "" && c.Password != "" && c.Uid != 0
}

// Timeout returns the per-request timeout
func (c *LocalConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
