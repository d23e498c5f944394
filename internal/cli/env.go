// Package cli holds the pieces shared by the gemt and gems commands.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/msh-shiplu/GEM/internal/client"
	"github.com/msh-shiplu/GEM/internal/config"
	"github.com/msh-shiplu/GEM/internal/domain"
)

// Env is the loaded state of one command invocation
type Env struct {
	Role    domain.Role
	Config  *config.LocalConfig
	Logger  *slog.Logger
	Dir     string
	In      *bufio.Reader
	Out     io.Writer
	logFile *os.File
}

// Load reads .env, the role's config and secrets, applies environment
// overrides and starts logging to ~/.gem/logs/<prog>.log.
func Load(role domain.Role, prog string) (*Env, error) {
	if err := config.LoadEnvFile(".env"); err != nil {
		return nil, err
	}

	dir, err := config.EnsureGemDir()
	if err != nil {
		return nil, fmt.Errorf("ensure gem dir: %w", err)
	}

	cfg, err := config.LoadLocalConfig(role)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	logFile, err := os.OpenFile(filepath.Join(dir, "logs", prog+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger := NewLogger(logFile, os.Stderr, ParseLogLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	return &Env{
		Role:    role,
		Config:  cfg,
		Logger:  logger,
		Dir:     dir,
		In:      bufio.NewReader(os.Stdin),
		Out:     os.Stdout,
		logFile: logFile,
	}, nil
}

// Close flushes the log file
func (e *Env) Close() error {
	if e.logFile != nil {
		return e.logFile.Close()
	}
	return nil
}

// Client builds a server client for the loaded config
func (e *Env) Client() *client.Client {
	return client.New(e.Config, client.WithLogger(e.Logger))
}

// Save writes the config back to disk
func (e *Env) Save() error {
	return config.SaveLocalConfig(e.Config)
}

// Prompt asks for a line of input, offering def when the answer is empty.
func (e *Env) Prompt(label, def string) string {
	if def != "" {
		fmt.Fprintf(e.Out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(e.Out, "%s: ", label)
	}
	line, _ := e.In.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

// Confirm asks a yes/no question; anything but y or yes is no.
func (e *Env) Confirm(question string) bool {
	fmt.Fprintf(e.Out, "%s [y/N]: ", question)
	line, _ := e.In.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// SplitFlags removes -y/--yes from args and reports whether it was present.
func SplitFlags(args []string) (rest []string, yes bool) {
	for _, a := range args {
		switch a {
		case "-y", "--yes":
			yes = true
		default:
			rest = append(rest, a)
		}
	}
	return rest, yes
}
