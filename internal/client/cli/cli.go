// Package cli renders the terminal views of the marketplace. Every view runs
// behind a route guard.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/iudanet/freelancehub/internal/client/api"
	"github.com/iudanet/freelancehub/internal/client/auth"
	"github.com/iudanet/freelancehub/internal/client/guard"
	"github.com/iudanet/freelancehub/internal/client/iocli"
)

// EnvPassword - переменная окружения с паролем для login
const EnvPassword = "FREELANCEHUB_PASSWORD"

// Cli содержит зависимости views
type Cli struct {
	io          iocli.IO
	authService auth.Service
	apiClient   *api.Client
	guard       *guard.Guard
	logger      *slog.Logger
	getenv      func(string) string
}

// New создает набор views
func New(io iocli.IO, authService auth.Service, apiClient *api.Client, g *guard.Guard, logger *slog.Logger) *Cli {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cli{
		io:          io,
		authService: authService,
		apiClient:   apiClient,
		guard:       g,
		logger:      logger,
		getenv:      os.Getenv,
	}
}

// Passwords - источники пароля кроме интерактивного ввода
type Passwords struct {
	FromFile string
	FromArgs string
}

// getPassword reads a password from, in priority order:
// 1. Environment variable FREELANCEHUB_PASSWORD
// 2. File passwords.FromFile
// 3. Command-line parameter passwords.FromArgs
// 4. Interactive prompt (fallback)
func (c *Cli) getPassword(passwords Passwords, prompt string) (string, error) {
	if envPassword := c.getenv(EnvPassword); envPassword != "" {
		return envPassword, nil
	}

	if passwords.FromFile != "" {
		content, err := os.ReadFile(passwords.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	if passwords.FromArgs != "" {
		return passwords.FromArgs, nil
	}

	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

// view renders fn only if the guard grants req
func (c *Cli) view(ctx context.Context, req guard.Requirement, fn func(ctx context.Context, d guard.Decision) error) error {
	_, err := c.guard.Gate(ctx, req, fn)
	return err
}

// confirm asks a yes/no question; only "y" and "yes" count as yes
func (c *Cli) confirm(prompt string) (bool, error) {
	answer, err := c.io.ReadInput(prompt + " [y/N]: ")
	if err != nil {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
