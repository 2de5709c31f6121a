package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/freelancehub/internal/client/guard"
)

func (c *Cli) loginCmd() *cobra.Command {
	var (
		email     string
		passwords Passwords
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the marketplace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.view(cmd.Context(), guard.RequireNone, func(ctx context.Context, _ guard.Decision) error {
				return c.runLogin(ctx, email, passwords)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if empty)")
	cmd.Flags().StringVar(&passwords.FromArgs, "password", "", "Password (not recommended, use env var or file)")
	cmd.Flags().StringVar(&passwords.FromFile, "password-file", "", "Path to file containing the password")
	return cmd
}

func (c *Cli) runLogin(ctx context.Context, email string, passwords Passwords) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	if email == "" {
		var err error
		email, err = c.io.ReadInput("Email: ")
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}
	email = strings.TrimSpace(email)

	password, err := c.getPassword(passwords, "Password: ")
	if err != nil {
		return err
	}

	result, err := c.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Email: %s\n", result.Email)
	c.io.Printf("Role:  %s\n", result.Role)
	c.io.Printf("→ %s\n", result.Dashboard)
	return nil
}
