package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/freelancehub/internal/client/auth"
	"github.com/iudanet/freelancehub/internal/client/guard"
)

func (c *Cli) registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a client or freelancer account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.view(cmd.Context(), guard.RequireNone, func(ctx context.Context, _ guard.Decision) error {
				return c.runRegister(ctx)
			})
		},
	}
}

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	var input auth.RegisterInput
	prompts := []struct {
		dst    *string
		prompt string
	}{
		{&input.Email, "Email: "},
		{&input.Name, "Name: "},
		{&input.Surname, "Surname: "},
		{&input.Role, "Role (client/freelancer): "},
	}
	for _, p := range prompts {
		value, err := c.io.ReadInput(p.prompt)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		*p.dst = strings.TrimSpace(value)
	}
	input.Role = strings.ToLower(input.Role)

	password, err := c.io.ReadPassword("Password (min 8 chars): ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	confirmPassword, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if password != confirmPassword {
		return fmt.Errorf("passwords do not match")
	}
	input.Password = password

	result, err := c.authService.Register(ctx, input)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("Email: %s\n", result.Email)
	c.io.Printf("Role:  %s\n", result.Role)
	c.io.Printf("→ %s\n", result.Dashboard)
	return nil
}
