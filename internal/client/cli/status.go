package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/freelancehub/internal/client/guard"
)

func (c *Cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the local session state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.view(cmd.Context(), guard.RequireNone, func(ctx context.Context, _ guard.Decision) error {
				return c.runStatus(ctx)
			})
		},
	}
}

// runStatus shows what is stored locally, without asking the server
func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Session Status ===")
	c.io.Println()

	snap, err := c.authService.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	if !snap.Authenticated() {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'freelancehub login' to authenticate.")
		return nil
	}

	c.io.Println("Status: Authenticated")
	if snap.Role != "" {
		c.io.Printf("Role:   %s\n", snap.Role)
		c.io.Printf("Home:   %s\n", snap.Role.Dashboard())
	}
	return nil
}
