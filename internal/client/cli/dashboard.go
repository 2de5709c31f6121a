package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/freelancehub/internal/client/guard"
	"github.com/iudanet/freelancehub/internal/models"
)

func (c *Cli) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the dashboard for your role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.view(cmd.Context(), guard.RequireAuthenticated, c.runDashboard)
		},
	}
}

// runDashboard routes by role: admin, client, anything else - freelancer
func (c *Cli) runDashboard(ctx context.Context, d guard.Decision) error {
	switch d.Role {
	case models.RoleAdmin:
		return c.adminDashboard(ctx)
	case models.RoleClient:
		return c.clientDashboard(ctx)
	default:
		return c.freelancerDashboard(ctx)
	}
}

func (c *Cli) adminDashboard(ctx context.Context) error {
	c.io.Println("=== Admin Dashboard ===")
	c.io.Println()

	users, err := c.apiClient.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}
	skills, err := c.apiClient.ListSkills(ctx)
	if err != nil {
		return fmt.Errorf("failed to load skills: %w", err)
	}

	banned := 0
	for _, u := range users {
		if u.Banned {
			banned++
		}
	}
	c.io.Printf("Users:  %d (%d banned)\n", len(users), banned)
	c.io.Printf("Skills: %d\n", len(skills))
	c.io.Println()
	c.io.Println("Use 'freelancehub admin --help' to manage users, skills and jobs.")
	return nil
}

func (c *Cli) clientDashboard(ctx context.Context) error {
	c.io.Println("=== Client Dashboard ===")
	c.io.Println()

	jobs, err := c.apiClient.ListClientJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load jobs: %w", err)
	}
	if len(jobs) == 0 {
		c.io.Println("You have not posted any jobs yet.")
		c.io.Println("Use 'freelancehub my-jobs create' to post one.")
		return nil
	}
	c.printJobs(jobs)
	return nil
}

func (c *Cli) freelancerDashboard(ctx context.Context) error {
	c.io.Println("=== Freelancer Dashboard ===")
	c.io.Println()

	apps, err := c.apiClient.ListApplications(ctx)
	if err != nil {
		return fmt.Errorf("failed to load applications: %w", err)
	}
	if len(apps) == 0 {
		c.io.Println("You have no applications yet.")
		c.io.Println("Use 'freelancehub jobs list' to find work.")
		return nil
	}
	c.printApplications(apps)
	return nil
}
