package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/freelancehub/internal/client/guard"
	"github.com/iudanet/freelancehub/internal/models"
)

func (c *Cli) jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Browse open jobs",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List open jobs",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.view(cmd.Context(), guard.RequireAuthenticated, func(ctx context.Context, _ guard.Decision) error {
					jobs, err := c.apiClient.ListJobs(ctx)
					if err != nil {
						return err
					}
					c.io.Println("=== Jobs ===")
					c.io.Println()
					if len(jobs) == 0 {
						c.io.Println("No open jobs.")
						return nil
					}
					c.printJobs(jobs)
					return nil
				})
			},
		},
		c.showCmd("show JOB_ID", "Show a job", func(ctx context.Context, id int) error {
			job, err := c.apiClient.GetJob(ctx, id)
			if err != nil {
				return err
			}
			c.printJob(job)
			return nil
		}),
	)
	return cmd
}

func (c *Cli) profilesCmd(use, short string, list func(context.Context) ([]models.PublicProfile, error), get func(context.Context, int) (*models.PublicProfile, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.view(cmd.Context(), guard.RequireAuthenticated, func(ctx context.Context, _ guard.Decision) error {
					profiles, err := list(ctx)
					if err != nil {
						return err
					}
					c.printProfiles(profiles)
					return nil
				})
			},
		},
		c.showCmd("show ID", "Show a profile", func(ctx context.Context, id int) error {
			p, err := get(ctx, id)
			if err != nil {
				return err
			}
			c.printProfiles([]models.PublicProfile{*p})
			return nil
		}),
	)
	return cmd
}

func (c *Cli) skillsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skills",
		Short: "List the skill catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.view(cmd.Context(), guard.RequireAuthenticated, func(ctx context.Context, _ guard.Decision) error {
				skills, err := c.apiClient.ListSkills(ctx)
				if err != nil {
					return err
				}
				c.io.Println("=== Skills ===")
				for _, s := range skills {
					c.io.Printf("%4d  %s\n", s.ID, s.Name)
				}
				return nil
			})
		},
	}
}

// showCmd - команда с одним числовым аргументом за RequireAuthenticated
func (c *Cli) showCmd(use, short string, fn func(ctx context.Context, id int) error) *cobra.Command {
	return c.idCmd(use, short, guard.RequireAuthenticated, fn)
}

func (c *Cli) idCmd(use, short string, req guard.Requirement, fn func(ctx context.Context, id int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", cmd.Name(), err)
			}
			return c.view(cmd.Context(), req, func(ctx context.Context, _ guard.Decision) error {
				return fn(ctx, id)
			})
		},
	}
}
