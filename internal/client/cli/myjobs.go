package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/freelancehub/internal/client/guard"
	"github.com/iudanet/freelancehub/internal/models"
	"github.com/iudanet/freelancehub/internal/validation"
	"github.com/iudanet/freelancehub/pkg/api"
)

// jobFlags - поля формы вакансии
type jobFlags struct {
	req api.JobRequest
}

func (f *jobFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.req.Title, "title", "", "Job title (max 30 chars)")
	fl.StringVar(&f.req.Description, "description", "", "Job description")
	fl.StringVar(&f.req.Type, "type", models.JobTypeOneTime, "ongoing | one-time")
	fl.StringVar(&f.req.Rate, "rate", models.RateFixed, "hourly | fixed")
	fl.StringVar(&f.req.Length, "length", "1-3", "Length in months: <1 | 1-3 | 3-6 | 6-12 | 12+")
	fl.StringVar(&f.req.HoursPerWeek, "hours", "10-20", "Hours per week: <10 | 10-20 | 20-40 | 40-60 | 80+")
	fl.IntVar(&f.req.Amount, "amount", 0, "Hourly rate or fixed amount")
	fl.IntSliceVar(&f.req.Skills, "skills", nil, "Skill ids")
}

// merge переносит в req поля существующей вакансии, не заданные флагами
func (f *jobFlags) merge(cmd *cobra.Command, job *models.Job) api.JobRequest {
	req := f.req
	fl := cmd.Flags()
	keep := func(name string, dst *string, v string) {
		if !fl.Changed(name) {
			*dst = v
		}
	}
	keep("title", &req.Title, job.Title)
	keep("description", &req.Description, job.Description)
	keep("type", &req.Type, job.Type)
	keep("rate", &req.Rate, job.Rate)
	keep("length", &req.Length, job.Length)
	keep("hours", &req.HoursPerWeek, job.HoursPerWeek)
	if !fl.Changed("amount") {
		req.Amount = job.Amount
	}
	if !fl.Changed("skills") {
		req.Skills = make([]int, 0, len(job.Skills))
		for _, s := range job.Skills {
			req.Skills = append(req.Skills, s.ID)
		}
	}
	return req
}

func (c *Cli) myJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "my-jobs",
		Short: "Manage the jobs you posted (clients)",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List your jobs",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.view(cmd.Context(), guard.RequireAuthenticated, func(ctx context.Context, _ guard.Decision) error {
					return c.clientDashboard(ctx)
				})
			},
		},
		c.showCmd("show JOB_ID", "Show a job with its applications", func(ctx context.Context, id int) error {
			job, err := c.apiClient.GetClientJob(ctx, id)
			if err != nil {
				return err
			}
			c.printJob(job)
			return nil
		}),
		c.createJobCmd(),
		c.editJobCmd(),
		c.showCmd("delete JOB_ID", "Delete a job", func(ctx context.Context, id int) error {
			ok, err := c.confirm(fmt.Sprintf("Delete job #%d?", id))
			if err != nil || !ok {
				return err
			}
			if err := c.apiClient.DeleteJob(ctx, id); err != nil {
				return err
			}
			c.io.Println("✓ Job deleted")
			return nil
		}),
		c.showCmd("complete JOB_ID", "Mark a job in progress as completed", func(ctx context.Context, id int) error {
			if err := c.apiClient.CompleteJob(ctx, id); err != nil {
				return err
			}
			c.io.Println("✓ Job completed")
			return nil
		}),
		c.reviewCmd(),
	)
	return cmd
}

func (c *Cli) createJobCmd() *cobra.Command {
	var f jobFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Post a new job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateJob(f.req); err != nil {
				return fmt.Errorf("invalid job: %w", err)
			}
			return c.view(cmd.Context(), guard.RequireAuthenticated, func(ctx context.Context, _ guard.Decision) error {
				job, err := c.apiClient.CreateJob(ctx, f.req)
				if err != nil {
					return err
				}
				c.io.Printf("✓ Job #%d posted\n", job.ID)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func (c *Cli) editJobCmd() *cobra.Command {
	var f jobFlags
	cmd := &cobra.Command{
		Use:   "edit JOB_ID",
		Short: "Edit an open job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.view(cmd.Context(), guard.RequireAuthenticated, func(ctx context.Context, _ guard.Decision) error {
				current, err := c.apiClient.GetClientJob(ctx, id)
				if err != nil {
					return err
				}
				req := f.merge(cmd, current)
				if err := validation.ValidateJob(req); err != nil {
					return fmt.Errorf("invalid job: %w", err)
				}
				if _, err := c.apiClient.UpdateJob(ctx, id, req); err != nil {
					return err
				}
				c.io.Printf("✓ Job #%d updated\n", id)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func (c *Cli) reviewCmd() *cobra.Command {
	var req api.ReviewApplicationRequest
	cmd := &cobra.Command{
		Use:   "review APPLICATION_ID",
		Short: "Accept or reject an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := validation.ValidateReview(req); err != nil {
				return fmt.Errorf("invalid review: %w", err)
			}
			return c.view(cmd.Context(), guard.RequireAuthenticated, func(ctx context.Context, _ guard.Decision) error {
				if err := c.apiClient.ReviewApplication(ctx, id, req); err != nil {
					return err
				}
				c.io.Printf("✓ Application #%d %s\n", id, req.Status)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Status, "status", "", "accepted | rejected")
	cmd.Flags().StringVar(&req.RejectionReason, "reason", "", "Rejection reason")
	return cmd
}
