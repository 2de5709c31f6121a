package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/freelancehub/internal/client/guard"
	"github.com/iudanet/freelancehub/internal/models"
	"github.com/iudanet/freelancehub/pkg/api"
)

func (c *Cli) applicationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "applications",
		Short: "Manage your job applications (freelancers)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List your applications",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.view(cmd.Context(), guard.RequireAuthenticated, func(ctx context.Context, _ guard.Decision) error {
					return c.freelancerDashboard(ctx)
				})
			},
		},
		c.showCmd("show APPLICATION_ID", "Show an application", func(ctx context.Context, id int) error {
			app, err := c.apiClient.GetApplication(ctx, id)
			if err != nil {
				return err
			}
			c.io.Printf("=== Application #%d ===\n", app.ID)
			c.io.Println()
			c.printApplications([]models.Application{*app})
			c.io.Println(app.Description)
			return nil
		}),
		c.applyCmd(),
		c.editApplicationCmd(),
		c.showCmd("delete APPLICATION_ID", "Withdraw an application", func(ctx context.Context, id int) error {
			ok, err := c.confirm(fmt.Sprintf("Withdraw application #%d?", id))
			if err != nil || !ok {
				return err
			}
			if err := c.apiClient.DeleteApplication(ctx, id); err != nil {
				return err
			}
			c.io.Println("✓ Application withdrawn")
			return nil
		}),
	)
	return cmd
}

func (c *Cli) applyCmd() *cobra.Command {
	var description, file string
	cmd := &cobra.Command{
		Use:   "apply JOB_ID",
		Short: "Apply to a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseID(args[0])
			if err != nil {
				return err
			}
			req, err := applicationRequest(description, file)
			if err != nil {
				return err
			}
			req.JobID = jobID
			return c.view(cmd.Context(), guard.RequireAuthenticated, func(ctx context.Context, _ guard.Decision) error {
				app, err := c.apiClient.Apply(ctx, req)
				if err != nil {
					return err
				}
				c.io.Printf("✓ Application #%d sent\n", app.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Cover letter")
	cmd.Flags().StringVar(&file, "file", "", "Attachment (e.g. a CV in PDF)")
	return cmd
}

func (c *Cli) editApplicationCmd() *cobra.Command {
	var description, file string
	cmd := &cobra.Command{
		Use:   "edit APPLICATION_ID",
		Short: "Edit a pending application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			req, err := applicationRequest(description, file)
			if err != nil {
				return err
			}
			return c.view(cmd.Context(), guard.RequireAuthenticated, func(ctx context.Context, _ guard.Decision) error {
				if _, err := c.apiClient.UpdateApplication(ctx, id, req); err != nil {
					return err
				}
				c.io.Printf("✓ Application #%d updated\n", id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Cover letter")
	cmd.Flags().StringVar(&file, "file", "", "Replace the attachment")
	return cmd
}

func applicationRequest(description, file string) (api.ApplicationRequest, error) {
	req := api.ApplicationRequest{Description: strings.TrimSpace(description)}
	if req.Description == "" {
		return req, fmt.Errorf("description is required")
	}
	if file == "" {
		return req, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return req, fmt.Errorf("failed to read attachment: %w", err)
	}
	req.FileName = filepath.Base(file)
	req.FileBase64 = base64.StdEncoding.EncodeToString(data)
	return req, nil
}
