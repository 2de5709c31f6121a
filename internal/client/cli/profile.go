package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/freelancehub/internal/client/guard"
	"github.com/iudanet/freelancehub/internal/models"
	"github.com/iudanet/freelancehub/internal/validation"
	"github.com/iudanet/freelancehub/pkg/api"
)

func (c *Cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and edit your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.view(cmd.Context(), guard.RequireAuthenticated, func(ctx context.Context, _ guard.Decision) error {
				return c.runProfile(ctx)
			})
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "email NEW_EMAIL",
			Short: "Change your email",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.view(cmd.Context(), guard.RequireAuthenticated, func(ctx context.Context, _ guard.Decision) error {
					return c.runChangeEmail(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "password",
			Short: "Change your password",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.view(cmd.Context(), guard.RequireAuthenticated, func(ctx context.Context, _ guard.Decision) error {
					return c.runChangePassword(ctx)
				})
			},
		},
		c.profileClientCmd(),
		c.profileFreelancerCmd(),
		c.profileSkillCmd("add-skill", "Add a skill to your freelancer profile", true),
		c.profileSkillCmd("remove-skill", "Remove a skill from your freelancer profile", false),
		&cobra.Command{
			Use:   "delete",
			Short: "Delete your account",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.view(cmd.Context(), guard.RequireAuthenticated, func(ctx context.Context, _ guard.Decision) error {
					return c.runDeleteAccount(ctx)
				})
			},
		},
	)
	return cmd
}

func (c *Cli) runProfile(ctx context.Context) error {
	user, err := c.apiClient.GetUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	c.io.Println("=== Profile ===")
	c.io.Println()
	c.io.Printf("ID:      %d\n", user.ID)
	c.io.Printf("Email:   %s\n", user.Email)
	c.io.Printf("Role:    %s\n", user.Role)
	if user.Name != "" || user.Surname != "" {
		c.io.Printf("Name:    %s %s\n", user.Name, user.Surname)
	}

	if cd := user.ClientData; cd != nil {
		printField(c, "Company", cd.CompanyName)
		printField(c, "Industry", cd.Industry)
		printField(c, "Location", cd.Location)
		printField(c, "About", cd.Description)
	}
	if fd := user.FreelancerData; fd != nil {
		printField(c, "Title", fd.Title)
		printField(c, "About", fd.Description)
		printField(c, "Work", fd.WorkType)
		if fd.HourlyRate > 0 {
			c.io.Printf("Rate:    %.2f/h\n", fd.HourlyRate)
		}
		if fd.HoursPerWeek > 0 {
			c.io.Printf("Hours:   %d/week\n", fd.HoursPerWeek)
		}
		if len(fd.Skills) > 0 {
			c.io.Printf("Skills:  %s\n", skillNames(fd.Skills))
		}
	}
	return nil
}

func (c *Cli) runChangeEmail(ctx context.Context, email string) error {
	if err := validation.ValidateEmail(email); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}
	resp, err := c.apiClient.UpdateUser(ctx, api.UpdateUserRequest{Email: email})
	if err != nil {
		return err
	}
	c.io.Printf("✓ %s\n", resp.Message)
	return nil
}

func (c *Cli) runChangePassword(ctx context.Context) error {
	current, err := c.io.ReadPassword("Current password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	next, err := c.io.ReadPassword("New password (min 8 chars): ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if err := validation.ValidatePassword(next); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	resp, err := c.apiClient.UpdateUser(ctx, api.UpdateUserRequest{Password: current, NewPassword: next})
	if err != nil {
		return err
	}
	c.io.Printf("✓ %s\n", resp.Message)
	return nil
}

func (c *Cli) profileClientCmd() *cobra.Command {
	var req api.ClientDataRequest
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Update your client profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := flagStrings(cmd, map[string]**string{
				"name":        &req.Name,
				"surname":     &req.Surname,
				"company":     &req.CompanyName,
				"industry":    &req.Industry,
				"location":    &req.Location,
				"description": &req.Description,
			})
			if !changed {
				return fmt.Errorf("nothing to update")
			}
			return c.view(cmd.Context(), guard.RequireAuthenticated, func(ctx context.Context, _ guard.Decision) error {
				resp, err := c.apiClient.UpdateClientData(ctx, req)
				if err != nil {
					return err
				}
				c.io.Printf("✓ %s\n", resp.Message)
				return nil
			})
		},
	}
	for _, name := range []string{"name", "surname", "company", "industry", "location", "description"} {
		cmd.Flags().String(name, "", "New "+name)
	}
	return cmd
}

func (c *Cli) profileFreelancerCmd() *cobra.Command {
	var (
		req   api.FreelancerDataRequest
		rate  float64
		hours int
	)
	cmd := &cobra.Command{
		Use:   "freelancer",
		Short: "Update your freelancer profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := flagStrings(cmd, map[string]**string{
				"name":        &req.Name,
				"surname":     &req.Surname,
				"title":       &req.Title,
				"description": &req.Description,
				"work-type":   &req.WorkType,
			})
			if cmd.Flags().Changed("rate") {
				req.HourlyRate = &rate
				changed = true
			}
			if cmd.Flags().Changed("hours") {
				req.HoursPerWeek = &hours
				changed = true
			}
			if !changed {
				return fmt.Errorf("nothing to update")
			}
			return c.view(cmd.Context(), guard.RequireAuthenticated, func(ctx context.Context, _ guard.Decision) error {
				resp, err := c.apiClient.UpdateFreelancerData(ctx, req)
				if err != nil {
					return err
				}
				c.io.Printf("✓ %s\n", resp.Message)
				return nil
			})
		},
	}
	for _, name := range []string{"name", "surname", "title", "description", "work-type"} {
		cmd.Flags().String(name, "", "New "+name)
	}
	cmd.Flags().Float64Var(&rate, "rate", 0, "Hourly rate")
	cmd.Flags().IntVar(&hours, "hours", 0, "Hours per week")
	return cmd
}

func (c *Cli) profileSkillCmd(use, short string, add bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " SKILL_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.view(cmd.Context(), guard.RequireAuthenticated, func(ctx context.Context, _ guard.Decision) error {
				if add {
					err = c.apiClient.AddFreelancerSkill(ctx, id)
				} else {
					err = c.apiClient.RemoveFreelancerSkill(ctx, id)
				}
				if err != nil {
					return err
				}
				c.io.Println("✓ Skills updated")
				return nil
			})
		},
	}
}

func (c *Cli) runDeleteAccount(ctx context.Context) error {
	ok, err := c.confirm("Delete your account permanently?")
	if err != nil {
		return err
	}
	if !ok {
		c.io.Println("Cancelled.")
		return nil
	}

	if err := c.authService.DeleteAccount(ctx); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	c.io.Println("✓ Account deleted")
	return nil
}

// flagStrings копирует измененные строковые флаги в поля запроса
func flagStrings(cmd *cobra.Command, fields map[string]**string) bool {
	changed := false
	for name, dst := range fields {
		if !cmd.Flags().Changed(name) {
			continue
		}
		value, err := cmd.Flags().GetString(name)
		if err != nil {
			continue
		}
		*dst = &value
		changed = true
	}
	return changed
}

func printField(c *Cli, label, value string) {
	if value != "" {
		c.io.Printf("%-8s %s\n", label+":", value)
	}
}

func skillNames(skills []models.Skill) string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, fmt.Sprintf("%s (#%d)", s.Name, s.ID))
	}
	return strings.Join(names, ", ")
}
