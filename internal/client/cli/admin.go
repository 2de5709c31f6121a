package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/freelancehub/internal/client/guard"
	"github.com/iudanet/freelancehub/internal/models"
	"github.com/iudanet/freelancehub/pkg/api"
)

func (c *Cli) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administration (admins only)",
	}

	adminID := func(use, short string, fn func(ctx context.Context, id int) error) *cobra.Command {
		return c.idCmd(use, short, guard.RequireAdmin, fn)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "users",
			Short: "List all users",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.view(cmd.Context(), guard.RequireAdmin, func(ctx context.Context, _ guard.Decision) error {
					return c.runListUsers(ctx)
				})
			},
		},
		adminID("ban USER_ID", "Ban a user", func(ctx context.Context, id int) error {
			return c.setBanned(ctx, id, true)
		}),
		adminID("unban USER_ID", "Lift a ban", func(ctx context.Context, id int) error {
			return c.setBanned(ctx, id, false)
		}),
		&cobra.Command{
			Use:   "set-role USER_ID ROLE",
			Short: "Change a user's role",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				role := models.Role(args[1])
				if !role.Valid() {
					return fmt.Errorf("unknown role %q", args[1])
				}
				return c.view(cmd.Context(), guard.RequireAdmin, func(ctx context.Context, _ guard.Decision) error {
					if err := c.apiClient.AdminUpdateUser(ctx, id, api.AdminUpdateUserRequest{Role: string(role)}); err != nil {
						return err
					}
					c.io.Printf("✓ User #%d is now %s\n", id, role)
					return nil
				})
			},
		},
		adminID("delete-user USER_ID", "Delete a user", func(ctx context.Context, id int) error {
			ok, err := c.confirm(fmt.Sprintf("Delete user #%d?", id))
			if err != nil || !ok {
				return err
			}
			if err := c.apiClient.AdminDeleteUser(ctx, id); err != nil {
				return err
			}
			c.io.Printf("✓ User #%d deleted\n", id)
			return nil
		}),
		&cobra.Command{
			Use:   "add-skill NAME",
			Short: "Add a skill to the catalogue",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.view(cmd.Context(), guard.RequireAdmin, func(ctx context.Context, _ guard.Decision) error {
					skill, err := c.apiClient.CreateSkill(ctx, args[0])
					if err != nil {
						return err
					}
					c.io.Printf("✓ Skill #%d %s added\n", skill.ID, skill.Name)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "rename-skill SKILL_ID NAME",
			Short: "Rename a skill",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return c.view(cmd.Context(), guard.RequireAdmin, func(ctx context.Context, _ guard.Decision) error {
					if err := c.apiClient.UpdateSkill(ctx, id, args[1]); err != nil {
						return err
					}
					c.io.Printf("✓ Skill #%d renamed\n", id)
					return nil
				})
			},
		},
		adminID("delete-skill SKILL_ID", "Delete a skill", func(ctx context.Context, id int) error {
			if err := c.apiClient.DeleteSkill(ctx, id); err != nil {
				return err
			}
			c.io.Printf("✓ Skill #%d deleted\n", id)
			return nil
		}),
		adminID("delete-job JOB_ID", "Delete any job", func(ctx context.Context, id int) error {
			if err := c.apiClient.AdminDeleteJob(ctx, id); err != nil {
				return err
			}
			c.io.Printf("✓ Job #%d deleted\n", id)
			return nil
		}),
	)
	return cmd
}

func (c *Cli) runListUsers(ctx context.Context) error {
	users, err := c.apiClient.ListUsers(ctx)
	if err != nil {
		return err
	}

	c.io.Println("=== Users ===")
	c.io.Println()
	for _, u := range users {
		flag := ""
		if u.Banned {
			flag = " [banned]"
		}
		c.io.Printf("%4d  %-10s %s%s\n", u.ID, u.Role, u.Email, flag)
	}
	return nil
}

func (c *Cli) setBanned(ctx context.Context, id int, banned bool) error {
	if err := c.apiClient.AdminUpdateUser(ctx, id, api.AdminUpdateUserRequest{Banned: &banned}); err != nil {
		return err
	}
	if banned {
		c.io.Printf("✓ User #%d banned\n", id)
	} else {
		c.io.Printf("✓ User #%d unbanned\n", id)
	}
	return nil
}
