package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iudanet/freelancehub/internal/models"
	"github.com/iudanet/freelancehub/pkg/api"
)

// ListUsers возвращает всех пользователей (admin)
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.call(ctx, http.MethodGet, "/admin/users", "/admin/users", nil, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// AdminUpdateUser меняет email, роль или бан пользователя (admin)
func (c *Client) AdminUpdateUser(ctx context.Context, id int, req api.AdminUpdateUserRequest) error {
	if err := c.call(ctx, http.MethodPut, "/admin/users/{id}", fmt.Sprintf("/admin/users/%d", id), req, nil); err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}
	return nil
}

// AdminDeleteUser удаляет пользователя (admin)
func (c *Client) AdminDeleteUser(ctx context.Context, id int) error {
	if err := c.call(ctx, http.MethodDelete, "/admin/users/{id}", fmt.Sprintf("/admin/users/%d", id), nil, nil); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

func (c *Client) CreateSkill(ctx context.Context, name string) (*models.Skill, error) {
	var skill models.Skill
	if err := c.call(ctx, http.MethodPost, "/admin/skills", "/admin/skills", api.SkillRequest{SkillName: name}, &skill); err != nil {
		return nil, fmt.Errorf("create skill: %w", err)
	}
	return &skill, nil
}

func (c *Client) UpdateSkill(ctx context.Context, id int, name string) error {
	path := fmt.Sprintf("/admin/skills/%d", id)
	if err := c.call(ctx, http.MethodPut, "/admin/skills/{id}", path, api.SkillRequest{SkillName: name}, nil); err != nil {
		return fmt.Errorf("update skill %d: %w", id, err)
	}
	return nil
}

func (c *Client) DeleteSkill(ctx context.Context, id int) error {
	if err := c.call(ctx, http.MethodDelete, "/admin/skills/{id}", fmt.Sprintf("/admin/skills/%d", id), nil, nil); err != nil {
		return fmt.Errorf("delete skill %d: %w", id, err)
	}
	return nil
}

// AdminDeleteJob удаляет любую вакансию (admin)
func (c *Client) AdminDeleteJob(ctx context.Context, id int) error {
	if err := c.call(ctx, http.MethodDelete, "/admin/jobs/{id}", fmt.Sprintf("/admin/jobs/%d", id), nil, nil); err != nil {
		return fmt.Errorf("delete job %d: %w", id, err)
	}
	return nil
}
