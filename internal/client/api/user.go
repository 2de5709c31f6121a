package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iudanet/freelancehub/internal/models"
	"github.com/iudanet/freelancehub/pkg/api"
)

// GetUser возвращает профиль текущего пользователя
func (c *Client) GetUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.call(ctx, http.MethodGet, "/user", "/user", nil, &user); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// UpdateUser меняет email или пароль текущего пользователя
func (c *Client) UpdateUser(ctx context.Context, req api.UpdateUserRequest) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	if err := c.call(ctx, http.MethodPut, "/user", "/user", req, &resp); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &resp, nil
}

// DeleteUser удаляет аккаунт текущего пользователя
func (c *Client) DeleteUser(ctx context.Context) error {
	if err := c.call(ctx, http.MethodDelete, "/user", "/user", nil, nil); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// UpdateClientData обновляет профиль клиента
func (c *Client) UpdateClientData(ctx context.Context, req api.ClientDataRequest) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	if err := c.call(ctx, http.MethodPut, "/user/client", "/user/client", req, &resp); err != nil {
		return nil, fmt.Errorf("update client data: %w", err)
	}
	return &resp, nil
}

// UpdateFreelancerData обновляет профиль фрилансера
func (c *Client) UpdateFreelancerData(ctx context.Context, req api.FreelancerDataRequest) (*api.MessageResponse, error) {
	var resp api.MessageResponse
	if err := c.call(ctx, http.MethodPut, "/user/freelancer", "/user/freelancer", req, &resp); err != nil {
		return nil, fmt.Errorf("update freelancer data: %w", err)
	}
	return &resp, nil
}

// AddFreelancerSkill добавляет навык в профиль фрилансера
func (c *Client) AddFreelancerSkill(ctx context.Context, skillID int) error {
	req := api.SkillRefRequest{SkillID: skillID}
	if err := c.call(ctx, http.MethodPost, "/user/freelancer/skills", "/user/freelancer/skills", req, nil); err != nil {
		return fmt.Errorf("add skill %d: %w", skillID, err)
	}
	return nil
}

// RemoveFreelancerSkill удаляет навык из профиля фрилансера
func (c *Client) RemoveFreelancerSkill(ctx context.Context, skillID int) error {
	req := api.SkillRefRequest{SkillID: skillID}
	if err := c.call(ctx, http.MethodDelete, "/user/freelancer/skills", "/user/freelancer/skills", req, nil); err != nil {
		return fmt.Errorf("remove skill %d: %w", skillID, err)
	}
	return nil
}
