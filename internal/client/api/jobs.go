package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iudanet/freelancehub/internal/models"
	"github.com/iudanet/freelancehub/pkg/api"
)

// ListJobs returns the public job board.
func (c *Client) ListJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := c.call(ctx, http.MethodGet, "/jobs", "/jobs", nil, &jobs); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

func (c *Client) GetJob(ctx context.Context, id int) (*models.Job, error) {
	var job models.Job
	if err := c.call(ctx, http.MethodGet, "/jobs/{id}", fmt.Sprintf("/jobs/%d", id), nil, &job); err != nil {
		return nil, fmt.Errorf("get job %d: %w", id, err)
	}
	return &job, nil
}

func (c *Client) ListFreelancers(ctx context.Context) ([]models.PublicProfile, error) {
	var profiles []models.PublicProfile
	if err := c.call(ctx, http.MethodGet, "/freelancers", "/freelancers", nil, &profiles); err != nil {
		return nil, fmt.Errorf("list freelancers: %w", err)
	}
	return profiles, nil
}

func (c *Client) GetFreelancer(ctx context.Context, id int) (*models.PublicProfile, error) {
	var profile models.PublicProfile
	if err := c.call(ctx, http.MethodGet, "/freelancers/{id}", fmt.Sprintf("/freelancers/%d", id), nil, &profile); err != nil {
		return nil, fmt.Errorf("get freelancer %d: %w", id, err)
	}
	return &profile, nil
}

func (c *Client) ListClients(ctx context.Context) ([]models.PublicProfile, error) {
	var profiles []models.PublicProfile
	if err := c.call(ctx, http.MethodGet, "/clients", "/clients", nil, &profiles); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return profiles, nil
}

func (c *Client) GetClient(ctx context.Context, id int) (*models.PublicProfile, error) {
	var profile models.PublicProfile
	if err := c.call(ctx, http.MethodGet, "/clients/{id}", fmt.Sprintf("/clients/%d", id), nil, &profile); err != nil {
		return nil, fmt.Errorf("get client %d: %w", id, err)
	}
	return &profile, nil
}

// ListSkills returns the skill dictionary.
func (c *Client) ListSkills(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	if err := c.call(ctx, http.MethodGet, "/skills", "/skills", nil, &skills); err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return skills, nil
}

// Вакансии клиента

func (c *Client) ListClientJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := c.call(ctx, http.MethodGet, "/user/client/jobs", "/user/client/jobs", nil, &jobs); err != nil {
		return nil, fmt.Errorf("list client jobs: %w", err)
	}
	return jobs, nil
}

// GetClientJob returns one of the client's jobs together with its applications.
func (c *Client) GetClientJob(ctx context.Context, id int) (*models.Job, error) {
	var job models.Job
	if err := c.call(ctx, http.MethodGet, "/user/client/jobs/{id}", fmt.Sprintf("/user/client/jobs/%d", id), nil, &job); err != nil {
		return nil, fmt.Errorf("get client job %d: %w", id, err)
	}
	return &job, nil
}

func (c *Client) CreateJob(ctx context.Context, req api.JobRequest) (*models.Job, error) {
	var job models.Job
	if err := c.call(ctx, http.MethodPost, "/user/client/jobs", "/user/client/jobs", req, &job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return &job, nil
}

func (c *Client) UpdateJob(ctx context.Context, id int, req api.JobRequest) (*models.Job, error) {
	var job models.Job
	if err := c.call(ctx, http.MethodPut, "/user/client/jobs/{id}", fmt.Sprintf("/user/client/jobs/%d", id), req, &job); err != nil {
		return nil, fmt.Errorf("update job %d: %w", id, err)
	}
	return &job, nil
}

func (c *Client) DeleteJob(ctx context.Context, id int) error {
	if err := c.call(ctx, http.MethodDelete, "/user/client/jobs/{id}", fmt.Sprintf("/user/client/jobs/%d", id), nil, nil); err != nil {
		return fmt.Errorf("delete job %d: %w", id, err)
	}
	return nil
}

// CompleteJob marks an in-progress job as completed.
func (c *Client) CompleteJob(ctx context.Context, id int) error {
	if err := c.call(ctx, http.MethodPut, "/user/client/jobs/{id}/complete", fmt.Sprintf("/user/client/jobs/%d/complete", id), nil, nil); err != nil {
		return fmt.Errorf("complete job %d: %w", id, err)
	}
	return nil
}

// ReviewApplication accepts or rejects an application to one of the client's jobs.
func (c *Client) ReviewApplication(ctx context.Context, applicationID int, req api.ReviewApplicationRequest) error {
	path := fmt.Sprintf("/user/client/jobs/applications/%d", applicationID)
	if err := c.call(ctx, http.MethodPut, "/user/client/jobs/applications/{id}", path, req, nil); err != nil {
		return fmt.Errorf("review application %d: %w", applicationID, err)
	}
	return nil
}

// Отклики фрилансера

func (c *Client) ListApplications(ctx context.Context) ([]models.Application, error) {
	var apps []models.Application
	if err := c.call(ctx, http.MethodGet, "/user/freelancer/applications", "/user/freelancer/applications", nil, &apps); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

func (c *Client) GetApplication(ctx context.Context, id int) (*models.Application, error) {
	var app models.Application
	path := fmt.Sprintf("/user/freelancer/applications/%d", id)
	if err := c.call(ctx, http.MethodGet, "/user/freelancer/applications/{id}", path, nil, &app); err != nil {
		return nil, fmt.Errorf("get application %d: %w", id, err)
	}
	return &app, nil
}

// Apply sends an application to the job req.JobID.
func (c *Client) Apply(ctx context.Context, req api.ApplicationRequest) (*models.Application, error) {
	var app models.Application
	if err := c.call(ctx, http.MethodPost, "/user/freelancer/applications", "/user/freelancer/applications", req, &app); err != nil {
		return nil, fmt.Errorf("apply to job %d: %w", req.JobID, err)
	}
	return &app, nil
}

func (c *Client) UpdateApplication(ctx context.Context, id int, req api.ApplicationRequest) (*models.Application, error) {
	var app models.Application
	path := fmt.Sprintf("/user/freelancer/applications/%d", id)
	if err := c.call(ctx, http.MethodPut, "/user/freelancer/applications/{id}", path, req, &app); err != nil {
		return nil, fmt.Errorf("update application %d: %w", id, err)
	}
	return &app, nil
}

func (c *Client) DeleteApplication(ctx context.Context, id int) error {
	path := fmt.Sprintf("/user/freelancer/applications/%d", id)
	if err := c.call(ctx, http.MethodDelete, "/user/freelancer/applications/{id}", path, nil, nil); err != nil {
		return fmt.Errorf("delete application %d: %w", id, err)
	}
	return nil
}
