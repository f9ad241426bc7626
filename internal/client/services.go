package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/adanyl0v/flowfocus/internal/api"
	"github.com/adanyl0v/flowfocus/internal/models"
	"github.com/adanyl0v/flowfocus/internal/services"
)

var (
	_ services.CategoryService = (*Client)(nil)
	_ services.TaskService     = (*Client)(nil)
	_ services.ProfileService  = (*Client)(nil)
)

// The server scopes every call to the session's user, so the user ids
// carried by the params below are never sent.

func (c *Client) ListCategories(ctx context.Context, userID string) ([]*models.Category, error) {
	var resp []api.CategoryResponse
	err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &resp, true)
	if err != nil {
		return nil, err
	}

	categories := make([]*models.Category, len(resp))
	for i, r := range resp {
		categories[i] = r.Model(userID)
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, params services.CreateCategoryParams) (*models.Category, error) {
	body := api.CreateCategoryRequest{
		Name:  params.Name,
		Color: params.Color,
	}
	var resp api.CategoryResponse
	err := c.do(ctx, http.MethodPost, "/categories", nil, body, &resp, true)
	if err != nil {
		return nil, err
	}
	return resp.Model(params.UserID), nil
}

func (c *Client) DeleteCategory(ctx context.Context, params services.DeleteCategoryParams) error {
	err := c.do(ctx, http.MethodDelete, "/categories/"+url.PathEscape(params.ID), nil, nil, nil, true)
	var inUse *services.CategoryInUseError
	if errors.As(err, &inUse) {
		inUse.CategoryID = params.ID
	}
	return err
}

func (c *Client) GetTasks(ctx context.Context, params services.GetTasksParams) ([]*models.Task, error) {
	query := url.Values{}
	if params.Status != nil {
		query.Set("status", *params.Status)
	}
	if params.CategoryID != nil {
		query.Set("category_id", *params.CategoryID)
	}

	var resp []api.TaskResponse
	err := c.do(ctx, http.MethodGet, "/tasks", query, nil, &resp, true)
	if err != nil {
		return nil, err
	}

	tasks := make([]*models.Task, len(resp))
	for i, r := range resp {
		tasks[i] = r.Model(params.UserID)
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, params services.CreateTaskParams) (*models.Task, error) {
	body := api.CreateTaskRequest{
		CategoryID:  params.CategoryID,
		Title:       params.Title,
		Description: params.Description,
	}
	var resp api.TaskResponse
	err := c.do(ctx, http.MethodPost, "/tasks", nil, body, &resp, true)
	if err != nil {
		return nil, err
	}
	return resp.Model(params.UserID), nil
}

func (c *Client) UpdateTask(ctx context.Context, params services.UpdateTaskParams) (*models.Task, error) {
	body := api.NewUpdateTaskRequest(params.Patch)
	var resp api.TaskResponse
	err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(params.ID), nil, body, &resp, true)
	if err != nil {
		return nil, err
	}
	return resp.Model(params.UserID), nil
}

func (c *Client) DeleteTask(ctx context.Context, params services.DeleteTaskParams) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(params.ID), nil, nil, nil, true)
}

func (c *Client) GetProfile(ctx context.Context, _ string) (*services.Profile, error) {
	var resp api.ProfileResponse
	err := c.do(ctx, http.MethodGet, "/profile", nil, nil, &resp, true)
	if err != nil {
		return nil, err
	}
	return &services.Profile{
		User:  resp.User(),
		Stats: resp.ModelStats(),
	}, nil
}

func (c *Client) UpdateProfile(ctx context.Context, params services.UpdateProfileParams) (*models.User, error) {
	body := api.UpdateProfileRequest{Name: params.Name}
	var resp api.ProfileResponse
	err := c.do(ctx, http.MethodPatch, "/profile", nil, body, &resp, true)
	if err != nil {
		return nil, err
	}
	return resp.User(), nil
}
