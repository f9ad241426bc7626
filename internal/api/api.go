// Package api holds the JSON bodies exchanged between the REST
// delivery layer and the remote client.
package api

import (
	"time"

	"github.com/adanyl0v/flowfocus/internal/models"
)

type ErrorResponse struct {
	Error string `json:"error"`
	// Set only when a category delete is blocked by its tasks.
	Name  string `json:"name,omitempty"`
	Tasks *int   `json:"tasks,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email,max=255"`
	Password string `json:"password" form:"password" binding:"required,min=6,max=255"`
}

type RegisterRequest struct {
	Name string `json:"name" form:"name" binding:"max=255"`
	LoginRequest
}

type TokenResponse struct {
	UserID               string    `json:"user_id"`
	SessionID            string    `json:"session_id"`
	AccessToken          string    `json:"access_token"`
	AccessTokenExpiresAt time.Time `json:"access_token_expires_at"`
}

type SessionResponse struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

type CategoryRefResponse struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type TaskResponse struct {
	ID          string               `json:"id"`
	CategoryID  *string              `json:"category_id"`
	Title       string               `json:"title"`
	Description *string              `json:"description"`
	Status      string               `json:"status"`
	Category    *CategoryRefResponse `json:"category"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func NewTaskResponse(task *models.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID,
		CategoryID:  task.CategoryID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.Category != nil {
		resp.Category = &CategoryRefResponse{
			Name:  task.Category.Name,
			Color: task.Category.Color,
			Icon:  task.Category.Icon,
		}
	}
	return resp
}

func (r TaskResponse) Model(userID string) *models.Task {
	task := &models.Task{
		ID:          r.ID,
		UserID:      userID,
		CategoryID:  r.CategoryID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Category != nil {
		task.Category = &models.CategoryRef{
			Name:  r.Category.Name,
			Color: r.Category.Color,
			Icon:  r.Category.Icon,
		}
	}
	return task
}

type CreateTaskRequest struct {
	CategoryID  string  `json:"category_id"`
	Title       string  `json:"title" binding:"max=255"`
	Description *string `json:"description,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
}

func (r UpdateTaskRequest) Patch() models.TaskPatch {
	return models.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		CategoryID:  r.CategoryID,
	}
}

func NewUpdateTaskRequest(patch models.TaskPatch) UpdateTaskRequest {
	return UpdateTaskRequest{
		Title:       patch.Title,
		Description: patch.Description,
		Status:      patch.Status,
		CategoryID:  patch.CategoryID,
	}
}

type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

func NewCategoryResponse(category *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		Icon:      category.Icon,
		CreatedAt: category.CreatedAt,
	}
}

func (r CategoryResponse) Model(userID string) *models.Category {
	return &models.Category{
		ID:        r.ID,
		UserID:    userID,
		Name:      r.Name,
		Color:     r.Color,
		Icon:      r.Icon,
		CreatedAt: r.CreatedAt,
	}
}

type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"max=100"`
	Color string `json:"color,omitempty"`
}

type StatsResponse struct {
	Total          int `json:"total"`
	Active         int `json:"active"`
	Paused         int `json:"paused"`
	Completed      int `json:"completed"`
	CompletionRate int `json:"completion_rate"`
}

type ProfileResponse struct {
	ID        string        `json:"id"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	Stats     StatsResponse `json:"stats"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewProfileResponse(user *models.User, stats models.Stats) ProfileResponse {
	return ProfileResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Stats: StatsResponse{
			Total:          stats.Total,
			Active:         stats.Active,
			Paused:         stats.Paused,
			Completed:      stats.Completed,
			CompletionRate: stats.CompletionRate,
		},
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func (r ProfileResponse) User() *models.User {
	return &models.User{
		ID:        r.ID,
		Email:     r.Email,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r ProfileResponse) ModelStats() models.Stats {
	return models.Stats{
		Total:          r.Stats.Total,
		Active:         r.Stats.Active,
		Paused:         r.Stats.Paused,
		Completed:      r.Stats.Completed,
		CompletionRate: r.Stats.CompletionRate,
	}
}

type UpdateProfileRequest struct {
	Name string `json:"name" binding:"max=255"`
}
