package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/flowfocus/internal/api"
	"github.com/adanyl0v/flowfocus/internal/models"
	"github.com/adanyl0v/flowfocus/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return New(zerolog.Nop(), server.URL, server.Client())
}

func TestClientLoginCapturesTokens(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, UserAgent, r.UserAgent())

		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada@example.com", req.Email)

		http.SetCookie(w, &http.Cookie{Name: accessTokenCookie, Value: "access-1"})
		http.SetCookie(w, &http.Cookie{Name: refreshTokenCookie, Value: "refresh-1"})
		writeJSON(w, http.StatusOK, api.TokenResponse{UserID: "u1", SessionID: "s1", AccessToken: "access-1"})
	})
	c := newTestClient(t, mux)

	var rotated Tokens
	c.OnRotate(func(tokens Tokens) { rotated = tokens })

	resp, err := c.Login(context.Background(), "ada@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.UserID)
	assert.Equal(t, Tokens{AccessToken: "access-1", RefreshToken: "refresh-1"}, c.Tokens())
	assert.Equal(t, c.Tokens(), rotated)
}

func TestClientRequiresLogin(t *testing.T) {
	c := newTestClient(t, http.NewServeMux())

	_, err := c.ListCategories(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestClientSendsCredentialsAndPicksUpRotation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/tasks", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer stale", r.Header.Get("Authorization"))
		cookie, err := r.Cookie(refreshTokenCookie)
		require.NoError(t, err)
		assert.Equal(t, "refresh-1", cookie.Value)
		assert.Equal(t, "completed", r.URL.Query().Get("status"))
		assert.Equal(t, "c1", r.URL.Query().Get("category_id"))

		http.SetCookie(w, &http.Cookie{Name: accessTokenCookie, Value: "fresh"})
		http.SetCookie(w, &http.Cookie{Name: refreshTokenCookie, Value: "refresh-2"})

		categoryID := "c1"
		writeJSON(w, http.StatusOK, []api.TaskResponse{{
			ID:         "t1",
			CategoryID: &categoryID,
			Title:      "Buy milk",
			Status:     models.StatusCompleted,
			Category:   &api.CategoryRefResponse{Name: "Errands", Color: "#6366f1", Icon: "folder"},
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}})
	})
	c := newTestClient(t, mux)
	c.SetTokens(Tokens{AccessToken: "stale", RefreshToken: "refresh-1"})

	status, categoryID := models.StatusCompleted, "c1"
	tasks, err := c.GetTasks(context.Background(), services.GetTasksParams{
		UserID:     "u1",
		Status:     &status,
		CategoryID: &categoryID,
	})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "u1", tasks[0].UserID)
	assert.Equal(t, "Errands", tasks[0].Category.Name)
	assert.Equal(t, Tokens{AccessToken: "fresh", RefreshToken: "refresh-2"}, c.Tokens())
}

func TestClientMapsErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/v1/categories/{id}", func(w http.ResponseWriter, r *http.Request) {
		tasks := 2
		writeJSON(w, http.StatusConflict, api.ErrorResponse{
			Error: `"Errands" is being used by 2 task(s)`,
			Name:  "Errands",
			Tasks: &tasks,
		})
	})
	mux.HandleFunc("POST /api/v1/tasks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: services.ErrEmptyTaskTitle.Error()})
	})
	mux.HandleFunc("DELETE /api/v1/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusTeapot, api.ErrorResponse{Error: "short and stout"})
	})
	c := newTestClient(t, mux)
	c.SetTokens(Tokens{AccessToken: "good"})
	ctx := context.Background()

	err := c.DeleteCategory(ctx, services.DeleteCategoryParams{ID: "c1", UserID: "u1"})
	require.ErrorIs(t, err, services.ErrCategoryInUse)
	var inUse *services.CategoryInUseError
	require.True(t, errors.As(err, &inUse))
	assert.Equal(t, "c1", inUse.CategoryID)
	assert.Equal(t, 2, inUse.Tasks)

	_, err = c.CreateTask(ctx, services.CreateTaskParams{UserID: "u1", CategoryID: "c1", Title: " "})
	assert.ErrorIs(t, err, services.ErrEmptyTaskTitle)

	err = c.DeleteTask(ctx, services.DeleteTaskParams{ID: "t1", UserID: "u1"})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTeapot, statusErr.Code)
	assert.Equal(t, "short and stout", statusErr.Message)
}

func TestClientNonJSONErrorBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/categories", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream timed out", http.StatusBadGateway)
	})
	c := newTestClient(t, mux)
	c.SetTokens(Tokens{AccessToken: "good"})

	_, err := c.ListCategories(context.Background(), "u1")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
	assert.Equal(t, "Bad Gateway", statusErr.Message)
}

func TestClientUpdateTaskSendsPatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /api/v1/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "t1", r.PathValue("id"))

		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, map[string]any{"status": "paused", "description": ""}, raw)

		writeJSON(w, http.StatusOK, api.TaskResponse{ID: "t1", Title: "Buy milk", Status: models.StatusPaused})
	})
	c := newTestClient(t, mux)
	c.SetTokens(Tokens{AccessToken: "good"})

	status, description := models.StatusPaused, ""
	task, err := c.UpdateTask(context.Background(), services.UpdateTaskParams{
		ID:     "t1",
		UserID: "u1",
		Patch:  models.TaskPatch{Status: &status, Description: &description},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaused, task.Status)
}

func TestClientProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/profile", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.ProfileResponse{
			ID:    "u1",
			Email: "ada@example.com",
			Name:  "Ada",
			Stats: api.StatsResponse{Total: 2, Completed: 1, Active: 1, CompletionRate: 50},
		})
	})
	c := newTestClient(t, mux)
	c.SetTokens(Tokens{AccessToken: "good"})

	profile, err := c.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.User.DisplayName())
	assert.Equal(t, 50, profile.Stats.CompletionRate)
}
