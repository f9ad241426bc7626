package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/flowfocus/internal/models"
	"github.com/adanyl0v/flowfocus/internal/services"
)

// FilterAll matches every status or category in Filter.
const FilterAll = "all"

type TaskRegistry struct {
	logger   zerolog.Logger
	service  services.TaskService
	notifier Notifier
	userID   string

	mu    sync.RWMutex
	tasks []*models.Task
}

func NewTaskRegistry(
	logger zerolog.Logger,
	service services.TaskService,
	notifier Notifier,
	userID string,
) *TaskRegistry {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &TaskRegistry{
		logger:   logger,
		service:  service,
		notifier: notifier,
		userID:   userID,
	}
}

// Load replaces the cache with the user's tasks, newest first.
func (r *TaskRegistry) Load(ctx context.Context) error {
	tasks, err := r.service.GetTasks(ctx, services.GetTasksParams{UserID: r.userID})
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to load tasks")
		r.notifier.Notify(failure("Failed to load tasks"))
		return err
	}

	r.mu.Lock()
	r.tasks = tasks
	r.mu.Unlock()

	r.logger.Debug().
		Int("count", len(tasks)).
		Msg("loaded tasks")
	return nil
}

func (r *TaskRegistry) Tasks() []*models.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneTasks(r.tasks)
}

func (r *TaskRegistry) Get(id string) (*models.Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return r.tasks[i].Clone(), true
}

func (r *TaskRegistry) Add(ctx context.Context, title string, description *string, categoryID string) (*models.Task, error) {
	params := services.CreateTaskParams{
		UserID:      r.userID,
		CategoryID:  categoryID,
		Title:       title,
		Description: description,
	}
	err := services.ValidateCreateTask(&params)
	if err != nil {
		r.notifier.Notify(failure(err.Error()))
		return nil, err
	}

	task, err := r.service.CreateTask(ctx, params)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("title", params.Title).
			Msg("failed to create task")
		r.notifier.Notify(failure("Failed to add task"))
		return nil, err
	}

	r.mu.Lock()
	r.tasks = append([]*models.Task{task}, r.tasks...)
	r.mu.Unlock()

	r.notifier.Notify(Notification{Title: "Task added!"})
	return task.Clone(), nil
}

func (r *TaskRegistry) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	err := services.ValidateTaskPatch(patch)
	if err != nil {
		r.notifier.Notify(failure(err.Error()))
		return nil, err
	}

	task, err := r.service.UpdateTask(ctx, services.UpdateTaskParams{
		ID:     id,
		UserID: r.userID,
		Patch:  patch,
	})
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to update task")
		r.notifier.Notify(failure("Failed to update task"))
		return nil, err
	}

	r.mu.Lock()
	if i := r.indexOf(id); i >= 0 {
		r.tasks[i] = task
	}
	r.mu.Unlock()

	if patch.Status != nil {
		r.notifier.Notify(statusNotification(task))
	} else {
		r.notifier.Notify(Notification{Title: "Task updated!"})
	}
	return task.Clone(), nil
}

// SetStatus is Update with a status-only patch.
func (r *TaskRegistry) SetStatus(ctx context.Context, id, status string) (*models.Task, error) {
	return r.Update(ctx, id, models.TaskPatch{Status: &status})
}

func (r *TaskRegistry) Delete(ctx context.Context, id string) error {
	err := r.service.DeleteTask(ctx, services.DeleteTaskParams{
		ID:     id,
		UserID: r.userID,
	})
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		r.notifier.Notify(failure("Failed to delete task"))
		return err
	}

	r.mu.Lock()
	if i := r.indexOf(id); i >= 0 {
		r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	}
	r.mu.Unlock()

	r.notifier.Notify(Notification{Title: "Task deleted"})
	return nil
}

// Filter returns the cached tasks matching status and category id, where
// FilterAll or an empty string matches anything.
func (r *TaskRegistry) Filter(status, categoryID string) []*models.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*models.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if status != "" && status != FilterAll && t.Status != status {
			continue
		}
		if categoryID != "" && categoryID != FilterAll &&
			(t.CategoryID == nil || *t.CategoryID != categoryID) {
			continue
		}
		tasks = append(tasks, t.Clone())
	}
	return tasks
}

func (r *TaskRegistry) Counts() models.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return models.CountTasks(r.tasks)
}

// indexOf must be called with mu held.
func (r *TaskRegistry) indexOf(id string) int {
	for i, t := range r.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func statusNotification(task *models.Task) Notification {
	var title string
	switch task.Status {
	case models.StatusCompleted:
		title = "Task completed!"
	case models.StatusPaused:
		title = "Task paused"
	default:
		title = "Task resumed"
	}
	return Notification{
		Title:       title,
		Description: fmt.Sprintf("%q is now %s", task.Title, task.Status),
	}
}

func cloneTasks(tasks []*models.Task) []*models.Task {
	clones := make([]*models.Task, len(tasks))
	for i, t := range tasks {
		clones[i] = t.Clone()
	}
	return clones
}
