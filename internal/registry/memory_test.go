package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/adanyl0v/flowfocus/internal/models"
	"github.com/adanyl0v/flowfocus/internal/services"
)

var errStoreDown = errors.New("store is down")

// memoryStore is an in-memory CategoryService and TaskService with the
// same referential rules as the Postgres schema.
type memoryStore struct {
	mu         sync.Mutex
	seq        int
	clock      time.Time
	categories []*models.Category
	tasks      []*models.Task
	calls      int
	fail       bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{clock: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func (m *memoryStore) next(prefix string) (string, time.Time) {
	m.seq++
	m.clock = m.clock.Add(time.Minute)
	return fmt.Sprintf("%s%d", prefix, m.seq), m.clock
}

func (m *memoryStore) ListCategories(_ context.Context, userID string) ([]*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail {
		return nil, errStoreDown
	}

	var categories []*models.Category
	for _, c := range m.categories {
		if c.UserID == userID {
			clone := *c
			categories = append(categories, &clone)
		}
	}
	return categories, nil
}

func (m *memoryStore) CreateCategory(_ context.Context, params services.CreateCategoryParams) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail {
		return nil, errStoreDown
	}

	id, now := m.next("c")
	category := &models.Category{
		ID:        id,
		UserID:    params.UserID,
		Name:      params.Name,
		Color:     params.Color,
		Icon:      models.DefaultCategoryIcon,
		CreatedAt: now,
	}
	m.categories = append(m.categories, category)
	clone := *category
	return &clone, nil
}

func (m *memoryStore) DeleteCategory(_ context.Context, params services.DeleteCategoryParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail {
		return errStoreDown
	}

	for i, c := range m.categories {
		if c.ID != params.ID || c.UserID != params.UserID {
			continue
		}
		used := 0
		for _, t := range m.tasks {
			if t.CategoryID != nil && *t.CategoryID == c.ID {
				used++
			}
		}
		if used > 0 {
			return &services.CategoryInUseError{CategoryID: c.ID, Name: c.Name, Tasks: used}
		}
		m.categories = append(m.categories[:i], m.categories[i+1:]...)
		return nil
	}
	return services.ErrCategoryNotFound
}

func (m *memoryStore) GetTasks(_ context.Context, params services.GetTasksParams) ([]*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail {
		return nil, errStoreDown
	}

	var tasks []*models.Task
	for i := len(m.tasks) - 1; i >= 0; i-- {
		t := m.tasks[i]
		if t.UserID == params.UserID {
			tasks = append(tasks, m.joined(t))
		}
	}
	return tasks, nil
}

func (m *memoryStore) CreateTask(_ context.Context, params services.CreateTaskParams) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail {
		return nil, errStoreDown
	}
	if m.category(params.CategoryID) == nil {
		return nil, services.ErrCategoryNotFound
	}

	id, now := m.next("t")
	categoryID := params.CategoryID
	task := &models.Task{
		ID:          id,
		UserID:      params.UserID,
		CategoryID:  &categoryID,
		Title:       params.Title,
		Description: params.Description,
		Status:      models.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.tasks = append(m.tasks, task)
	return m.joined(task), nil
}

func (m *memoryStore) UpdateTask(_ context.Context, params services.UpdateTaskParams) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail {
		return nil, errStoreDown
	}

	for _, t := range m.tasks {
		if t.ID == params.ID && t.UserID == params.UserID {
			params.Patch.Apply(t)
			_, t.UpdatedAt = m.next("")
			return m.joined(t), nil
		}
	}
	return nil, services.ErrTaskNotFound
}

func (m *memoryStore) DeleteTask(_ context.Context, params services.DeleteTaskParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail {
		return errStoreDown
	}

	for i, t := range m.tasks {
		if t.ID == params.ID && t.UserID == params.UserID {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return services.ErrTaskNotFound
}

func (m *memoryStore) category(id string) *models.Category {
	for _, c := range m.categories {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (m *memoryStore) joined(t *models.Task) *models.Task {
	clone := t.Clone()
	clone.Category = nil
	if t.CategoryID != nil {
		if c := m.category(*t.CategoryID); c != nil {
			clone.Category = c.Ref()
		}
	}
	return clone
}

type recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *recorder) last() Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return Notification{}
	}
	return r.notifications[len(r.notifications)-1]
}
