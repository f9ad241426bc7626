package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/flowfocus/internal/models"
	"github.com/adanyl0v/flowfocus/internal/services"
)

var ErrAmbiguousCategory = errors.New("more than one category has this name")

type CategoryRegistry struct {
	logger   zerolog.Logger
	service  services.CategoryService
	notifier Notifier
	userID   string

	mu         sync.RWMutex
	categories []*models.Category
	listeners  []func([]*models.Category)
}

func NewCategoryRegistry(
	logger zerolog.Logger,
	service services.CategoryService,
	notifier Notifier,
	userID string,
) *CategoryRegistry {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &CategoryRegistry{
		logger:   logger,
		service:  service,
		notifier: notifier,
		userID:   userID,
	}
}

// OnChange registers fn to be called with the fresh list after every
// successful add or delete.
func (r *CategoryRegistry) OnChange(fn func([]*models.Category)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// List reloads the user's categories, oldest first.
func (r *CategoryRegistry) List(ctx context.Context) ([]*models.Category, error) {
	categories, err := r.service.ListCategories(ctx, r.userID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to list categories")
		return nil, err
	}

	r.mu.Lock()
	r.categories = categories
	r.mu.Unlock()

	r.logger.Debug().
		Int("count", len(categories)).
		Msg("loaded categories")
	return r.Categories(), nil
}

// Categories returns the cached list without touching the store.
func (r *CategoryRegistry) Categories() []*models.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]*models.Category, len(r.categories))
	for i, c := range r.categories {
		clone := *c
		categories[i] = &clone
	}
	return categories
}

func (r *CategoryRegistry) Add(ctx context.Context, name, color string) (*models.Category, error) {
	params := services.CreateCategoryParams{
		UserID: r.userID,
		Name:   name,
		Color:  color,
	}
	err := services.ValidateCreateCategory(&params)
	if err != nil {
		r.notifier.Notify(failure(err.Error()))
		return nil, err
	}

	category, err := r.service.CreateCategory(ctx, params)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("name", params.Name).
			Msg("failed to create category")
		r.notifier.Notify(failure("Failed to add category"))
		return nil, err
	}

	r.notifier.Notify(Notification{
		Title:       "Category added!",
		Description: fmt.Sprintf("%q has been created.", category.Name),
	})
	r.changed(ctx)
	return category, nil
}

// Delete removes the category unless tasks still reference it. A blocked
// delete returns *services.CategoryInUseError and leaves everything as is.
func (r *CategoryRegistry) Delete(ctx context.Context, id string) error {
	err := r.service.DeleteCategory(ctx, services.DeleteCategoryParams{
		ID:     id,
		UserID: r.userID,
	})
	if err != nil {
		var inUse *services.CategoryInUseError
		if errors.As(err, &inUse) {
			name := inUse.Name
			if name == "" {
				name = r.nameOf(id)
			}
			r.notifier.Notify(Notification{
				Title: "Cannot delete category",
				Description: fmt.Sprintf(
					"%q is being used by %d task(s). Please reassign or delete those tasks first.",
					name, inUse.Tasks),
				Destructive: true,
			})
			return err
		}

		r.logger.Error().
			Err(err).
			Str("category_id", id).
			Msg("failed to delete category")
		r.notifier.Notify(failure("Failed to delete category"))
		return err
	}

	r.notifier.Notify(Notification{Title: "Category deleted"})
	r.changed(ctx)
	return nil
}

// Lookup resolves a category by id or by case-insensitive name from the
// cached list.
func (r *CategoryRegistry) Lookup(nameOrID string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var byName []*models.Category
	for _, c := range r.categories {
		if c.ID == nameOrID {
			clone := *c
			return &clone, nil
		}
		if strings.EqualFold(c.Name, strings.TrimSpace(nameOrID)) {
			byName = append(byName, c)
		}
	}

	switch len(byName) {
	case 0:
		return nil, services.ErrCategoryNotFound
	case 1:
		clone := *byName[0]
		return &clone, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousCategory, nameOrID)
	}
}

func (r *CategoryRegistry) nameOf(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.categories {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

func (r *CategoryRegistry) changed(ctx context.Context) {
	categories, err := r.List(ctx)
	if err != nil {
		return
	}

	r.mu.RLock()
	listeners := make([]func([]*models.Category), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.RUnlock()

	for _, fn := range listeners {
		fn(categories)
	}
}
