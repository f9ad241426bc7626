package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/flowfocus/internal/models"
	"github.com/adanyl0v/flowfocus/internal/services"
)

func seedCategory(t *testing.T, categories *CategoryRegistry, name string) *models.Category {
	t.Helper()
	category, err := categories.Add(context.Background(), name, "")
	require.NoError(t, err)
	return category
}

func TestTaskRegistryAddRejectsBlankTitle(t *testing.T) {
	categories, tasks, store, rec := newCategoryFixture(t)
	errands := seedCategory(t, categories, "Errands")
	calls := store.calls

	_, err := tasks.Add(context.Background(), "   ", nil, errands.ID)
	assert.ErrorIs(t, err, services.ErrEmptyTaskTitle)
	assert.Empty(t, tasks.Tasks())
	assert.Equal(t, calls, store.calls)
	assert.Equal(t, "please enter a task title", rec.last().Description)

	_, err = tasks.Add(context.Background(), "Buy milk", nil, "")
	assert.ErrorIs(t, err, services.ErrCategoryRequired)
	assert.Equal(t, calls, store.calls)
}

func TestTaskRegistryAddPrepends(t *testing.T) {
	categories, tasks, _, rec := newCategoryFixture(t)
	errands := seedCategory(t, categories, "Errands")
	ctx := context.Background()

	_, err := tasks.Add(ctx, "Post letter", nil, errands.ID)
	require.NoError(t, err)
	before := len(tasks.Tasks())

	task, err := tasks.Add(ctx, "Buy milk", nil, errands.ID)
	require.NoError(t, err)

	all := tasks.Tasks()
	require.Len(t, all, before+1)
	assert.Equal(t, task.ID, all[0].ID)
	assert.Equal(t, models.StatusActive, all[0].Status)
	require.NotNil(t, all[0].Category)
	assert.Equal(t, "Errands", all[0].Category.Name)
	assert.Equal(t, "Task added!", rec.last().Title)
}

func TestTaskRegistryToggleRoundTrip(t *testing.T) {
	categories, tasks, _, rec := newCategoryFixture(t)
	errands := seedCategory(t, categories, "Errands")
	ctx := context.Background()

	description := "semi-skimmed"
	original, err := tasks.Add(ctx, "Buy milk", &description, errands.ID)
	require.NoError(t, err)

	completed, err := tasks.SetStatus(ctx, original.ID, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)
	assert.Equal(t, Notification{Title: "Task completed!", Description: `"Buy milk" is now completed`}, rec.last())

	reopened, err := tasks.SetStatus(ctx, original.ID, models.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, "Task resumed", rec.last().Title)

	assert.Equal(t, original.Title, reopened.Title)
	assert.Equal(t, *original.Description, *reopened.Description)
	assert.Equal(t, *original.CategoryID, *reopened.CategoryID)
	assert.Equal(t, original.Category, reopened.Category)
	assert.Equal(t, original.Status, reopened.Status)

	cached, ok := tasks.Get(original.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusActive, cached.Status)
}

func TestTaskRegistryPauseNotification(t *testing.T) {
	categories, tasks, _, rec := newCategoryFixture(t)
	errands := seedCategory(t, categories, "Errands")
	ctx := context.Background()

	task, err := tasks.Add(ctx, "Buy milk", nil, errands.ID)
	require.NoError(t, err)

	_, err = tasks.SetStatus(ctx, task.ID, models.StatusPaused)
	require.NoError(t, err)
	assert.Equal(t, Notification{Title: "Task paused", Description: `"Buy milk" is now paused`}, rec.last())
}

func TestTaskRegistryUpdateFailureLeavesCache(t *testing.T) {
	categories, tasks, store, rec := newCategoryFixture(t)
	errands := seedCategory(t, categories, "Errands")
	ctx := context.Background()

	task, err := tasks.Add(ctx, "Buy milk", nil, errands.ID)
	require.NoError(t, err)

	store.fail = true
	title := "Buy oat milk"
	_, err = tasks.Update(ctx, task.ID, models.TaskPatch{Title: &title})
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, failure("Failed to update task"), rec.last())

	cached, ok := tasks.Get(task.ID)
	require.True(t, ok)
	assert.Equal(t, "Buy milk", cached.Title)
}

func TestTaskRegistryDelete(t *testing.T) {
	categories, tasks, _, rec := newCategoryFixture(t)
	errands := seedCategory(t, categories, "Errands")
	ctx := context.Background()

	task, err := tasks.Add(ctx, "Buy milk", nil, errands.ID)
	require.NoError(t, err)

	require.NoError(t, tasks.Delete(ctx, task.ID))
	assert.Empty(t, tasks.Tasks())
	assert.Equal(t, "Task deleted", rec.last().Title)

	assert.ErrorIs(t, tasks.Delete(ctx, task.ID), services.ErrTaskNotFound)
}

func TestTaskRegistryFilterAndCounts(t *testing.T) {
	categories, tasks, _, _ := newCategoryFixture(t)
	errands := seedCategory(t, categories, "Errands")
	work := seedCategory(t, categories, "Work")
	ctx := context.Background()

	milk, err := tasks.Add(ctx, "Buy milk", nil, errands.ID)
	require.NoError(t, err)
	_, err = tasks.Add(ctx, "Write report", nil, work.ID)
	require.NoError(t, err)
	_, err = tasks.Add(ctx, "Post letter", nil, errands.ID)
	require.NoError(t, err)
	_, err = tasks.SetStatus(ctx, milk.ID, models.StatusCompleted)
	require.NoError(t, err)

	assert.Len(t, tasks.Filter(FilterAll, FilterAll), 3)
	assert.Len(t, tasks.Filter(FilterAll, errands.ID), 2)
	completed := tasks.Filter(models.StatusCompleted, "")
	require.Len(t, completed, 1)
	assert.Equal(t, milk.ID, completed[0].ID)
	assert.Empty(t, tasks.Filter(models.StatusPaused, work.ID))

	stats := tasks.Counts()
	assert.Equal(t, models.Stats{Total: 3, Active: 2, Completed: 1, CompletionRate: 33}, stats)
}
