package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStatsCompletionRate(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		completed int
		want      int
	}{
		{name: "empty", total: 0, completed: 0, want: 0},
		{name: "third", total: 3, completed: 1, want: 33},
		{name: "two thirds", total: 3, completed: 2, want: 67},
		{name: "half", total: 2, completed: 1, want: 50},
		{name: "all", total: 4, completed: 4, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStats(tt.total, 0, 0, tt.completed)
			assert.Equal(t, tt.want, s.CompletionRate)
		})
	}
}

func TestCountTasks(t *testing.T) {
	tasks := []*Task{
		{Status: StatusActive},
		{Status: StatusPaused},
		{Status: StatusCompleted},
		{Status: StatusCompleted},
	}
	s := CountTasks(tasks)
	assert.Equal(t, Stats{Total: 4, Active: 1, Paused: 1, Completed: 2, CompletionRate: 50}, s)
}

func TestTaskPatchApply(t *testing.T) {
	desc := "old"
	task := &Task{Title: "Buy milk", Description: &desc, Status: StatusActive}

	blank := "  "
	title := " Buy oat milk "
	status := StatusCompleted
	TaskPatch{Title: &title, Description: &blank, Status: &status}.Apply(task)

	assert.Equal(t, "Buy oat milk", task.Title)
	assert.Nil(t, task.Description)
	assert.Equal(t, StatusCompleted, task.Status)
	assert.True(t, TaskPatch{}.IsEmpty())
}

func TestTaskCloneIsDeep(t *testing.T) {
	id := "c1"
	task := &Task{ID: "t1", CategoryID: &id, Category: &CategoryRef{Name: "Errands"}}
	clone := task.Clone()
	*clone.CategoryID = "c2"
	clone.Category.Name = "Home"

	assert.Equal(t, "c1", *task.CategoryID)
	assert.Equal(t, "Errands", task.Category.Name)
}

func TestIsValidColor(t *testing.T) {
	assert.True(t, IsValidColor(DefaultCategoryColor))
	assert.False(t, IsValidColor("6366f1"))
	assert.False(t, IsValidColor("#63f"))
	for _, c := range CategoryPalette {
		assert.True(t, IsValidColor(c), c)
	}
}
