package ui

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/flowfocus/internal/locallist"
	"github.com/adanyl0v/flowfocus/internal/models"
	"github.com/adanyl0v/flowfocus/internal/registry"
)

func init() {
	color.NoColor = true
}

func TestRenderTasks(t *testing.T) {
	var buf bytes.Buffer
	description := "semi-skimmed"
	RenderTasks(&buf, []*models.Task{{
		ID:          "0192f0a1-7c1e-7000-8000-00000000abcd",
		Title:       "Buy milk",
		Description: &description,
		Status:      models.StatusPaused,
		Category:    &models.CategoryRef{Name: "Errands", Color: "#6366f1", Icon: "folder"},
	}})

	out := buf.String()
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "0000abcd")
	assert.Contains(t, out, "Errands")
	assert.Contains(t, out, "semi-skimmed")
	assert.Contains(t, out, "paused")

	buf.Reset()
	RenderTasks(&buf, nil)
	assert.Equal(t, "No tasks yet.\n", buf.String())
}

func TestRenderStats(t *testing.T) {
	var buf bytes.Buffer
	RenderStats(&buf, models.NewStats(4, 1, 1, 2))
	assert.Contains(t, buf.String(), "Completed 2")
	assert.Contains(t, buf.String(), "50%")
}

func TestRenderList(t *testing.T) {
	var buf bytes.Buffer
	RenderList(&buf, []locallist.Entry{
		{Index: 0, Item: locallist.Item{Text: "a"}},
		{Index: 2, Item: locallist.Item{Text: "c", Completed: true}},
	})
	assert.Equal(t, "  1 [ ] a\n  3 [x] c\n", buf.String())
}

func TestRenderProfile(t *testing.T) {
	var buf bytes.Buffer
	user := &models.User{Email: "ada@example.com", CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)}
	RenderProfile(&buf, user, "data:image/png;base64,AAAA", models.Stats{})

	out := buf.String()
	assert.Contains(t, out, "ada@example.com\nada@example.com")
	assert.Contains(t, out, "avatar: image/png")
	assert.Contains(t, out, "member since February 2025")
}

func TestRenderNotification(t *testing.T) {
	var buf bytes.Buffer
	RenderNotification(&buf, registry.Notification{Title: "Task added!"})
	RenderNotification(&buf, registry.Notification{Title: "Error", Description: "Failed to add task", Destructive: true})
	assert.Equal(t, "Task added!\nError Failed to add task\n", buf.String())
}

func TestSwatchFallsBackForBadColor(t *testing.T) {
	assert.Equal(t, "■", Swatch("blue"))
	assert.Contains(t, Swatch("#6366f1"), "■")
}

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// column returns the rune column where substr starts on the first line
// containing it, with escape sequences stripped.
func column(t *testing.T, out, line, substr string) int {
	t.Helper()
	for _, l := range strings.Split(ansiRegexp.ReplaceAllString(out, ""), "\n") {
		if strings.Contains(l, line) {
			i := strings.Index(l, substr)
			if i >= 0 {
				return utf8.RuneCountInString(l[:i])
			}
		}
	}
	t.Fatalf("no line with %q and %q in %q", line, substr, out)
	return -1
}

func TestRenderTasksAlignsColoredCells(t *testing.T) {
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = true })

	errands := &models.CategoryRef{Name: "Errands", Color: "#6366f1", Icon: "folder"}
	var buf bytes.Buffer
	RenderTasks(&buf, []*models.Task{
		{ID: "0192f0a1-7c1e-7000-8000-00000000aaaa", Title: "Buy milk", Status: models.StatusCompleted, Category: errands},
		{ID: "0192f0a1-7c1e-7000-8000-00000000bbbb", Title: "Buy bread", Status: models.StatusActive, Category: errands},
	})

	out := buf.String()
	require.Contains(t, out, "\x1b[")
	assert.Equal(t,
		column(t, out, "Buy milk", "Errands"),
		column(t, out, "Buy bread", "Errands"))
	assert.Equal(t,
		column(t, out, "Buy milk", "completed"),
		column(t, out, "Buy bread", "active"))
}

func TestRenderCategoriesAlignsColoredCells(t *testing.T) {
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = true })

	var buf bytes.Buffer
	RenderCategories(&buf, []*models.Category{
		{ID: "0192f0a1-7c1e-7000-8000-00000000aaaa", Name: "Errands", Color: "#6366f1"},
		{ID: "0192f0a1-7c1e-7000-8000-00000000bbbb", Name: "Work", Color: "not-a-color"},
	})

	out := buf.String()
	assert.Equal(t,
		column(t, out, "Errands", "#6366f1"),
		column(t, out, "Work", "not-a-color"))
}
