package models

import (
	"strings"
	"time"
)

const (
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
)

// Statuses lists every task status. Any status may follow any other.
var Statuses = []string{StatusActive, StatusPaused, StatusCompleted}

func IsValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusPaused, StatusCompleted:
		return true
	default:
		return false
	}
}

type Task struct {
	ID          string
	UserID      string
	CategoryID  *string
	Title       string
	Description *string
	Status      string
	// Category holds the joined display fields of the referenced
	// category and is nil when the task has no category.
	Category  *CategoryRef
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CategoryRef struct {
	Name  string
	Color string
	Icon  string
}

// Clone returns a deep copy so cached tasks can be handed out safely.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.CategoryID != nil {
		id := *t.CategoryID
		c.CategoryID = &id
	}
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.Category != nil {
		ref := *t.Category
		c.Category = &ref
	}
	return &c
}

// TaskPatch is a partial update. A nil field means "no change";
// an empty Description clears it.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	CategoryID  *string
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil &&
		p.Description == nil &&
		p.Status == nil &&
		p.CategoryID == nil
}

// Apply copies the patched fields onto t. The joined category
// display fields are left to the caller.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = NormalizeDescription(p.Description)
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.CategoryID != nil {
		id := *p.CategoryID
		t.CategoryID = &id
	}
}

// NormalizeDescription trims the description and maps blank values to nil.
func NormalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	d := strings.TrimSpace(*description)
	if d == "" {
		return nil
	}
	return &d
}
