package models

import (
	"regexp"
	"time"
)

const (
	DefaultCategoryColor = "#6366f1"
	DefaultCategoryIcon  = "folder"
)

// CategoryPalette is the set of colors offered when creating a category.
var CategoryPalette = []string{
	"#6366f1", "#8b5cf6", "#ec4899", "#ef4444",
	"#f59e0b", "#10b981", "#06b6d4", "#84cc16",
}

var hexColorRegexp = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func IsValidColor(color string) bool {
	return hexColorRegexp.MatchString(color)
}

type Category struct {
	ID        string
	UserID    string
	Name      string
	Color     string
	Icon      string
	CreatedAt time.Time
}

func (c *Category) Ref() *CategoryRef {
	return &CategoryRef{
		Name:  c.Name,
		Color: c.Color,
		Icon:  c.Icon,
	}
}
