// Package ui renders flowfocus data for the terminal.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/adanyl0v/flowfocus/internal/models"
)

var (
	Bold      = color.New(color.Bold).SprintFunc()
	Dim       = color.New(color.Faint).SprintFunc()
	Green     = color.New(color.FgGreen).SprintFunc()
	Red       = color.New(color.FgRed).SprintFunc()
	Yellow    = color.New(color.FgYellow).SprintFunc()
	Cyan      = color.New(color.FgCyan).SprintFunc()
	BoldGreen = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed   = color.New(color.Bold, color.FgRed).SprintFunc()
)

// StatusIcon returns a colored status icon.
func StatusIcon(status string) string {
	switch status {
	case models.StatusCompleted:
		return Green("✓")
	case models.StatusPaused:
		return Yellow("⏸")
	case models.StatusActive:
		return Cyan("●")
	default:
		return Dim("◌")
	}
}

func StatusLabel(status string) string {
	switch status {
	case models.StatusCompleted:
		return Green(status)
	case models.StatusPaused:
		return Yellow(status)
	default:
		return Cyan(status)
	}
}

// Swatch paints a small block in the category's hex color.
func Swatch(hex string) string {
	if !models.IsValidColor(hex) {
		return Dim("■")
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hex)).
		Render("■")
}

// Badge renders a category name in its own color.
func Badge(ref *models.CategoryRef) string {
	if ref == nil {
		return Dim("uncategorized")
	}
	return Swatch(ref.Color) + " " + ref.Name
}
