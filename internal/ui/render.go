package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/adanyl0v/flowfocus/internal/locallist"
	"github.com/adanyl0v/flowfocus/internal/models"
	"github.com/adanyl0v/flowfocus/internal/registry"
)

func RenderTasks(w io.Writer, tasks []*models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, Dim("No tasks yet."))
		return
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		title := t.Title
		if t.Status == models.StatusCompleted {
			title = Dim(title)
		}
		rows = append(rows, []string{
			StatusIcon(t.Status), Dim(shortID(t.ID)), title, Badge(t.Category), StatusLabel(t.Status),
		})
		if t.Description != nil {
			rows = append(rows, []string{"", "", Dim(*t.Description), "", ""})
		}
	}
	renderTable(w, rows)
}

func RenderCategories(w io.Writer, categories []*models.Category) {
	if len(categories) == 0 {
		fmt.Fprintln(w, Dim("No categories yet."))
		return
	}

	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{Swatch(c.Color), Dim(shortID(c.ID)), c.Name, Dim(c.Color)})
	}
	renderTable(w, rows)
}

func RenderStats(w io.Writer, stats models.Stats) {
	fmt.Fprintf(w, "%s %d   %s %d   %s %d   %s %d\n",
		Bold("Total"), stats.Total,
		Cyan("Active"), stats.Active,
		Yellow("Paused"), stats.Paused,
		Green("Completed"), stats.Completed)
	fmt.Fprintf(w, "%s %s %d%%\n", Bold("Completion"), progressBar(stats.CompletionRate, 20), stats.CompletionRate)
}

func RenderProfile(w io.Writer, user *models.User, avatar string, stats models.Stats) {
	fmt.Fprintln(w, Bold(user.DisplayName()))
	fmt.Fprintln(w, Dim(user.Email))
	if avatar != "" {
		fmt.Fprintln(w, Dim("avatar: "+avatarKind(avatar)))
	}
	if !user.CreatedAt.IsZero() {
		fmt.Fprintln(w, Dim("member since "+user.CreatedAt.Format("January 2006")))
	}
	fmt.Fprintln(w)
	RenderStats(w, stats)
}

func RenderList(w io.Writer, entries []locallist.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, Dim("Nothing here."))
		return
	}
	for _, e := range entries {
		mark, text := "[ ]", e.Text
		if e.Completed {
			mark, text = Green("[x]"), Dim(e.Text)
		}
		fmt.Fprintf(w, "%3d %s %s\n", e.Index+1, mark, text)
	}
}

func RenderNotification(w io.Writer, n registry.Notification) {
	title := BoldGreen(n.Title)
	if n.Destructive {
		title = BoldRed(n.Title)
	}
	if n.Description == "" {
		fmt.Fprintln(w, title)
		return
	}
	fmt.Fprintf(w, "%s %s\n", title, n.Description)
}

var (
	cellStyle     = lipgloss.NewStyle().PaddingRight(2)
	lastCellStyle = lipgloss.NewStyle()
)

// renderTable lines up colored cells by their visible width.
func renderTable(w io.Writer, rows [][]string) {
	columns := len(rows[0])
	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == columns-1 {
				return lastCellStyle
			}
			return cellStyle
		}).
		Rows(rows...)
	fmt.Fprintln(w, t.String())
}

func progressBar(percent, width int) string {
	filled := percent * width / 100
	return Green(strings.Repeat("█", filled)) + Dim(strings.Repeat("░", width-filled))
}

// avatarKind turns "data:image/png;base64,..." into "image/png".
func avatarKind(dataURL string) string {
	kind := strings.TrimPrefix(dataURL, "data:")
	if i := strings.IndexByte(kind, ';'); i >= 0 {
		kind = kind[:i]
	}
	return kind
}

// shortID keeps the random tail of a UUIDv7, which is what tells
// ids created in the same millisecond apart.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}
