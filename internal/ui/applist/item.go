package applist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carelinkzm/carelink/internal/model"
	"github.com/carelinkzm/carelink/internal/theme"
)

// AppItem wraps a model.Application so it can be used in a bubbles/list.
type AppItem struct {
	Application model.Application

	// ShowProvider selects the clinic rendering, which leads with the
	// applicant's name instead of the gig title.
	ShowProvider bool
}

// FilterValue returns the string used for fuzzy filtering.
func (i AppItem) FilterValue() string {
	if i.ShowProvider {
		return i.Application.ProviderName
	}
	return i.Application.GigTitle
}

// Title returns the item title for the list.
func (i AppItem) Title() string {
	if i.ShowProvider {
		return i.Application.ProviderName
	}
	return i.Application.GigTitle
}

// Description returns a short summary line for the list.
func (i AppItem) Description() string {
	return fmt.Sprintf("%s | %s", i.Application.Status,
		i.Application.AppliedAt.Format("Jan 02"))
}

// AppDelegate implements list.ItemDelegate for rendering application rows.
type AppDelegate struct{}

// Height returns the number of lines each item takes.
func (d AppDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d AppDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d AppDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single application row.
func (d AppDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ai, ok := item.(AppItem)
	if !ok {
		return
	}

	app := ai.Application
	isSelected := index == m.Index()

	statusBadge := theme.ApplicationStatusStyle(app.Status).Render(app.Status)

	var lead string
	if ai.ShowProvider {
		lead = fmt.Sprintf("%s → %s", app.ProviderName, app.GigTitle)
	} else {
		lead = app.GigTitle
	}

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(relativeTime(app.AppliedAt))

	noteHint := ""
	if app.Note != "" {
		noteHint = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" ✎")
	}

	line := fmt.Sprintf("%s %s%s  %s", statusBadge, lead, noteHint, timeStr)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
