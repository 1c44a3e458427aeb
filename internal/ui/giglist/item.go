package giglist

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

// StalenessThreshold defines how old FetchedAt can be before a gig is
// considered stale. Defaults to 5 minutes.
var StalenessThreshold = 5 * time.Minute

// GigItem wraps a model.Gig so it can be used in a bubbles/list.
type GigItem struct {
	Gig model.Gig
}

// FilterValue returns the string used for fuzzy filtering.
func (i GigItem) FilterValue() string { return i.Gig.Title }

// Title returns the gig title for the list.
func (i GigItem) Title() string { return i.Gig.Title }

// Description returns a short summary line for the list.
func (i GigItem) Description() string {
	return fmt.Sprintf(
		"%s | %s | K%.0f",
		i.Gig.ClinicName, i.Gig.Location, i.Gig.Rate,
	)
}

// GigDelegate implements list.ItemDelegate for rendering gig rows.
type GigDelegate struct{}

// Height returns the number of lines each item takes.
func (d GigDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d GigDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d GigDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single gig row.
func (d GigDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	gi, ok := item.(GigItem)
	if !ok {
		return
	}

	g := gi.Gig
	isSelected := index == m.Index()

	statusBadge := theme.GigStatusStyle(g.Status).Render(g.Status)

	specialty := lipgloss.NewStyle().
		Foreground(theme.ColorMagenta).
		Render(g.Specialty)

	rate := lipgloss.NewStyle().
		Foreground(theme.ColorGreen).
		Render(fmt.Sprintf("K%.0f", g.Rate))

	staleIndicator := ""
	if time.Since(g.FetchedAt) > StalenessThreshold {
		staleIndicator = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" ●")
	}

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(relativeTime(g.UpdatedAt))

	line := fmt.Sprintf(
		"%s %s %s @ %s %s%s  %s",
		statusBadge, specialty, g.Title, g.Location, rate,
		staleIndicator, timeStr,
	)

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
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}
