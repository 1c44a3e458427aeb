package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carelinkzm/carelink/internal/model"
	"github.com/carelinkzm/carelink/internal/store"
	"github.com/carelinkzm/carelink/internal/theme"
)

// StatsLoadedMsg carries freshly fetched dashboard counters.
type StatsLoadedMsg struct {
	Stats *model.ApplicationStats
}

// PendingLoadedMsg carries the cached pending applications shown under
// the counters.
type PendingLoadedMsg struct {
	Applications []model.Application
}

// maxPendingRows caps the pending list so the dashboard fits one screen.
const maxPendingRows = 8

// Model is the clinic dashboard view: application counters, a breakdown
// chart, and the most recent pending applications.
type Model struct {
	stats   *model.ApplicationStats
	pending []model.Application
	store   store.Store
	width   int
	height  int
}

// New creates a new dashboard model.
func New(s store.Store, width, height int) Model {
	return Model{
		store:  s,
		width:  width,
		height: height,
	}
}

// Init loads the cached pending applications. The stats come from the
// API via the parent, which sends a StatsLoadedMsg.
func (m Model) Init() tea.Cmd {
	return m.LoadPending()
}

// Update handles messages for the dashboard view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StatsLoadedMsg:
		m.stats = msg.Stats
		return m, nil

	case PendingLoadedMsg:
		m.pending = msg.Applications
		return m, nil
	}
	return m, nil
}

// LoadPending returns a tea.Cmd that queries the cache for pending
// applications, newest first.
func (m Model) LoadPending() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		status := model.ApplicationStatusPending
		apps, err := s.GetApplications(context.Background(), store.ApplicationFilter{
			Status: &status,
			Limit:  maxPendingRows,
		})
		if err != nil {
			return PendingLoadedMsg{Applications: nil}
		}
		return PendingLoadedMsg{Applications: apps}
	}
}

// View renders the dashboard.
func (m Model) View() string {
	if m.stats == nil {
		style := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return style.Render("Loading dashboard...")
	}

	var sections []string
	sections = append(sections, m.renderCards())
	sections = append(sections, "")
	sections = append(sections, m.renderChart())
	sections = append(sections, "")
	sections = append(sections, m.renderPending())

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderCards draws the four counter cards side by side.
func (m Model) renderCards() string {
	cards := []struct {
		label string
		value int
		color lipgloss.AdaptiveColor
	}{
		{"Total", m.stats.Total, theme.ColorBlue},
		{"Pending", m.stats.Pending, theme.ColorYellow},
		{"Accepted", m.stats.Accepted, theme.ColorGreen},
		{"Rejected", m.stats.Rejected, theme.ColorRed},
	}

	rendered := make([]string, len(cards))
	for i, c := range cards {
		valueStyle := lipgloss.NewStyle().Bold(true).Foreground(c.color)
		labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

		body := lipgloss.JoinVertical(
			lipgloss.Center,
			valueStyle.Render(fmt.Sprintf("%d", c.value)),
			labelStyle.Render(c.label),
		)
		rendered[i] = theme.BorderStyle.
			Padding(0, 2).
			Render(body)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderChart draws a horizontal bar per status, scaled to the largest
// bucket.
func (m Model) renderChart() string {
	rows := []struct {
		label string
		value int
		color lipgloss.AdaptiveColor
	}{
		{"pending ", m.stats.Pending, theme.ColorYellow},
		{"accepted", m.stats.Accepted, theme.ColorGreen},
		{"rejected", m.stats.Rejected, theme.ColorRed},
	}

	max := 0
	for _, r := range rows {
		if r.value > max {
			max = r.value
		}
	}
	if max == 0 {
		return theme.HelpStyle.Render("No applications yet.")
	}

	barSpace := m.width - 24
	if barSpace < 10 {
		barSpace = 10
	}

	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	lines := make([]string, len(rows))
	for i, r := range rows {
		width := r.value * barSpace / max
		if r.value > 0 && width == 0 {
			width = 1
		}
		bar := lipgloss.NewStyle().
			Foreground(r.color).
			Render(strings.Repeat("█", width))
		lines[i] = fmt.Sprintf(
			"%s %s %d", labelStyle.Render(r.label), bar, r.value,
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderPending lists the most recent pending applications.
func (m Model) renderPending() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)

	header := headerStyle.Render(
		fmt.Sprintf("Pending Applications (%d)", m.stats.Pending),
	)

	if len(m.pending) == 0 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			theme.HelpStyle.Render("Nothing waiting on a decision."),
		)
	}

	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue)
	timeStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	lines := []string{header}
	for _, app := range m.pending {
		lines = append(lines, fmt.Sprintf(
			"%s applied for %s  %s",
			nameStyle.Render(app.ProviderName),
			app.GigTitle,
			timeStyle.Render(app.AppliedAt.Format("Jan 02 15:04")),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// SetSize updates the dashboard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
