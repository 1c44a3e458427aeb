package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/carelinkzm/carelink/internal/notify"
	"github.com/carelinkzm/carelink/internal/theme"
)

// Layout manages the terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	AlertHeight     int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// Header, alert bar, and status bar each take one row; the alert row is
// reserved whether or not an alert is showing so the content area does
// not jump when one appears.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		AlertHeight:     1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header, alert bar, and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.AlertHeight - l.StatusBarHeight
}

// RenderHeader renders the top header bar with a title, the unread
// notification count, and sync status.
func (l Layout) RenderHeader(title string, unread int, syncStatus string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	var badge string
	if unread > 0 {
		badge = theme.UnreadBadgeStyle.Render(fmt.Sprintf("%d unread", unread))
	}

	statusRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(syncStatus)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(badge) -
		lipgloss.Width(statusRendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.HeaderStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.HeaderStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		badge,
		filler,
		statusRendered,
	)
}

// RenderAlertBar renders the transient alert row. When no alert is
// visible it renders an empty row so the layout height stays constant.
func (l Layout) RenderAlertBar(alert notify.Alert) string {
	if !alert.Visible {
		return lipgloss.NewStyle().Width(l.Width).Render("")
	}

	rendered := theme.AlertStyle(alert.Severity).Render(alert.Message)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		rendered,
		lipgloss.NewStyle().Width(gap).Render(""),
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.StatusBarStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, alert bar, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	alertBar string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		alertBar,
		content,
		statusBar,
	)
}
