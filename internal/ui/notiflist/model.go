package notiflist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carelinkzm/carelink/internal/keys"
	"github.com/carelinkzm/carelink/internal/notify"
	"github.com/carelinkzm/carelink/internal/theme"
)

// BackMsg signals the parent to close the notifications panel.
type BackMsg struct{}

// ActivatedMsg is sent when the user activates a notification, so the
// parent can navigate to the view the event is about.
type ActivatedMsg struct {
	ID   uint64
	Kind notify.Kind
}

// EventItem wraps a notify.Event so it can be used in a bubbles/list.
type EventItem struct {
	Event notify.Event
}

// FilterValue returns the string used for fuzzy filtering.
func (i EventItem) FilterValue() string { return i.Event.Title }

// Title returns the notification title for the list.
func (i EventItem) Title() string { return i.Event.Title }

// Description returns the notification body for the list.
func (i EventItem) Description() string { return i.Event.Message }

// EventDelegate implements list.ItemDelegate for rendering notifications.
type EventDelegate struct{}

// Height returns the number of lines each item takes.
func (d EventDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d EventDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d EventDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single notification entry: a title line with an unread
// marker and a dimmed message line.
func (d EventDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ei, ok := item.(EventItem)
	if !ok {
		return
	}

	e := ei.Event
	isSelected := index == m.Index()

	marker := " "
	titleStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	if !e.Read {
		marker = "●"
		titleStyle = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	}

	severityDot := lipgloss.NewStyle().
		Foreground(severityColor(e.Severity())).
		Render(marker)

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(relativeTime(e.CreatedAt))

	titleLine := fmt.Sprintf("%s %s  %s",
		severityDot, titleStyle.Render(e.Title), timeStr)
	messageLine := "  " + lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(e.Message)

	block := lipgloss.JoinVertical(lipgloss.Left, titleLine, messageLine)

	if isSelected {
		block = theme.SelectedItemStyle.Render(block)
	} else {
		block = theme.ListItemStyle.Render(block)
	}

	fmt.Fprint(w, block)
}

// severityColor maps a notification severity to its display color.
func severityColor(sev notify.Severity) lipgloss.AdaptiveColor {
	switch sev {
	case notify.SeveritySuccess:
		return theme.ColorGreen
	case notify.SeverityWarning:
		return theme.ColorOrange
	default:
		return theme.ColorBlue
	}
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

// Model is the notifications panel.
type Model struct {
	list   list.Model
	center *notify.Center
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new notifications panel model.
func New(center *notify.Center, k *keys.KeyMap, width, height int) Model {
	delegate := EventDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Notifications"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		center: center,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init reloads the panel from the notification center.
func (m Model) Init() tea.Cmd {
	return nil
}

// Reload refreshes the panel contents from the notification center.
// Call it when opening the panel and after each sync cycle.
func (m *Model) Reload() tea.Cmd {
	events := m.center.Events()
	items := make([]list.Item, len(events))
	for i, e := range events {
		items[i] = EventItem{Event: e}
	}
	return m.list.SetItems(items)
}

// Update handles messages for the notifications panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Select):
			item, ok := m.list.SelectedItem().(EventItem)
			if !ok {
				return m, nil
			}
			m.center.MarkAsRead(item.Event.ID)
			if item.Event.OnActivate != nil {
				item.Event.OnActivate()
			}
			cmd := m.Reload()
			id := item.Event.ID
			kind := item.Event.Kind
			return m, tea.Batch(cmd, func() tea.Msg {
				return ActivatedMsg{ID: id, Kind: kind}
			})

		case key.Matches(msg, m.keys.MarkAll):
			m.center.MarkAllAsRead()
			return m, m.Reload()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the notifications panel.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		style := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return style.Render("No notifications yet.")
	}
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
