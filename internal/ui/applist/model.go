package applist

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carelinkzm/carelink/internal/keys"
	"github.com/carelinkzm/carelink/internal/model"
	"github.com/carelinkzm/carelink/internal/store"
	"github.com/carelinkzm/carelink/internal/theme"
)

// ApplicationsLoadedMsg is sent when applications have been loaded from
// the cache.
type ApplicationsLoadedMsg struct {
	Applications []model.Application
}

// DecideMsg signals the parent to accept or reject an application.
type DecideMsg struct {
	ApplicationID string
	Status        string
}

// OpenGigMsg signals the parent to open the gig an application targets.
type OpenGigMsg struct {
	GigID string
}

// Model is the applications view. Providers see their own applications;
// clinics see applications across their gigs and can accept or reject.
type Model struct {
	list   list.Model
	store  store.Store
	keys   *keys.KeyMap
	clinic bool
	width  int
	height int
}

// New creates a new applications model. clinic enables the accept and
// reject actions and the provider-led rendering.
func New(s store.Store, k *keys.KeyMap, clinic bool, width, height int) Model {
	delegate := AppDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "My Applications"
	if clinic {
		l.Title = "Applications"
	}
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		store:  s,
		keys:   k,
		clinic: clinic,
		width:  width,
		height: height,
	}
}

// Init returns a command that loads the initial set of applications.
func (m Model) Init() tea.Cmd {
	return m.LoadApplications()
}

// Update handles messages for the applications view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ApplicationsLoadedMsg:
		items := make([]list.Item, len(msg.Applications))
		for i, app := range msg.Applications {
			items[i] = AppItem{Application: app, ShowProvider: m.clinic}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Select):
			item, ok := m.list.SelectedItem().(AppItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return OpenGigMsg{GigID: item.Application.GigID}
			}

		case key.Matches(msg, m.keys.Accept):
			if m.clinic {
				return m.decide(model.ApplicationStatusAccepted)
			}

		case key.Matches(msg, m.keys.Reject):
			if m.clinic {
				return m.decide(model.ApplicationStatusRejected)
			}
		}
	}

	// Delegate to list model for other messages
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// decide emits a DecideMsg for the selected pending application.
func (m Model) decide(status string) (Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(AppItem)
	if !ok {
		return m, nil
	}
	if item.Application.Status != model.ApplicationStatusPending {
		return m, nil
	}

	id := item.Application.ID
	return m, func() tea.Msg {
		return DecideMsg{ApplicationID: id, Status: status}
	}
}

// View renders the applications view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text when no applications are available.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.clinic {
		return style.Render("No applications yet.\n\nThey appear here as providers apply.")
	}

	return style.Render("No applications yet.\n\nBrowse gigs and press 'a' to apply.")
}

// LoadApplications returns a tea.Cmd that queries the cache.
func (m Model) LoadApplications() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		apps, err := s.GetApplications(
			context.Background(), store.ApplicationFilter{},
		)
		if err != nil {
			return ApplicationsLoadedMsg{Applications: nil}
		}
		return ApplicationsLoadedMsg{Applications: apps}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
