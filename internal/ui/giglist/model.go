package giglist

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carelinkzm/carelink/internal/keys"
	"github.com/carelinkzm/carelink/internal/model"
	"github.com/carelinkzm/carelink/internal/store"
	"github.com/carelinkzm/carelink/internal/theme"
)

// GigsLoadedMsg is sent when gigs have been loaded from the cache.
type GigsLoadedMsg struct {
	Gigs []model.Gig
}

// SelectedGigMsg is sent when a user selects a gig to view details.
type SelectedGigMsg struct {
	GigID string
}

// sortModes defines the available sort modes cycled by Tab.
var sortModes = []string{
	"updated_at",
	"starts_at",
	"rate",
	"title",
}

// Model is the gig browsing view.
type Model struct {
	list        list.Model
	store       store.Store
	keys        *keys.KeyMap
	filter      store.GigFilter
	clinicOnly  bool
	clinicID    string
	sortIndex   int
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new gig list model. When clinicID is non-empty the list
// shows only that clinic's own postings.
func New(s store.Store, k *keys.KeyMap, clinicID string, width, height int) Model {
	delegate := GigDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Gigs"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search gigs..."
	si.Prompt = "/ "
	si.Width = width - 4

	filter := store.GigFilter{
		SortBy:   "updated_at",
		SortDesc: true,
	}
	if clinicID != "" {
		l.Title = "My Gigs"
		filter.ClinicID = &clinicID
	}

	return Model{
		list:        l,
		store:       s,
		keys:        k,
		filter:      filter,
		clinicOnly:  clinicID != "",
		clinicID:    clinicID,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the initial set of gigs.
func (m Model) Init() tea.Cmd {
	return m.LoadGigs()
}

// Update handles messages for the gig list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case GigsLoadedMsg:
		items := make([]list.Item, len(msg.Gigs))
		for i, gig := range msg.Gigs {
			items[i] = GigItem{Gig: gig}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	// Delegate to list model for other messages
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		query := m.searchInput.Value()
		if query != "" {
			m.filter.Query = &query
		} else {
			m.filter.Query = nil
		}
		return m, m.LoadGigs()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.filter.Query = nil
		return m, m.LoadGigs()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(GigItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedGigMsg{GigID: item.Gig.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case msg.String() == "tab":
		m.sortIndex = (m.sortIndex + 1) % len(sortModes)
		m.filter.SortBy = sortModes[m.sortIndex]
		return m, m.LoadGigs()
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// SelectedGig returns the gig under the cursor, if any.
func (m Model) SelectedGig() (model.Gig, bool) {
	item, ok := m.list.SelectedItem().(GigItem)
	if !ok {
		return model.Gig{}, false
	}
	return item.Gig, true
}

// View renders the gig list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no gigs are available.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.filter.Query != nil {
		return style.Render("No matching gigs.\nTry a different search.")
	}

	if m.clinicOnly {
		return style.Render(
			"No gigs posted yet.\n\nPress 'p' to post your first gig.",
		)
	}

	return style.Render(
		"No gigs available right now.\n\nPress 'r' to refresh.",
	)
}

// LoadGigs returns a tea.Cmd that queries the cache with the current filter.
func (m Model) LoadGigs() tea.Cmd {
	filter := m.filter
	s := m.store
	return func() tea.Msg {
		gigs, err := s.GetGigs(context.Background(), filter)
		if err != nil {
			return GigsLoadedMsg{Gigs: nil}
		}
		return GigsLoadedMsg{Gigs: gigs}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
