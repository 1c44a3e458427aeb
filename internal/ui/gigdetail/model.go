package gigdetail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carelinkzm/carelink/internal/keys"
	"github.com/carelinkzm/carelink/internal/model"
	"github.com/carelinkzm/carelink/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// GigLoadedMsg carries the loaded gig and, for clinics, its applications.
type GigLoadedMsg struct {
	Gig          *model.Gig
	Applications []model.Application
}

// ApplyMsg signals the parent to submit an application for the gig.
type ApplyMsg struct {
	GigID string
	Note  string
}

// Model is the gig detail view component.
type Model struct {
	gig          *model.Gig
	applications []model.Application
	viewport     viewport.Model
	keys         *keys.KeyMap
	canApply     bool
	noteMode     bool
	noteInput    textinput.Model
	width        int
	height       int
	loading      bool
}

// New creates a new gig detail model. canApply enables the provider-side
// apply flow.
func New(k *keys.KeyMap, canApply bool, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	ni := textinput.New()
	ni.Placeholder = "cover note (optional)..."
	ni.Prompt = "> "
	ni.Width = width - 4
	ni.CharLimit = 280

	return Model{
		viewport:  vp,
		keys:      k,
		canApply:  canApply,
		noteInput: ni,
		width:     width,
		height:    height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case GigLoadedMsg:
		m.gig = msg.Gig
		m.applications = msg.Applications
		m.loading = false
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		if m.noteMode {
			return m.handleNoteKeys(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Apply):
			if m.canApply && m.gig != nil && m.gig.Status == model.GigStatusActive {
				m.noteMode = true
				m.noteInput.Reset()
				return m, m.noteInput.Focus()
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleNoteKeys processes key input while composing the cover note.
func (m Model) handleNoteKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.noteMode = false
		gigID := m.gig.ID
		note := m.noteInput.Value()
		return m, func() tea.Msg {
			return ApplyMsg{GigID: gigID, Note: note}
		}

	case "esc":
		m.noteMode = false
		m.noteInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.noteInput, cmd = m.noteInput.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		loadingStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return loadingStyle.Render("Loading gig details...")
	}

	if m.gig == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No gig selected")
	}

	if m.noteMode {
		noteBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.noteInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), noteBar)
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.gig == nil {
		return ""
	}

	gig := m.gig
	var sections []string

	// Title
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(gig.Title))

	// Badges line: status + specialty + rate
	statusBadge := theme.GigStatusStyle(gig.Status).Render(gig.Status)

	specialtyBadge := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorMagenta).
		Render(gig.Specialty)

	rateBadge := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorGreen).
		Render(fmt.Sprintf("K%.2f", gig.Rate))

	badgeLine := lipgloss.JoinHorizontal(
		lipgloss.Top, statusBadge, "  ", specialtyBadge, "  ", rateBadge,
	)
	sections = append(sections, badgeLine)
	sections = append(sections, "")

	// Metadata table
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	sections = append(sections, fmt.Sprintf(
		"%s    %s",
		metaStyle.Render("Clinic:"),
		valStyle.Render(gig.ClinicName),
	))
	sections = append(sections, fmt.Sprintf(
		"%s  %s",
		metaStyle.Render("Location:"),
		valStyle.Render(gig.Location),
	))
	if !gig.StartsAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s    %s",
			metaStyle.Render("Starts:"),
			valStyle.Render(gig.StartsAt.Format("2006-01-02 15:04")),
		))
	}
	if !gig.EndsAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s      %s",
			metaStyle.Render("Ends:"),
			valStyle.Render(gig.EndsAt.Format("2006-01-02 15:04")),
		))
	}
	sections = append(sections, fmt.Sprintf(
		"%s  %s",
		metaStyle.Render("Applied:"),
		valStyle.Render(fmt.Sprintf("%d applications", gig.ApplicationCount)),
	))

	// Separator
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))
	sections = append(sections, "")
	sections = append(sections, separator)
	sections = append(sections, "")

	// Description
	descHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	sections = append(sections, descHeaderStyle.Render("Description"))

	body := gig.Description
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	}
	sections = append(sections, body)

	// Applications section (clinic view)
	if len(m.applications) > 0 {
		sections = append(sections, "")
		sections = append(sections, separator)
		sections = append(sections, "")

		appHeaderStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorWhite)

		sections = append(sections, appHeaderStyle.Render(
			fmt.Sprintf("Applications (%d)", len(m.applications)),
		))
		sections = append(sections, "")

		nameStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue)
		timeStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

		for _, app := range m.applications {
			header := fmt.Sprintf(
				"%s %s  %s",
				nameStyle.Render(app.ProviderName),
				theme.ApplicationStatusStyle(app.Status).Render(app.Status),
				timeStyle.Render(app.AppliedAt.Format("2006-01-02 15:04")),
			)
			sections = append(sections, header)
			if app.Note != "" {
				sections = append(sections, app.Note)
			}
			sections = append(sections, "")
		}
	}

	if m.canApply && gig.Status == model.GigStatusActive {
		sections = append(sections, "")
		sections = append(sections, theme.HelpStyle.Render("press 'a' to apply"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetGig updates the gig being displayed and re-renders the content.
func (m *Model) SetGig(gig *model.Gig, apps []model.Application) {
	m.gig = gig
	m.applications = apps
	m.loading = false
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.noteInput.Width = width - 4
}
