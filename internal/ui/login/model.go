package login

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/carelinkzm/carelink/internal/theme"
)

// SubmitMsg carries the credentials entered into the sign-in form.
type SubmitMsg struct {
	Identifier string
	Secret     string
}

// formBindings holds the credential values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	identifier string
	secret     string
}

// Model is the sign-in view shown when no session is present.
type Model struct {
	form *huh.Form
	fb   *formBindings

	authenticating bool
	spinner        spinner.Model
	failureMsg     string

	width  int
	height int
}

// New creates a new sign-in model.
func New(width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		fb:      &formBindings{},
		spinner: sp,
		width:   width,
		height:  height,
	}
	m.form = m.buildForm()
	return m
}

// buildForm constructs the credential entry form.
func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@clinic.zm").
				Value(&m.fb.identifier).
				Validate(validateRequired("Email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.secret).
				Validate(validateRequired("Password")),
		),
	).WithWidth(m.formWidth())
}

// validateRequired rejects empty input for the named field.
func validateRequired(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the sign-in view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.authenticating {
		if tick, ok := msg.(spinner.TickMsg); ok {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(tick)
			return m, cmd
		}
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.authenticating = true
		identifier := m.fb.identifier
		secret := m.fb.secret
		return m, tea.Batch(
			m.spinner.Tick,
			func() tea.Msg {
				return SubmitMsg{Identifier: identifier, Secret: secret}
			},
		)
	}

	return m, cmd
}

// SetFailure records a failed sign-in attempt and resets the form so the
// user can retry. The message comes from the server when it provided one.
func (m *Model) SetFailure(message string) tea.Cmd {
	m.authenticating = false
	m.failureMsg = message
	m.fb.secret = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// View renders the sign-in view.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Sign in to CareLink")

	var body string
	if m.authenticating {
		body = fmt.Sprintf("%s Signing in...", m.spinner.View())
	} else {
		body = m.form.View()
	}

	sections := []string{title}
	if m.failureMsg != "" && !m.authenticating {
		failStyle := lipgloss.NewStyle().
			Foreground(theme.ColorRed).
			MarginBottom(1)
		sections = append(sections, failStyle.Render(m.failureMsg))
	}
	sections = append(sections, body)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(theme.DetailPanelStyle.Render(content))
}

// formWidth returns the width used for the credential form.
func (m Model) formWidth() int {
	w := m.width - 16
	if w > 60 {
		w = 60
	}
	if w < 30 {
		w = 30
	}
	return w
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
