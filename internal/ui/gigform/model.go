package gigform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/carelinkzm/carelink/internal/model"
	"github.com/carelinkzm/carelink/internal/theme"
)

// GigSubmittedMsg is dispatched when a new gig posting is submitted.
type GigSubmittedMsg struct {
	Gig model.Gig
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

// specialties lists the provider specialties a clinic can request.
var specialties = []string{
	"nurse",
	"midwife",
	"clinical officer",
	"lab technician",
	"pharmacist",
	"general practitioner",
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	location    string
	specialty   string
	rate        string
	startsAt    string
	endsAt      string
}

// Model is the Bubble Tea model for the gig posting form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new gig form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{specialty: specialties[0]},
		width:  width,
		height: height,
	}
}

// Start initializes the form for posting a new gig.
func (m *Model) Start() tea.Cmd {
	m.fb.title = ""
	m.fb.description = ""
	m.fb.location = ""
	m.fb.specialty = specialties[0]
	m.fb.rate = ""
	m.fb.startsAt = ""
	m.fb.endsAt = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the gig form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the gig form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Post a Gig") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	specialtyOpts := make([]huh.Option[string], len(specialties))
	for i, s := range specialties {
		specialtyOpts[i] = huh.NewOption(s, s)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Night shift nurse needed").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Description").
				Placeholder("Shift details, requirements...").
				Value(&m.fb.description),
			huh.NewInput().
				Title("Location").
				Placeholder("Lusaka").
				Value(&m.fb.location).
				Validate(validateRequired("Location")),
			huh.NewSelect[string]().
				Title("Specialty").
				Options(specialtyOpts...).
				Value(&m.fb.specialty),
			huh.NewInput().
				Title("Rate (kwacha)").
				Placeholder("1500").
				Value(&m.fb.rate).
				Validate(validateRate),
			huh.NewInput().
				Title("Starts").
				Placeholder("YYYY-MM-DD HH:MM").
				Value(&m.fb.startsAt).
				Validate(validateDateTime),
			huh.NewInput().
				Title("Ends").
				Placeholder("YYYY-MM-DD HH:MM").
				Value(&m.fb.endsAt).
				Validate(validateDateTime),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	rate, _ := strconv.ParseFloat(strings.TrimSpace(m.fb.rate), 64)

	gig := model.Gig{
		Title:       m.fb.title,
		Description: m.fb.description,
		Location:    m.fb.location,
		Specialty:   m.fb.specialty,
		Rate:        rate,
		Status:      model.GigStatusActive,
	}

	if t, err := parseDateTime(m.fb.startsAt); err == nil {
		gig.StartsAt = t
	}
	if t, err := parseDateTime(m.fb.endsAt); err == nil {
		gig.EndsAt = t
	}

	return func() tea.Msg { return GigSubmittedMsg{Gig: gig} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func parseDateTime(s string) (time.Time, error) {
	return time.Parse("2006-01-02 15:04", strings.TrimSpace(s))
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateRate(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive amount")
	}
	return nil
}

func validateDateTime(s string) error {
	if _, err := parseDateTime(s); err != nil {
		return fmt.Errorf("invalid format, use YYYY-MM-DD HH:MM")
	}
	return nil
}
