package login

import (
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// typeString feeds each rune through Update, reassigning the model by
// value each time the way the Bubble Tea runtime does.
func typeString(t *testing.T, m Model, s string) Model {
	t.Helper()

	for _, r := range s {
		m, _ = pump(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// pump applies msg through Update and then, like the Bubble Tea runtime,
// executes every command the update produced and feeds the resulting
// messages back into Update until none remain. Spinner ticks and cursor
// blinks are not fed back (their self-scheduling loops would never
// terminate). All produced messages are returned for inspection.
func pump(m Model, msg tea.Msg) (Model, []tea.Msg) {
	var produced []tea.Msg
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		var cmd tea.Cmd
		m, cmd = m.Update(cur)
		for _, out := range collectMsgs(cmd) {
			if out == nil {
				continue
			}
			produced = append(produced, out)
			switch out.(type) {
			case spinner.TickMsg, cursor.BlinkMsg:
				continue
			}
			queue = append(queue, out)
		}
	}
	return m, produced
}

// collectMsgs executes a command tree and flattens the produced messages.
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collectMsgs(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func TestSubmitCarriesTypedCredentials(t *testing.T) {
	m := New(80, 24)
	_ = m.Init()

	m = typeString(t, m, "nurse@example.com")
	m, _ = pump(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = typeString(t, m, "goodpass")

	var msgs []tea.Msg
	m, msgs = pump(m, tea.KeyMsg{Type: tea.KeyEnter})

	var submit *SubmitMsg
	for _, msg := range msgs {
		if s, ok := msg.(SubmitMsg); ok {
			submit = &s
		}
	}
	if submit == nil {
		t.Fatal("completing the form produced no SubmitMsg")
	}
	if submit.Identifier != "nurse@example.com" {
		t.Errorf("Identifier = %q, want the typed email", submit.Identifier)
	}
	if submit.Secret != "goodpass" {
		t.Errorf("Secret = %q, want the typed password", submit.Secret)
	}
}

func TestSetFailureClearsSecretKeepsIdentifier(t *testing.T) {
	m := New(80, 24)
	_ = m.Init()

	m = typeString(t, m, "nurse@example.com")
	m, _ = pump(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = typeString(t, m, "badpass")
	m, _ = pump(m, tea.KeyMsg{Type: tea.KeyEnter})

	_ = m.SetFailure("Invalid email or password")

	if m.authenticating {
		t.Error("still authenticating after a failure")
	}
	if m.failureMsg != "Invalid email or password" {
		t.Errorf("failureMsg = %q", m.failureMsg)
	}
	if m.fb.secret != "" {
		t.Errorf("secret = %q, want cleared", m.fb.secret)
	}
	if m.fb.identifier != "nurse@example.com" {
		t.Errorf("identifier = %q, want preserved for retry", m.fb.identifier)
	}
}
