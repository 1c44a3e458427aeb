package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/carelinkzm/carelink/internal/api"
	"github.com/carelinkzm/carelink/internal/model"
	"github.com/carelinkzm/carelink/internal/notify"
	"github.com/carelinkzm/carelink/internal/session"
	"github.com/carelinkzm/carelink/internal/store"
	appsync "github.com/carelinkzm/carelink/internal/sync"
	"github.com/carelinkzm/carelink/internal/ui"
	"github.com/carelinkzm/carelink/internal/ui/applist"
	"github.com/carelinkzm/carelink/internal/ui/dashboard"
	"github.com/carelinkzm/carelink/internal/ui/gigdetail"
	"github.com/carelinkzm/carelink/internal/ui/gigform"
	"github.com/carelinkzm/carelink/internal/ui/giglist"
	helpview "github.com/carelinkzm/carelink/internal/ui/help"
	"github.com/carelinkzm/carelink/internal/ui/login"
	"github.com/carelinkzm/carelink/internal/ui/notiflist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewGigs
	ViewGigDetail
	ViewApplications
	ViewDashboard
	ViewNotifications
	ViewGigForm
	ViewHelp
)

// sessionReadyMsg is sent once session restore from the vault finishes.
type sessionReadyMsg struct{}

// loginResultMsg carries the outcome of a sign-in attempt.
type loginResultMsg struct {
	result session.LoginResult
}

// alertTickMsg drives auto-dismissal of the transient alert.
type alertTickMsg struct{}

// applyResultMsg carries the outcome of submitting an application.
type applyResultMsg struct {
	application *model.Application
	err         error
}

// decideResultMsg carries the outcome of an accept/reject decision.
type decideResultMsg struct {
	application *model.Application
	err         error
}

// gigPostedMsg carries the outcome of posting a new gig.
type gigPostedMsg struct {
	gig *model.Gig
	err error
}

// Model is the root Bubble Tea model that manages view routing, layout,
// the session, and the notification center.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout

	client  *api.Client
	store   store.Store
	session *session.Store
	center  *notify.Center
	poller  *appsync.Poller
	keys    *KeyMap

	loginView     login.Model
	gigList       giglist.Model
	gigDetail     gigdetail.Model
	appList       applist.Model
	dashboardView dashboard.Model
	notifList     notiflist.Model
	gigFormView   gigform.Model
	helpView      helpview.Model

	ready       bool
	viewsBuilt  bool
	statusMsg   string
	pollStarted bool
}

// New creates the root application model.
func New(
	client *api.Client,
	s store.Store,
	sess *session.Store,
	center *notify.Center,
	poller *appsync.Poller,
) Model {
	keys := DefaultKeyMap()

	return Model{
		currentView: ViewLogin,
		client:      client,
		store:       s,
		session:     sess,
		center:      center,
		poller:      poller,
		keys:        keys,
		loginView:   login.New(80, 24),
		helpView:    helpview.New(keys, 80, 24),
	}
}

// Init restores the session from the vault and starts the alert ticker.
func (m Model) Init() tea.Cmd {
	sess := m.session
	restore := func() tea.Msg {
		sess.Initialize()
		return sessionReadyMsg{}
	}
	return tea.Batch(restore, m.alertTick())
}

// alertTick schedules the next alert auto-dismiss check.
func (m Model) alertTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return alertTickMsg{}
	})
}

// buildViews constructs the role-dependent views once an identity is
// available.
func (m *Model) buildViews() {
	user := m.session.Identity()
	clinic := user != nil && user.Role == model.RoleClinic

	clinicID := ""
	if clinic {
		clinicID = user.ID
	}

	w := m.layout.ContentWidth()
	h := m.layout.ContentHeight()
	if w == 0 {
		w, h = 80, 24
	}

	m.gigList = giglist.New(m.store, m.keys, clinicID, w, h)
	m.gigDetail = gigdetail.New(m.keys, !clinic, w, h)
	m.appList = applist.New(m.store, m.keys, clinic, w, h)
	m.dashboardView = dashboard.New(m.store, w, h)
	m.notifList = notiflist.New(m.center, m.keys, w, h)
	m.gigFormView = gigform.New(w, h)
	m.viewsBuilt = true
}

// enterMain switches from the login flow to the main views and starts
// background polling.
func (m *Model) enterMain() tea.Cmd {
	m.buildViews()
	m.currentView = ViewGigs

	cmds := []tea.Cmd{m.gigList.Init(), m.appList.Init()}
	if !m.pollStarted {
		m.pollStarted = true
		cmds = append(cmds, m.poller.Start())
	} else {
		m.poller.Refresh()
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.loginView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		if m.viewsBuilt {
			m.gigList.SetSize(contentWidth, contentHeight)
			m.gigDetail.SetSize(contentWidth, contentHeight)
			m.appList.SetSize(contentWidth, contentHeight)
			m.dashboardView.SetSize(contentWidth, contentHeight)
			m.notifList.SetSize(contentWidth, contentHeight)
			m.gigFormView.SetSize(contentWidth, contentHeight)
		}
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case sessionReadyMsg:
		if m.session.IsAuthenticated() {
			return m, m.enterMain()
		}
		m.currentView = ViewLogin
		return m, m.loginView.Init()

	case alertTickMsg:
		m.center.CheckAlertTimeout()
		return m, m.alertTick()

	case login.SubmitMsg:
		return m, m.doLogin(msg.Identifier, msg.Secret)

	case loginResultMsg:
		if !msg.result.Success {
			return m, m.loginView.SetFailure(msg.result.Message)
		}
		return m, m.enterMain()

	case appsync.ResultMsg:
		if msg.AuthError != nil {
			m.statusMsg = msg.AuthError.Message
		} else if msg.Error == nil {
			m.statusMsg = ""
		}

		cmds := []tea.Cmd{m.poller.WaitForNextResult()}
		if m.viewsBuilt {
			cmds = append(cmds,
				m.gigList.LoadGigs(),
				m.appList.LoadApplications(),
				m.dashboardView.LoadPending(),
			)
			if m.currentView == ViewNotifications {
				cmds = append(cmds, m.notifList.Reload())
			}
		}
		return m, tea.Batch(cmds...)

	case giglist.SelectedGigMsg:
		m.previousView = m.currentView
		m.currentView = ViewGigDetail
		m.gigDetail.SetLoading(true)
		return m, m.loadGigDetail(msg.GigID)

	case applist.OpenGigMsg:
		m.previousView = m.currentView
		m.currentView = ViewGigDetail
		m.gigDetail.SetLoading(true)
		return m, m.loadGigDetail(msg.GigID)

	case gigdetail.GigLoadedMsg:
		var cmd tea.Cmd
		m.gigDetail, cmd = m.gigDetail.Update(msg)
		return m, cmd

	case gigdetail.BackMsg:
		m.currentView = ViewGigs
		return m, nil

	case gigdetail.ApplyMsg:
		return m, m.submitApplication(msg.GigID, msg.Note)

	case applyResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Apply failed: %v", msg.err)
			return m, nil
		}
		m.center.Enqueue(notify.Event{
			Kind:    notify.KindGeneric,
			Title:   "Application Submitted",
			Message: fmt.Sprintf("You applied for %s.", msg.application.GigTitle),
		})
		m.poller.Refresh()
		return m, m.appList.LoadApplications()

	case applist.DecideMsg:
		return m, m.decideApplication(msg.ApplicationID, msg.Status)

	case decideResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Update failed: %v", msg.err)
			return m, nil
		}
		m.poller.Refresh()
		return m, tea.Batch(
			m.appList.LoadApplications(),
			m.dashboardView.LoadPending(),
		)

	case gigform.GigSubmittedMsg:
		m.currentView = ViewGigs
		return m, m.postGig(msg.Gig)

	case gigform.CancelMsg:
		m.currentView = ViewGigs
		return m, nil

	case gigPostedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Posting failed: %v", msg.err)
			return m, nil
		}
		m.poller.Refresh()
		return m, m.gigList.LoadGigs()

	case dashboard.StatsLoadedMsg, dashboard.PendingLoadedMsg:
		var cmd tea.Cmd
		m.dashboardView, cmd = m.dashboardView.Update(msg)
		return m, cmd

	case giglist.GigsLoadedMsg:
		var cmd tea.Cmd
		m.gigList, cmd = m.gigList.Update(msg)
		return m, cmd

	case applist.ApplicationsLoadedMsg:
		var cmd tea.Cmd
		m.appList, cmd = m.appList.Update(msg)
		return m, cmd

	case notiflist.BackMsg:
		m.currentView = m.previousView
		return m, nil

	case notiflist.ActivatedMsg:
		switch msg.Kind {
		case notify.KindApplicationReceived,
			notify.KindApplicationAccepted,
			notify.KindApplicationRejected:
			m.currentView = ViewApplications
			if m.viewsBuilt {
				return m, m.appList.LoadApplications()
			}
		}
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work regardless of the active view.
// Keys are not intercepted while a text input has focus.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		m.poller.Stop()
		return tea.Quit, true
	}

	// Everything below is for the signed-in browsing views only; forms
	// and the login screen own their keystrokes.
	switch m.currentView {
	case ViewLogin, ViewGigForm:
		return nil, false
	}
	if !m.viewsBuilt {
		return nil, false
	}

	switch msg.String() {
	case "q":
		if m.currentView == ViewGigs {
			m.poller.Stop()
			return tea.Quit, true
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil, true

	case "n":
		if m.currentView == ViewNotifications {
			m.currentView = m.previousView
			return nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewNotifications
		return m.notifList.Reload(), true

	case "r":
		m.poller.Refresh()
		return nil, true

	case "1":
		m.currentView = ViewGigs
		return m.gigList.LoadGigs(), true

	case "2":
		m.currentView = ViewApplications
		return m.appList.LoadApplications(), true

	case "3":
		if m.session.HasRole(model.RoleClinic) {
			m.currentView = ViewDashboard
			return tea.Batch(
				m.fetchStats(),
				m.dashboardView.LoadPending(),
			), true
		}

	case "p":
		if m.session.HasRole(model.RoleClinic) && m.currentView == ViewGigs {
			m.previousView = m.currentView
			m.currentView = ViewGigForm
			return m.gigFormView.Start(), true
		}

	case "d":
		m.center.DismissAlert()
		return nil, true

	case "L":
		m.session.Logout()
		m.statusMsg = ""
		m.currentView = ViewLogin
		m.loginView = login.New(
			m.layout.ContentWidth(), m.layout.ContentHeight(),
		)
		return m.loginView.Init(), true
	}

	return nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewGigs:
		m.gigList, cmd = m.gigList.Update(msg)
	case ViewGigDetail:
		m.gigDetail, cmd = m.gigDetail.Update(msg)
	case ViewApplications:
		m.appList, cmd = m.appList.Update(msg)
	case ViewDashboard:
		m.dashboardView, cmd = m.dashboardView.Update(msg)
	case ViewNotifications:
		m.notifList, cmd = m.notifList.Update(msg)
	case ViewGigForm:
		m.gigFormView, cmd = m.gigFormView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.session.Initializing() {
		return "Restoring session..."
	}

	header := m.layout.RenderHeader(
		m.headerTitle(), m.center.UnreadCount(), m.syncStatus(),
	)
	alertBar := m.layout.RenderAlertBar(m.center.ActiveAlert())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, alertBar, content, statusBar)
}

// headerTitle names the app and the signed-in user.
func (m Model) headerTitle() string {
	user := m.session.Identity()
	if user == nil {
		return "CareLink"
	}
	return fmt.Sprintf("CareLink — %s", user.DisplayName())
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewGigs:
		return m.gigList.View()
	case ViewGigDetail:
		return m.gigDetail.View()
	case ViewApplications:
		return m.appList.View()
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewNotifications:
		return m.notifList.View()
	case ViewGigForm:
		return m.gigFormView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// syncStatus returns a short string describing the poller state.
func (m Model) syncStatus() string {
	if !m.session.IsAuthenticated() {
		return "signed out"
	}

	status := m.poller.GetStatus()
	switch status.State {
	case appsync.SyncRunning:
		return "syncing"
	case appsync.SyncError:
		return "⚠ offline"
	default:
		if status.LastSync.IsZero() {
			return "idle"
		}
		return "synced " + status.LastSync.Format("15:04")
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	// Show sync problems prominently when present.
	if m.statusMsg != "" && m.currentView != ViewLogin {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewLogin:
		return "enter submit | tab next field"
	case ViewHelp:
		return "? close help"
	case ViewGigDetail:
		if m.session.HasRole(model.RoleClinic) {
			return "esc back | j/k scroll"
		}
		return "esc back | a apply | j/k scroll"
	case ViewApplications:
		if m.session.HasRole(model.RoleClinic) {
			return "y accept | x reject | enter open gig | esc back"
		}
		return "enter open gig | esc back"
	case ViewDashboard:
		return "1 gigs | 2 applications | r refresh"
	case ViewNotifications:
		return "enter open | m mark all read | esc close"
	case ViewGigForm:
		return "enter submit | esc cancel"
	default:
		if m.session.HasRole(model.RoleClinic) {
			return "q quit | ? help | p post gig | 2 applications | 3 dashboard | n notifications"
		}
		return "q quit | ? help | / search | 2 applications | n notifications"
	}
}

// doLogin returns a command that authenticates against the API.
func (m Model) doLogin(identifier, secret string) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result := sess.Login(ctx, identifier, secret)
		return loginResultMsg{result: result}
	}
}

// loadGigDetail returns a command that loads a gig from the cache and,
// for clinics, the applications received for it. Applications come from
// the API so decisions made elsewhere show up immediately; the cache
// serves them when the API is unreachable.
func (m Model) loadGigDetail(gigID string) tea.Cmd {
	s := m.store
	client := m.client
	clinic := m.session.HasRole(model.RoleClinic)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		gig, err := s.GetGigByID(ctx, gigID)
		if err != nil || gig == nil {
			return gigdetail.GigLoadedMsg{Gig: nil}
		}

		var apps []model.Application
		if clinic {
			apps, err = client.GigApplications(ctx, gigID)
			if err != nil {
				apps, _ = s.GetApplications(ctx, store.ApplicationFilter{
					GigID: &gigID,
				})
			} else if len(apps) > 0 {
				_ = s.UpsertApplications(ctx, apps)
			}
		}
		return gigdetail.GigLoadedMsg{Gig: gig, Applications: apps}
	}
}

// submitApplication returns a command that applies for a gig.
func (m Model) submitApplication(gigID, note string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		app, err := client.Apply(ctx, gigID, note)
		return applyResultMsg{application: app, err: err}
	}
}

// decideApplication returns a command that accepts or rejects an
// application.
func (m Model) decideApplication(applicationID, status string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		app, err := client.UpdateApplicationStatus(ctx, applicationID, status)
		return decideResultMsg{application: app, err: err}
	}
}

// postGig returns a command that creates a new gig posting.
func (m Model) postGig(gig model.Gig) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		created, err := client.CreateGig(ctx, gig)
		return gigPostedMsg{gig: created, err: err}
	}
}

// fetchStats returns a command that loads the clinic dashboard counters.
func (m Model) fetchStats() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		stats, err := client.ApplicationStats(ctx)
		if err != nil {
			return dashboard.StatsLoadedMsg{Stats: nil}
		}
		return dashboard.StatsLoadedMsg{Stats: stats}
	}
}
