package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/carelinkzm/carelink/internal/api"
	"github.com/carelinkzm/carelink/internal/model"
	"github.com/carelinkzm/carelink/internal/notify"
	"github.com/carelinkzm/carelink/internal/session"
	"github.com/carelinkzm/carelink/internal/store"
)

// State represents the current state of a sync cycle.
type State int

const (
	SyncIdle State = iota
	SyncRunning
	SyncError
)

// Status holds the outcome of the most recent sync cycle.
type Status struct {
	State    State
	LastSync time.Time
	Error    error
}

// ResultMsg is a tea.Msg sent when a sync cycle completes.
type ResultMsg struct {
	Gigs         []model.Gig
	Applications []model.Application
	Error        error
	AuthError    *AuthErrorMsg
	NewEvents    int
}

// AuthErrorMsg is a tea.Msg sent when the API rejects the session token.
type AuthErrorMsg struct {
	Message string
}

// fetchTimeout is the maximum time allowed for a single sync cycle.
const fetchTimeout = 30 * time.Second

// Poller periodically fetches gigs and applications from the marketplace
// API, mirrors them into the local cache, and raises notifications for
// changes relevant to the signed-in role: new applications for clinics,
// application status changes for providers.
type Poller struct {
	client   *api.Client
	store    store.Store
	center   *notify.Center
	session  *session.Store
	interval time.Duration

	resultCh  chan ResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}

	mu      gosync.Mutex
	status  Status
	running bool
}

// New creates a Poller. A non-positive interval falls back to one minute.
func New(
	client *api.Client,
	s store.Store,
	center *notify.Center,
	sess *session.Store,
	interval time.Duration,
) *Poller {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Poller{
		client:    client,
		store:     s,
		center:    center,
		session:   sess,
		interval:  interval,
		resultCh:  make(chan ResultMsg, 16),
		triggerCh: make(chan struct{}, 16),
		stopCh:    make(chan struct{}),
	}
}

// Start returns a tea.Cmd that starts the polling goroutine and
// subscribes to results. The returned command waits on the result
// channel and delivers ResultMsg messages to the Bubble Tea runtime.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()

	return p.waitForResult()
}

// Stop halts the polling goroutine.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Refresh triggers an immediate sync cycle.
func (p *Poller) Refresh() tea.Cmd {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// Channel full; a cycle is already queued
	}
	return nil
}

// GetStatus returns the outcome of the most recent sync cycle.
func (p *Poller) GetStatus() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// loop runs the polling loop until Stop is called.
func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Do an initial fetch immediately
	p.syncOnce()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.syncOnce()
		case <-p.triggerCh:
			p.syncOnce()
		}
	}
}

// syncOnce performs a single sync cycle: fetch, diff against the local
// cache, raise notifications, upsert, and report the result.
func (p *Poller) syncOnce() {
	if !p.session.IsAuthenticated() {
		return
	}

	p.setStatus(SyncRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	gigs, apps, err := p.fetch(ctx)
	if err != nil {
		p.setStatus(SyncError, err)

		if api.IsAuthError(err) {
			p.sendResult(ResultMsg{
				Error: err,
				AuthError: &AuthErrorMsg{
					Message: "Session expired. Please sign in again.",
				},
			})
			return
		}

		p.sendResult(ResultMsg{Error: err})
		return
	}

	// Snapshot known application statuses before the upsert so we can
	// tell new rows and status transitions apart from refetches.
	known, _ := p.store.ApplicationStatuses(ctx)

	if len(gigs) > 0 {
		if upsertErr := p.store.UpsertGigs(ctx, gigs); upsertErr != nil {
			p.setStatus(SyncError, upsertErr)
			p.sendResult(ResultMsg{Error: upsertErr})
			return
		}
	}
	if len(apps) > 0 {
		if upsertErr := p.store.UpsertApplications(ctx, apps); upsertErr != nil {
			p.setStatus(SyncError, upsertErr)
			p.sendResult(ResultMsg{Error: upsertErr})
			return
		}
	}

	newEvents := p.raiseNotifications(known, apps)

	p.setStatus(SyncIdle, nil)
	p.sendResult(ResultMsg{
		Gigs:         gigs,
		Applications: apps,
		NewEvents:    newEvents,
	})
}

// fetch retrieves the gigs and applications visible to the signed-in role.
func (p *Poller) fetch(
	ctx context.Context,
) ([]model.Gig, []model.Application, error) {
	if p.session.HasRole(model.RoleClinic) {
		gigs, err := p.client.MyGigs(ctx)
		if err != nil {
			return nil, nil, err
		}
		apps, err := p.client.ClinicApplications(ctx)
		if err != nil {
			return nil, nil, err
		}
		return gigs, apps, nil
	}

	gigs, err := p.client.ListGigs(ctx, api.GigFilter{
		Status:   model.GigStatusActive,
		PageSize: 50,
	})
	if err != nil {
		return nil, nil, err
	}
	apps, err := p.client.MyApplications(ctx)
	if err != nil {
		return nil, nil, err
	}
	return gigs, apps, nil
}

// raiseNotifications compares fetched applications against the statuses
// known before the upsert and enqueues the appropriate notifications.
// Clinics are told about applications they have not seen before;
// providers are told when a known application changes status.
func (p *Poller) raiseNotifications(
	known map[string]string,
	apps []model.Application,
) int {
	clinic := p.session.HasRole(model.RoleClinic)

	count := 0
	for _, app := range apps {
		prior, seen := known[app.ID]

		if clinic {
			if !seen {
				p.center.NotifyApplicationReceived(app.ProviderName, app.GigTitle)
				count++
			}
			continue
		}

		if seen && prior != app.Status && app.Status != model.ApplicationStatusPending {
			p.center.NotifyApplicationStatusChanged(app.Status, app.GigTitle)
			count++
		}
	}
	return count
}

// setStatus records the outcome of the current sync cycle.
func (p *Poller) setStatus(state State, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Error = err
	if state == SyncIdle && err == nil {
		p.status.LastSync = time.Now()
	}
}

// sendResult sends a ResultMsg on the result channel without blocking.
func (p *Poller) sendResult(msg ResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if the channel is full to avoid blocking the poller
	}
}

// waitForResult returns a tea.Cmd that waits for the next result from
// the result channel.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next sync
// result. Call this after processing a ResultMsg to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
