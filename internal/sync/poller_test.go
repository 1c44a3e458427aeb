package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/carelinkzm/carelink/internal/api"
	"github.com/carelinkzm/carelink/internal/model"
	"github.com/carelinkzm/carelink/internal/notify"
	"github.com/carelinkzm/carelink/internal/session"
	"github.com/carelinkzm/carelink/internal/store"
	"github.com/carelinkzm/carelink/tests/testutil"
)

// memVault is an in-memory session.Vault for tests.
type memVault struct {
	data map[string]string
}

func (v *memVault) Get(key string) (string, bool, error) {
	val, ok := v.data[key]
	return val, ok, nil
}

func (v *memVault) Set(key, value string) error {
	v.data[key] = value
	return nil
}

func (v *memVault) Delete(key string) error {
	delete(v.data, key)
	return nil
}

// stubAuth always grants a session for the given user.
type stubAuth struct {
	user *model.User
}

func (a *stubAuth) Login(
	ctx context.Context, identifier, secret string,
) (*api.AuthResult, error) {
	return &api.AuthResult{Success: true, Token: "tok-test", User: a.user}, nil
}

// signedInSession builds a session.Store already logged in with the
// given role, with the bearer token flowing into client.
func signedInSession(
	t *testing.T, client *api.Client, role model.Role,
) *session.Store {
	t.Helper()

	user := &model.User{
		ID:        "u-1",
		FirstName: "Chanda",
		LastName:  "Mwila",
		Email:     "chanda@carelink.zm",
		Role:      role,
	}
	sess := session.New(&stubAuth{user: user}, &memVault{data: map[string]string{}}, client)
	sess.Initialize()
	res := sess.Login(context.Background(), user.Email, "secret")
	if !res.Success {
		t.Fatalf("login failed: %s", res.Message)
	}
	return sess
}

func newPoller(
	client *api.Client, st store.Store, center *notify.Center, sess *session.Store,
) *Poller {
	return New(client, st, center, sess, time.Minute)
}

func drainResult(t *testing.T, p *Poller) ResultMsg {
	t.Helper()

	select {
	case msg := <-p.resultCh:
		return msg
	default:
		t.Fatal("no sync result reported")
		return ResultMsg{}
	}
}

func TestSyncSkipsWhenLoggedOut(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, 5*time.Second)
	sess := session.New(&stubAuth{}, &memVault{data: map[string]string{}}, client)
	sess.Initialize()

	p := newPoller(client, testutil.NewTestStore(t), notify.NewCenter(0), sess)
	p.syncOnce()

	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("server called %d times while logged out", got)
	}
	select {
	case msg := <-p.resultCh:
		t.Errorf("unexpected result while logged out: %+v", msg)
	default:
	}
}

func TestProviderStatusChangeRaisesNotification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/gigs":
			w.Write([]byte(`{"success": true, "gigs": []}`))
		case "/api/applications/mine":
			w.Write([]byte(`{"success": true, "applications": [
				{"id": "a-1", "gigId": "g-1", "gigTitle": "Night Shift Nurse",
					"status": "accepted"}
			]}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, 5*time.Second)
	st := testutil.NewTestStore(t)

	// The application is already cached as pending from an earlier sync.
	err := st.UpsertApplications(context.Background(), []model.Application{
		{ID: "a-1", GigID: "g-1", GigTitle: "Night Shift Nurse",
			Status: model.ApplicationStatusPending},
	})
	if err != nil {
		t.Fatalf("seeding cache: %v", err)
	}

	center := notify.NewCenter(0)
	p := newPoller(client, st, center, signedInSession(t, client, model.RoleProvider))
	p.syncOnce()

	msg := drainResult(t, p)
	if msg.Error != nil {
		t.Fatalf("sync error: %v", msg.Error)
	}
	if msg.NewEvents != 1 {
		t.Errorf("NewEvents = %d, want 1", msg.NewEvents)
	}

	events := center.Events()
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Title != "Application Accepted!" {
		t.Errorf("Title = %q", events[0].Title)
	}
	if !strings.Contains(events[0].Message, "Night Shift Nurse") {
		t.Errorf("Message = %q, want the gig title in it", events[0].Message)
	}
	if status := p.GetStatus(); status.State != SyncIdle || status.LastSync.IsZero() {
		t.Errorf("status = %+v after a clean sync", status)
	}

	// The cache reflects the new status.
	app, err := st.GetApplicationByID(context.Background(), "a-1")
	if err != nil || app == nil {
		t.Fatalf("GetApplicationByID: app=%v err=%v", app, err)
	}
	if app.Status != model.ApplicationStatusAccepted {
		t.Errorf("cached status = %q", app.Status)
	}
}

func TestProviderRefetchRaisesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/gigs":
			w.Write([]byte(`{"success": true, "gigs": []}`))
		case "/api/applications/mine":
			w.Write([]byte(`{"success": true, "applications": [
				{"id": "a-1", "gigTitle": "Night Shift Nurse", "status": "pending"},
				{"id": "a-2", "gigTitle": "Lab Cover", "status": "pending"}
			]}`))
		}
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, 5*time.Second)
	center := notify.NewCenter(0)
	p := newPoller(client, testutil.NewTestStore(t), center,
		signedInSession(t, client, model.RoleProvider))

	// First sync sees the applications as new, second is a pure refetch.
	// Neither should notify a provider about pending applications.
	p.syncOnce()
	p.syncOnce()

	if got := len(center.Events()); got != 0 {
		t.Errorf("len(events) = %d, want 0", got)
	}
}

func TestClinicNewApplicationRaisesNotification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/gigs/my-gigs":
			w.Write([]byte(`{"success": true, "gigs": [
				{"id": "g-1", "title": "Night Shift Nurse", "status": "active"}
			]}`))
		case "/api/applications":
			w.Write([]byte(`{"success": true, "applications": [
				{"id": "a-1", "gigId": "g-1", "gigTitle": "Night Shift Nurse",
					"providerName": "Bwalya Zulu", "status": "pending"}
			]}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, 5*time.Second)
	center := notify.NewCenter(0)
	p := newPoller(client, testutil.NewTestStore(t), center,
		signedInSession(t, client, model.RoleClinic))
	p.syncOnce()

	msg := drainResult(t, p)
	if msg.NewEvents != 1 {
		t.Errorf("NewEvents = %d, want 1", msg.NewEvents)
	}
	if len(msg.Gigs) != 1 || len(msg.Applications) != 1 {
		t.Errorf("result carried %d gigs, %d applications",
			len(msg.Gigs), len(msg.Applications))
	}

	events := center.Events()
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Title != "New Application Received" {
		t.Errorf("Title = %q", events[0].Title)
	}
	if !strings.Contains(events[0].Message, "Bwalya Zulu") {
		t.Errorf("Message = %q, want the provider name in it", events[0].Message)
	}
}

func TestRejectedTokenReportsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success": false, "message": "Token expired"}`))
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, 5*time.Second)
	p := newPoller(client, testutil.NewTestStore(t), notify.NewCenter(0),
		signedInSession(t, client, model.RoleProvider))
	p.syncOnce()

	msg := drainResult(t, p)
	if msg.AuthError == nil {
		t.Fatalf("result = %+v, want an auth error", msg)
	}
	if msg.AuthError.Message != "Session expired. Please sign in again." {
		t.Errorf("Message = %q", msg.AuthError.Message)
	}
	if status := p.GetStatus(); status.State != SyncError {
		t.Errorf("status.State = %v, want SyncError", status.State)
	}
}
