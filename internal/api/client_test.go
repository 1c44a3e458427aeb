package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/carelinkzm/carelink/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, 5*time.Second)
}

func TestLoginSuccess(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"token": "tok-123",
			"user": {"id": "u-1", "firstName": "Chanda", "lastName": "Mwila",
				"email": "chanda@clinic.zm", "role": "provider"}
		}`))
	}))

	res, err := c.Login(context.Background(), "chanda@clinic.zm", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !res.Success {
		t.Fatalf("result = %+v, want success", res)
	}
	if res.Token != "tok-123" {
		t.Errorf("Token = %q", res.Token)
	}
	if res.User == nil || res.User.Role != model.RoleProvider {
		t.Errorf("User = %+v", res.User)
	}
}

func TestLoginRejectedCredentials(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success": false, "message": "Invalid email or password"}`))
	}))

	res, err := c.Login(context.Background(), "chanda@clinic.zm", "wrong")
	if err != nil {
		t.Fatalf("Login returned a transport error for a rejection: %v", err)
	}
	if res.Success {
		t.Fatal("rejected credentials reported as success")
	}
	if res.Message != "Invalid email or password" {
		t.Errorf("Message = %q, want the server's", res.Message)
	}
}

func TestUnauthorizedReturnsAuthError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success": false, "message": "Token expired"}`))
	}))
	c.SetToken("stale")

	_, err := c.MyApplications(context.Background())
	if err == nil {
		t.Fatal("expected an error for 401")
	}
	if !IsAuthError(err) {
		t.Fatalf("IsAuthError(%v) = false", err)
	}
}

func TestNonOKReturnsAPIError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success": false, "message": "Gig not found"}`))
	}))

	_, err := c.GetGig(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected an error for 404")
	}
	if IsAuthError(err) {
		t.Error("404 classified as an auth error")
	}
}

func TestRateLimitRetries(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n <= 2 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"success": true, "gigs": [{"id": "g-1", "title": "Night Shift Nurse"}]}`))
	}))

	gigs, err := c.ListGigs(context.Background(), GigFilter{})
	if err != nil {
		t.Fatalf("ListGigs: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server called %d times, want 3", got)
	}
	if len(gigs) != 1 || gigs[0].ID != "g-1" {
		t.Errorf("gigs = %v", gigs)
	}
	if gigs[0].FetchedAt.IsZero() {
		t.Error("FetchedAt not stamped")
	}
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success": true, "applications": []}`))
	}))

	c.SetToken("tok-123")
	if _, err := c.MyApplications(context.Background()); err != nil {
		t.Fatalf("MyApplications: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestGigApplications(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/gigs/g-1/applications" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"success": true, "applications": [
			{"id": "a-1", "gigId": "g-1", "providerName": "Bwalya Zulu",
				"status": "pending"}
		]}`))
	}))

	apps, err := c.GigApplications(context.Background(), "g-1")
	if err != nil {
		t.Fatalf("GigApplications: %v", err)
	}
	if len(apps) != 1 || apps[0].ProviderName != "Bwalya Zulu" {
		t.Errorf("apps = %v", apps)
	}
	if apps[0].FetchedAt.IsZero() {
		t.Error("FetchedAt not stamped")
	}
}

func TestApplySendsNote(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/gigs/g-1/apply" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"success": true,
			"application": {"id": "a-1", "gigId": "g-1",
				"gigTitle": "Night Shift Nurse", "status": "pending",
				"note": "Available all week"}
		}`))
	}))

	app, err := c.Apply(context.Background(), "g-1", "Available all week")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if app.Status != model.ApplicationStatusPending {
		t.Errorf("Status = %q", app.Status)
	}
}
