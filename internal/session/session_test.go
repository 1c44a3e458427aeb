package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/carelinkzm/carelink/internal/api"
	"github.com/carelinkzm/carelink/internal/model"
)

// fakeVault is an in-memory Vault with optional forced failures.
type fakeVault struct {
	data    map[string]string
	getErr  error
	setErr  error
	deletes []string
}

func newFakeVault() *fakeVault {
	return &fakeVault{data: make(map[string]string)}
}

func (v *fakeVault) Get(key string) (string, bool, error) {
	if v.getErr != nil {
		return "", false, v.getErr
	}
	val, ok := v.data[key]
	return val, ok, nil
}

func (v *fakeVault) Set(key, value string) error {
	if v.setErr != nil {
		return v.setErr
	}
	v.data[key] = value
	return nil
}

func (v *fakeVault) Delete(key string) error {
	v.deletes = append(v.deletes, key)
	delete(v.data, key)
	return nil
}

// fakeAuth returns a scripted result from Login.
type fakeAuth struct {
	result *api.AuthResult
	err    error
	calls  int
}

func (a *fakeAuth) Login(_ context.Context, _, _ string) (*api.AuthResult, error) {
	a.calls++
	return a.result, a.err
}

// fakeSink records every token pushed to the transport.
type fakeSink struct {
	tokens []string
}

func (s *fakeSink) SetToken(token string) {
	s.tokens = append(s.tokens, token)
}

func testUser() *model.User {
	return &model.User{
		ID:        "u-1",
		FirstName: "Chanda",
		LastName:  "Mwila",
		Email:     "chanda@clinic.zm",
		Role:      model.RoleProvider,
	}
}

// seedVault stores a complete serialized session.
func seedVault(t *testing.T, v *fakeVault, token string, user *model.User) {
	t.Helper()

	raw, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshaling user: %v", err)
	}
	v.data["authToken"] = token
	v.data["user"] = string(raw)
}

func TestInitializeRestoresStoredSession(t *testing.T) {
	vault := newFakeVault()
	seedVault(t, vault, "tok-123", testUser())
	sink := &fakeSink{}
	s := New(&fakeAuth{}, vault, sink)

	if !s.Initializing() {
		t.Fatal("Initializing() = false before Initialize")
	}

	s.Initialize()

	if s.Initializing() {
		t.Error("Initializing() = true after Initialize")
	}
	if !s.IsAuthenticated() {
		t.Fatal("IsAuthenticated() = false after restoring a full session")
	}
	if got := s.Token(); got != "tok-123" {
		t.Errorf("Token() = %q, want %q", got, "tok-123")
	}
	if user := s.Identity(); user == nil || user.Email != "chanda@clinic.zm" {
		t.Errorf("Identity() = %+v", user)
	}
	if len(sink.tokens) == 0 || sink.tokens[len(sink.tokens)-1] != "tok-123" {
		t.Errorf("sink tokens = %v, want trailing %q", sink.tokens, "tok-123")
	}
}

func TestInitializeRunsOnce(t *testing.T) {
	vault := newFakeVault()
	seedVault(t, vault, "tok-123", testUser())
	s := New(&fakeAuth{}, vault, &fakeSink{})

	s.Initialize()
	s.Logout()
	// A second Initialize must not resurrect the cleared session.
	s.Initialize()

	if s.IsAuthenticated() {
		t.Error("second Initialize restored a logged-out session")
	}
}

func TestInitializeEmptyVaultStaysLoggedOut(t *testing.T) {
	s := New(&fakeAuth{}, newFakeVault(), &fakeSink{})

	s.Initialize()

	if s.IsAuthenticated() {
		t.Error("IsAuthenticated() = true with an empty vault")
	}
	if s.Initializing() {
		t.Error("Initializing() = true after Initialize")
	}
}

func TestInitializeClearsPartialSession(t *testing.T) {
	vault := newFakeVault()
	vault.data["authToken"] = "tok-123" // token without identity
	s := New(&fakeAuth{}, vault, &fakeSink{})

	s.Initialize()

	if s.IsAuthenticated() {
		t.Error("IsAuthenticated() = true with a partial session")
	}
	if _, ok := vault.data["authToken"]; ok {
		t.Error("stale token left in vault")
	}
}

func TestInitializeClearsCorruptIdentity(t *testing.T) {
	vault := newFakeVault()
	vault.data["authToken"] = "tok-123"
	vault.data["user"] = "{not json"
	s := New(&fakeAuth{}, vault, &fakeSink{})

	s.Initialize()

	if s.Initializing() {
		t.Error("Initializing() = true after Initialize")
	}
	if s.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after corrupt identity")
	}
	if _, ok := vault.data["authToken"]; ok {
		t.Error("stale token left in vault")
	}
	if _, ok := vault.data["user"]; ok {
		t.Error("corrupt identity left in vault")
	}
}

func TestInitializeVaultFailureForcesLogout(t *testing.T) {
	vault := newFakeVault()
	vault.getErr = errors.New("vault unavailable")
	s := New(&fakeAuth{}, vault, &fakeSink{})

	s.Initialize()

	if s.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after vault failure")
	}
	if s.Initializing() {
		t.Error("Initializing() = true after Initialize")
	}
}

func TestLoginSuccessSetsAndPersistsSession(t *testing.T) {
	vault := newFakeVault()
	sink := &fakeSink{}
	auth := &fakeAuth{result: &api.AuthResult{
		Success: true,
		Token:   "tok-xyz",
		User:    testUser(),
	}}
	s := New(auth, vault, sink)

	res := s.Login(context.Background(), "chanda@clinic.zm", "secret")

	if !res.Success {
		t.Fatalf("Login result = %+v, want success", res)
	}
	if !s.IsAuthenticated() {
		t.Error("IsAuthenticated() = false after successful login")
	}
	if got := vault.data["authToken"]; got != "tok-xyz" {
		t.Errorf("persisted token = %q, want %q", got, "tok-xyz")
	}
	var stored model.User
	if err := json.Unmarshal([]byte(vault.data["user"]), &stored); err != nil {
		t.Fatalf("persisted identity not valid JSON: %v", err)
	}
	if stored.ID != "u-1" {
		t.Errorf("persisted identity ID = %q, want %q", stored.ID, "u-1")
	}
	if len(sink.tokens) == 0 || sink.tokens[len(sink.tokens)-1] != "tok-xyz" {
		t.Errorf("sink tokens = %v", sink.tokens)
	}
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	vault := newFakeVault()
	auth := &fakeAuth{result: &api.AuthResult{
		Success: false,
		Message: "Invalid email or password",
	}}
	s := New(auth, vault, &fakeSink{})
	s.Initialize()

	res := s.Login(context.Background(), "chanda@clinic.zm", "wrong")

	if res.Success {
		t.Fatal("Login succeeded with rejected credentials")
	}
	if res.Message == "" {
		t.Error("failure result carries no message")
	}
	if res.Message != "Invalid email or password" {
		t.Errorf("Message = %q, want the server's", res.Message)
	}
	if s.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after failed login")
	}
	if len(vault.data) != 0 {
		t.Errorf("vault mutated by failed login: %v", vault.data)
	}
}

func TestLoginTransportFailureReturnsMessage(t *testing.T) {
	auth := &fakeAuth{err: errors.New("connection refused")}
	s := New(auth, newFakeVault(), &fakeSink{})

	res := s.Login(context.Background(), "a@b.zm", "pw")

	if res.Success {
		t.Fatal("Login succeeded despite transport failure")
	}
	if res.Message == "" {
		t.Error("failure result carries no message")
	}
	if s.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after transport failure")
	}
}

func TestLoginPersistFailureKeepsInMemorySession(t *testing.T) {
	vault := newFakeVault()
	vault.setErr = errors.New("disk full")
	auth := &fakeAuth{result: &api.AuthResult{
		Success: true,
		Token:   "tok-xyz",
		User:    testUser(),
	}}
	s := New(auth, vault, &fakeSink{})

	res := s.Login(context.Background(), "chanda@clinic.zm", "secret")

	if !res.Success {
		t.Fatalf("Login result = %+v, want success despite persist failure", res)
	}
	if !s.IsAuthenticated() {
		t.Error("in-memory session lost to a persistence failure")
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	vault := newFakeVault()
	seedVault(t, vault, "tok-123", testUser())
	sink := &fakeSink{}
	s := New(&fakeAuth{}, vault, sink)
	s.Initialize()

	s.Logout()
	s.Logout()

	if s.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after logout")
	}
	if s.Identity() != nil {
		t.Error("Identity() non-nil after logout")
	}
	if s.Token() != "" {
		t.Error("Token() non-empty after logout")
	}
	if len(vault.data) != 0 {
		t.Errorf("vault still holds session keys: %v", vault.data)
	}
	if len(sink.tokens) == 0 || sink.tokens[len(sink.tokens)-1] != "" {
		t.Errorf("sink tokens = %v, want trailing empty token", sink.tokens)
	}
}

func TestIdentityAndCredentialMoveTogether(t *testing.T) {
	auth := &fakeAuth{result: &api.AuthResult{
		Success: true,
		Token:   "tok-xyz",
		User:    testUser(),
	}}
	s := New(auth, newFakeVault(), &fakeSink{})
	s.Initialize()

	check := func(stage string) {
		t.Helper()
		hasIdentity := s.Identity() != nil
		hasToken := s.Token() != ""
		if hasIdentity != hasToken {
			t.Errorf("%s: identity=%v token=%v, want both or neither",
				stage, hasIdentity, hasToken)
		}
	}

	check("after initialize")
	s.Login(context.Background(), "a@b.zm", "pw")
	check("after login")
	s.Logout()
	check("after logout")
}

func TestHasRole(t *testing.T) {
	auth := &fakeAuth{result: &api.AuthResult{
		Success: true,
		Token:   "tok",
		User:    testUser(),
	}}
	s := New(auth, newFakeVault(), &fakeSink{})

	if s.HasRole(model.RoleProvider) {
		t.Error("HasRole true while logged out")
	}

	s.Login(context.Background(), "a@b.zm", "pw")

	if !s.HasRole(model.RoleProvider) {
		t.Error("HasRole(provider) = false for a provider")
	}
	if s.HasRole(model.RoleClinic) {
		t.Error("HasRole(clinic) = true for a provider")
	}
}

func TestIdentityReturnsCopy(t *testing.T) {
	vault := newFakeVault()
	seedVault(t, vault, "tok-123", testUser())
	s := New(&fakeAuth{}, vault, &fakeSink{})
	s.Initialize()

	u := s.Identity()
	u.Email = "tampered@evil.zm"

	if s.Identity().Email != "chanda@clinic.zm" {
		t.Error("mutating the returned identity changed the stored one")
	}
}
