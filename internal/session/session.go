// Package session owns the client's authenticated identity: who is logged
// in, the bearer credential used for API calls, and the one-time startup
// rehydration from the credential vault.
package session

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/carelinkzm/carelink/internal/api"
	"github.com/carelinkzm/carelink/internal/model"
)

// Vault keys used to persist the session between runs.
const (
	vaultKeyToken = "authToken"
	vaultKeyUser  = "user"
)

// Authenticator verifies credentials against the marketplace API.
// api.Client satisfies this.
type Authenticator interface {
	Login(ctx context.Context, identifier, secret string) (*api.AuthResult, error)
}

// Vault is the durable key-value store holding the token and serialized
// identity. Get reports absence via its second return value rather than
// an error; errors indicate the store itself is unavailable or corrupt.
type Vault interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// TokenSink receives the bearer token whenever the session changes, so
// the transport layer always sends the current credential. api.Client
// satisfies this.
type TokenSink interface {
	SetToken(token string)
}

// LoginResult is the outcome of a Login call. Login never returns a Go
// error: transport and server failures both surface here as
// Success=false with a human-readable message.
type LoginResult struct {
	Success bool
	Message string
	User    *model.User
}

// Store is the single source of truth for the current session. The
// identity and credential are always both set or both empty; they are
// mutated only by Initialize, Login, and Logout.
type Store struct {
	auth  Authenticator
	vault Vault
	sink  TokenSink

	mu           sync.RWMutex
	identity     *model.User
	credential   string
	initializing bool

	initOnce sync.Once
}

// New creates a session store wired to the given collaborators.
// The store starts empty with initializing=true; call Initialize once at
// startup before gating any view on IsAuthenticated.
func New(auth Authenticator, vault Vault, sink TokenSink) *Store {
	return &Store{
		auth:         auth,
		vault:        vault,
		sink:         sink,
		initializing: true,
	}
}

// Initialize rehydrates the session from the vault. It runs its body at
// most once; repeated calls are no-ops. On any vault failure or a corrupt
// stored identity it logs and forces a clean logged-out state. The
// initializing flag reaches false on every path.
func (s *Store) Initialize() {
	s.initOnce.Do(func() {
		defer func() {
			s.mu.Lock()
			s.initializing = false
			s.mu.Unlock()
		}()

		token, haveToken, err := s.vault.Get(vaultKeyToken)
		if err != nil {
			log.Printf("session: reading stored token: %v", err)
			s.Logout()
			return
		}

		rawUser, haveUser, err := s.vault.Get(vaultKeyUser)
		if err != nil {
			log.Printf("session: reading stored identity: %v", err)
			s.Logout()
			return
		}

		// A partial session (one key without the other) is treated the
		// same as a corrupt one.
		if !haveToken || !haveUser {
			if haveToken || haveUser {
				log.Printf("session: partial stored session, clearing")
				s.Logout()
			}
			return
		}

		var user model.User
		if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
			log.Printf("session: parsing stored identity: %v", err)
			s.Logout()
			return
		}

		s.mu.Lock()
		s.identity = &user
		s.credential = token
		s.mu.Unlock()
		s.sink.SetToken(token)
	})
}

// Login authenticates with the given identifier and secret. On success
// the identity and credential are set together and persisted to the
// vault. On any failure the session state is left untouched and the
// result carries the best available message: the server's, then the
// transport error text, then a generic fallback.
func (s *Store) Login(ctx context.Context, identifier, secret string) LoginResult {
	res, err := s.auth.Login(ctx, identifier, secret)
	if err != nil {
		return LoginResult{Success: false, Message: err.Error()}
	}

	if !res.Success || res.Token == "" || res.User == nil {
		msg := res.Message
		if msg == "" {
			msg = "Login failed"
		}
		return LoginResult{Success: false, Message: msg}
	}

	s.mu.Lock()
	s.identity = res.User
	s.credential = res.Token
	s.mu.Unlock()
	s.sink.SetToken(res.Token)

	s.persist(res.Token, res.User)

	return LoginResult{Success: true, User: res.User}
}

// persist writes the session to the vault. Persistence failures are
// logged, not surfaced: the in-memory session is already valid and the
// only cost is a re-login after the next restart.
func (s *Store) persist(token string, user *model.User) {
	if err := s.vault.Set(vaultKeyToken, token); err != nil {
		log.Printf("session: persisting token: %v", err)
		return
	}

	raw, err := json.Marshal(user)
	if err != nil {
		log.Printf("session: serializing identity: %v", err)
		return
	}
	if err := s.vault.Set(vaultKeyUser, string(raw)); err != nil {
		log.Printf("session: persisting identity: %v", err)
	}
}

// Logout clears the session and removes both vault keys. It is
// idempotent: logging out while already logged out only re-clears any
// stale vault entries.
func (s *Store) Logout() {
	s.mu.Lock()
	s.identity = nil
	s.credential = ""
	s.mu.Unlock()
	s.sink.SetToken("")

	if err := s.vault.Delete(vaultKeyToken); err != nil {
		log.Printf("session: removing stored token: %v", err)
	}
	if err := s.vault.Delete(vaultKeyUser); err != nil {
		log.Printf("session: removing stored identity: %v", err)
	}
}

// Initializing reports whether the startup rehydration is still pending.
// Views that depend on IsAuthenticated must treat this as a gate.
func (s *Store) Initializing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initializing
}

// IsAuthenticated reports whether a credential is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential != ""
}

// HasRole reports whether an identity is present with the given role.
func (s *Store) HasRole(role model.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil && s.identity.Role == role
}

// Identity returns a copy of the current identity, or nil when logged out.
func (s *Store) Identity() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	u := *s.identity
	return &u
}

// Token returns the current bearer credential, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}
