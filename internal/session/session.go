package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/SID01AV/productivity-tracker/internal/api"
	"github.com/SID01AV/productivity-tracker/internal/models"
	"github.com/SID01AV/productivity-tracker/internal/storage"
)

// The two durable slots. They are always written and cleared together: the
// credential is useless without the identity snapshot and vice versa.
const (
	SlotToken = "token"
	SlotUser  = "user"
)

// Session is the current authenticated identity plus its credential.
type Session struct {
	Token string
	User  models.User
}

// Store owns the session lifecycle: rehydrate at startup, mutate via
// login/register/logout only, read by any number of dependents. It is the
// single writer of the persisted credential/identity pair and implements
// api.TokenProvider so the HTTP client always sees the current credential.
type Store struct {
	provider storage.Provider
	client   *api.Client

	mu      sync.RWMutex
	current *Session
}

// NewStore wraps the given slot provider. Bind the API client before
// calling Login or Register.
func NewStore(provider storage.Provider) *Store {
	return &Store{provider: provider}
}

// Bind attaches the API client used for login and register calls. The
// store and client reference each other (the client reads the token
// through the store), so binding happens after both are constructed.
func (s *Store) Bind(client *api.Client) {
	s.client = client
}

// Token implements api.TokenProvider. Empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Current returns the live session, or nil when logged out.
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Rehydrate restores the session from durable storage. If either slot is
// absent or malformed the result is nil and any partial persisted data is
// wiped, so a half-written pair can never produce a half-valid session.
func (s *Store) Rehydrate() *Session {
	token, err := s.provider.Get(SlotToken)
	if err != nil {
		s.wipe()
		return nil
	}
	raw, err := s.provider.Get(SlotUser)
	if err != nil {
		s.wipe()
		return nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.Username == "" {
		s.wipe()
		return nil
	}

	sess := &Session{Token: token, User: user}
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return sess
}

// Login authenticates and, on success, persists the credential and
// identity before updating in-memory state. Dependents reading the store
// after Login returns always see the new session.
func (s *Store) Login(ctx context.Context, username, password string) (*Session, error) {
	if s.client == nil {
		return nil, fmt.Errorf("session store has no API client bound")
	}

	token, user, err := s.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if err := s.persist(token, user); err != nil {
		return nil, err
	}

	sess := &Session{Token: token, User: user}
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return sess, nil
}

// Register creates the account then logs in with the same credentials.
// Duplicate usernames surface the server's detail text verbatim.
func (s *Store) Register(ctx context.Context, username, email, password string) (*Session, error) {
	if s.client == nil {
		return nil, fmt.Errorf("session store has no API client bound")
	}

	if err := s.client.Register(ctx, username, email, password); err != nil {
		return nil, err
	}
	return s.Login(ctx, username, password)
}

// Logout clears the persisted pair and in-memory state unconditionally.
// It is idempotent and never fails: storage errors are swallowed since a
// logged-out in-memory state must always be reachable.
func (s *Store) Logout() error {
	s.wipe()
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return nil
}

func (s *Store) persist(token string, user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize identity: %w", err)
	}
	if err := s.provider.Set(SlotToken, token); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	if err := s.provider.Set(SlotUser, string(raw)); err != nil {
		// Never leave one slot without the other.
		_ = s.provider.Delete(SlotToken)
		return fmt.Errorf("failed to persist identity: %w", err)
	}
	return nil
}

func (s *Store) wipe() {
	_ = s.provider.Delete(SlotToken)
	_ = s.provider.Delete(SlotUser)
}
