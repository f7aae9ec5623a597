// Package session holds the till's single login: who is at the terminal and
// which bearer token the gateway attaches on their behalf.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"retailpos/internal/models"
	"retailpos/pkg/lib/logger/sl"
)

// State is the persisted form of a session.
type State struct {
	Token string       `json:"token"`
	User  *models.User `json:"user,omitempty"`
}

type Persister interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
	Clear(ctx context.Context) error
}

// Session is an immutable snapshot of the login. The zero value is anonymous.
type Session struct {
	token string
	user  *models.User
}

// NewSession builds an authenticated snapshot for token and user.
func NewSession(token string, user models.User) Session {
	return Session{token: token, user: &user}
}

func (s Session) Authenticated() bool {
	return s.token != "" && s.user != nil
}

func (s Session) User() (models.User, bool) {
	if !s.Authenticated() {
		return models.User{}, false
	}
	return *s.user, true
}

func (s Session) UserName() string {
	if !s.Authenticated() {
		return ""
	}
	return s.user.Name
}

// CanManageCatalog covers product/category writes and the order ledger.
func (s Session) CanManageCatalog() bool {
	return s.Authenticated() && s.user.Role == models.RoleAdmin
}

func (s Session) CanCheckout() bool {
	return s.Authenticated() && s.user.Role == models.RoleStaff
}

type Store struct {
	log       *slog.Logger
	persister Persister
	now       func() time.Time

	mu      sync.RWMutex
	current Session
}

func New(log *slog.Logger, persister Persister) *Store {
	return &Store{
		log:       log,
		persister: persister,
		now:       time.Now,
	}
}

// NewWithClock is New with a fixed clock for token expiry checks.
func NewWithClock(log *slog.Logger, persister Persister, now func() time.Time) *Store {
	s := New(log, persister)
	s.now = now
	return s
}

func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token is the bearer token for outgoing requests. It is empty unless the
// session is authenticated, so a leftover token is never sent.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.current.Authenticated() {
		return ""
	}
	return s.current.token
}

// Restore rehydrates the session persisted by a previous run.
//
// A token with a user record is trusted until its exp claim passes. A token
// without a user record is resolved from the token's own name/role claims;
// when those are missing the token is discarded and the till starts logged
// out.
func (s *Store) Restore(ctx context.Context) (Session, error) {
	const op = "session.Restore"
	log := s.log.With("op", op)

	state, err := s.persister.Load(ctx)
	if err != nil {
		log.Error("Failed to load persisted session", sl.Err(err))
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if state.Token == "" {
		if state.User != nil {
			log.Warn("Dropping user record without token")
			return Session{}, s.forget(ctx, op)
		}
		return Session{}, nil
	}

	claims, claimsErr := parseClaims(state.Token)
	if claimsErr == nil && claims.expired(s.now()) {
		log.Info("Persisted token expired, logging out")
		return Session{}, s.forget(ctx, op)
	}

	user := state.User
	if user == nil || !user.Role.Valid() {
		if claimsErr != nil || !claims.usable() {
			log.Warn("Persisted token has no user record, logging out")
			return Session{}, s.forget(ctx, op)
		}
		user = &models.User{Name: claims.Name, Role: claims.Role}
		if err := s.persister.Save(ctx, State{Token: state.Token, User: user}); err != nil {
			log.Error("Failed to persist rehydrated user", sl.Err(err))
			return Session{}, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("User rehydrated from token claims", slog.String("user", user.Name))
	}

	sess := Session{token: state.Token, user: user}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	return sess, nil
}

// Establish makes token/user the active login and persists it.
func (s *Store) Establish(ctx context.Context, token string, user models.User) (Session, error) {
	const op = "session.Establish"
	log := s.log.With("op", op)

	if token == "" || user.Name == "" || !user.Role.Valid() {
		log.Warn("Refusing incomplete login", slog.String("role", string(user.Role)))
		return Session{}, fmt.Errorf("%s: %w", op, ErrIncompleteLogin)
	}

	if err := s.persister.Save(ctx, State{Token: token, User: &user}); err != nil {
		log.Error("Failed to persist session", sl.Err(err))
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	sess := NewSession(token, user)

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	return sess, nil
}

// Clear logs out: memory first, then the persisted copy.
func (s *Store) Clear(ctx context.Context) error {
	return s.forget(ctx, "session.Clear")
}

func (s *Store) forget(ctx context.Context, op string) error {
	s.mu.Lock()
	s.current = Session{}
	s.mu.Unlock()

	if err := s.persister.Clear(ctx); err != nil {
		s.log.With("op", op).Error("Failed to clear persisted session", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

var ErrIncompleteLogin = errors.New("login response is missing token, name or role")
