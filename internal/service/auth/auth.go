package authservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"retailpos/internal/models"
	serviceerrors "retailpos/internal/service"
	"retailpos/internal/session"
	"retailpos/pkg/lib/logger/sl"
	"retailpos/pkg/lib/validate"
)

type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (models.LoginResult, error)
}

type SessionStore interface {
	Current() session.Session
	Establish(ctx context.Context, token string, user models.User) (session.Session, error)
	Clear(ctx context.Context) error
}

// AuthService moves the till between anonymous and logged in.
type AuthService struct {
	log     *slog.Logger
	gateway Authenticator
	store   SessionStore

	mu       sync.Mutex
	onLogin  []func(ctx context.Context, sess session.Session)
	onLogout []func()
}

func New(log *slog.Logger, gateway Authenticator, store SessionStore) *AuthService {
	return &AuthService{
		log:     log,
		gateway: gateway,
		store:   store,
	}
}

// OnLogin registers fn to run after every successful login.
func (a *AuthService) OnLogin(fn func(ctx context.Context, sess session.Session)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onLogin = append(a.onLogin, fn)
}

// OnLogout registers fn to run after every logout.
func (a *AuthService) OnLogout(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onLogout = append(a.onLogout, fn)
}

func (a *AuthService) Current() session.Session {
	return a.store.Current()
}

func (a *AuthService) Login(ctx context.Context, creds models.Credentials) (session.Session, error) {
	const op = "service.auth.Login"
	log := a.log.With("op", op)

	creds.Email = strings.TrimSpace(creds.Email)
	if err := validate.Struct(creds); err != nil {
		log.Warn("Invalid credentials", sl.Err(err))
		return session.Session{}, fmt.Errorf("%s: %w", op, serviceerrors.Invalid("Email and password are required"))
	}

	res, err := a.gateway.Login(ctx, creds)
	if err != nil {
		if mapped := serviceerrors.FromContext(err); mapped != nil {
			log.Warn("Login abandoned", sl.Err(err))
			return session.Session{}, fmt.Errorf("%s: %w", op, mapped)
		}
		log.Warn("Login failed", sl.Err(err))
		return session.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	sess, err := a.store.Establish(ctx, res.Token, res.User)
	if err != nil {
		log.Error("Failed to establish session", sl.Err(err))
		return session.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("Logged in", slog.String("user", res.User.Name), slog.String("role", string(res.User.Role)))

	a.mu.Lock()
	hooks := append([]func(context.Context, session.Session){}, a.onLogin...)
	a.mu.Unlock()
	for _, fn := range hooks {
		fn(ctx, sess)
	}

	return sess, nil
}

// Logout forgets the session even if it was already anonymous.
func (a *AuthService) Logout(ctx context.Context) error {
	const op = "service.auth.Logout"
	log := a.log.With("op", op)

	name := a.store.Current().UserName()

	err := a.store.Clear(ctx)

	a.mu.Lock()
	hooks := append([]func(){}, a.onLogout...)
	a.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}

	if err != nil {
		log.Error("Failed to clear session", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("Logged out", slog.String("user", name))
	return nil
}
