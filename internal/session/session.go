// Package session holds the authenticated user and keeps durable storage in
// step with it.
//
// The session is considered present when a token is stored; the token is
// never validated locally and expiry is not detected.
package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/roach88/storefront/internal/api"
	"github.com/roach88/storefront/internal/model"
	"github.com/roach88/storefront/internal/store"
)

// Default failure reasons when the API gives no detail.
const (
	ReasonLoginFailed    = "Invalid email or password"
	ReasonRegisterFailed = "Registration failed"
	ReasonRefreshFailed  = "Could not load profile"
)

// AuthAPI is the subset of the API client the session needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (api.AuthResponse, error)
	Register(ctx context.Context, name, email, password string) (api.AuthResponse, error)
	Me(ctx context.Context) (model.User, error)
}

// Storage persists the token and cached profile.
type Storage interface {
	SaveSession(ctx context.Context, token string, user model.User) error
	UpdateUser(ctx context.Context, user model.User) error
	LoadSession(ctx context.Context) (store.Session, bool, error)
	ClearSession(ctx context.Context) error
}

// Observer is called with the new user after every session change, or nil
// after logout. Observers run synchronously on the caller's goroutine.
type Observer func(user *model.User)

// Store is the session state shared by the cart and the views.
//
// Thread-safety: safe for concurrent use. Observers are invoked without the
// lock held.
type Store struct {
	api     AuthAPI
	storage Storage
	log     *zap.Logger

	mu        sync.RWMutex
	user      *model.User
	observers []Observer
}

// New creates an empty session store. Call Restore to pick up a stored
// session.
func New(authAPI AuthAPI, storage Storage, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{api: authAPI, storage: storage, log: log}
}

// Restore loads a stored session without touching the network. Observers
// are notified only when a session is found.
func (s *Store) Restore(ctx context.Context) error {
	sess, ok, err := s.storage.LoadSession(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if !ok || sess.Token == "" {
		return nil
	}
	s.set(&sess.User)
	return nil
}

// User returns a copy of the current user, or nil when logged out.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// LoggedIn reports whether a session is present.
func (s *Store) LoggedIn() bool {
	return s.User() != nil
}

// Subscribe registers an observer.
func (s *Store) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Login authenticates and persists the session. On failure the current
// session is left as it was.
func (s *Store) Login(ctx context.Context, email, password string) model.Result {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.log.Warn("login failed", zap.String("email", email), zap.Error(err))
		return model.Failure(reasonFor(err, ReasonLoginFailed), err)
	}
	return s.establish(ctx, resp, "Logged in as "+resp.User.Name)
}

// Register creates an account and logs into it.
func (s *Store) Register(ctx context.Context, name, email, password string) model.Result {
	resp, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		s.log.Warn("register failed", zap.String("email", email), zap.Error(err))
		return model.Failure(reasonFor(err, ReasonRegisterFailed), err)
	}
	return s.establish(ctx, resp, "Welcome, "+resp.User.Name)
}

func (s *Store) establish(ctx context.Context, resp api.AuthResponse, reason string) model.Result {
	if err := s.storage.SaveSession(ctx, resp.AccessToken, resp.User); err != nil {
		s.log.Error("persist session failed", zap.Error(err))
		return model.Failure("Could not save session", err)
	}
	user := resp.User
	s.set(&user)
	s.log.Info("session started", zap.Int64("user_id", user.ID))
	return model.Success(reason)
}

// Logout drops the session from memory and storage. It always succeeds;
// a storage failure is logged.
func (s *Store) Logout(ctx context.Context) {
	if err := s.storage.ClearSession(ctx); err != nil {
		s.log.Error("clear stored session failed", zap.Error(err))
	}
	s.set(nil)
	s.log.Info("session ended")
}

// Refresh reloads the profile from the API and updates the cached copy.
func (s *Store) Refresh(ctx context.Context) model.Result {
	if !s.LoggedIn() {
		return model.Failure("Not logged in", model.ErrNoSession)
	}
	user, err := s.api.Me(ctx)
	if err != nil {
		s.log.Warn("profile refresh failed", zap.Error(err))
		return model.Failure(reasonFor(err, ReasonRefreshFailed), err)
	}
	if err := s.storage.UpdateUser(ctx, user); err != nil {
		s.log.Error("persist profile failed", zap.Error(err))
		return model.Failure("Could not save session", err)
	}
	s.set(&user)
	return model.Success("Profile refreshed")
}

func (s *Store) set(user *model.User) {
	s.mu.Lock()
	s.user = user
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		var u *model.User
		if user != nil {
			cp := *user
			u = &cp
		}
		fn(u)
	}
}

func reasonFor(err error, fallback string) string {
	if detail := api.Detail(err); detail != "" {
		return detail
	}
	return fallback
}
