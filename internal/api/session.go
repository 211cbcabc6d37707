package api

import (
	"context"
	"sync"

	"woopm.dev/internal/obs"
	"woopm.dev/internal/session"
)

// Session tracks who logged in through a Service. Authentication status is
// taken from the token store, not from the cached user, so a 401 anywhere
// ends the session even though the user value is still cached.
type Session struct {
	svc Service

	mu   sync.RWMutex
	user *User
}

func NewSession(svc Service) *Session {
	return &Session{svc: svc}
}

// Login returns true when the backend accepted the credentials, returned a
// user and the token was stored.
func (s *Session) Login(ctx context.Context, email, password string) bool {
	env := s.svc.Login(ctx, LoginCredentials{Email: email, Password: password})
	return s.accept("login", env)
}

func (s *Session) Register(ctx context.Context, email, password, name string) bool {
	env := s.svc.Register(ctx, RegisterData{Email: email, Password: password, Name: name})
	return s.accept("register", env)
}

// accept caches the user only when the backend returned one and the token
// actually reached the store.
func (s *Session) accept(op string, env Envelope[AuthResponse]) bool {
	if !env.Success || env.Data.User == (User{}) {
		obs.Warn(op+" rejected", map[string]any{"error": env.Error})
		return false
	}
	if !s.svc.IsAuthenticated() {
		obs.Warn(op+" token not stored", map[string]any{"user_id": env.Data.User.ID})
		return false
	}
	u := env.Data.User
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	return true
}

// Logout is local and idempotent.
func (s *Session) Logout() {
	s.svc.Logout()
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// User returns the user of the current login. It reports false once the
// token is gone, including after an unauthorized response.
func (s *Session) User() (User, bool) {
	if !s.svc.IsAuthenticated() {
		s.mu.Lock()
		s.user = nil
		s.mu.Unlock()
		return User{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

func (s *Session) IsAuthenticated() bool { return s.svc.IsAuthenticated() }

func (s *Session) State() session.State {
	if s.svc.IsAuthenticated() {
		return session.Authenticated
	}
	return session.Unauthenticated
}
