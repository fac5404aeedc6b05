package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"codeberg.org/devconnector/server/internal/auth"
	"codeberg.org/devconnector/server/internal/logger"
	"github.com/golang-jwt/jwt/v5"
)

// creates an unauthenticated session; call Init once at startup
func New(storage Storage, opts ...Option) *Session {
	s := &Session{
		storage: storage,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// loads the stored credential and derives the initial auth state
func (s *Session) Init(ctx context.Context) error {
	credential, ok, err := s.Load(ctx)
	if err != nil {
		return err
	}

	if !ok {
		return nil
	}

	claims, err := Decode(credential)
	if err != nil {
		logger.Warn("discarding unreadable stored credential", "error", err)
		return s.Clear(ctx)
	}

	if s.expired(claims) {
		logger.Info("stored credential expired", "expired_at", claims.ExpiresAt.Time)
		return s.Clear(ctx)
	}

	s.mu.Lock()
	s.credential = credential
	s.state = State{Authenticated: true, User: claims}
	s.mu.Unlock()

	return nil
}

// records a freshly issued credential and marks the session authenticated
func (s *Session) Login(ctx context.Context, credential string) error {
	claims, err := Decode(credential)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Persist(ctx, credential); err != nil {
		return err
	}

	s.credential = credential
	s.state = State{Authenticated: true, User: claims}

	return nil
}

// writes the raw credential to storage, replacing any previous one
func (s *Session) Persist(ctx context.Context, credential string) error {
	if err := s.storage.Set(ctx, StorageKey, credential); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}

	return nil
}

// reads the raw credential from storage
func (s *Session) Load(ctx context.Context) (string, bool, error) {
	credential, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		return "", false, fmt.Errorf("failed to load credential: %w", err)
	}

	if !ok || credential == "" {
		return "", false, nil
	}

	return credential, true, nil
}

// removes the credential, drops to unauthenticated and runs the clear hooks
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	hooks, err := s.clearLocked(ctx)
	s.mu.Unlock()

	runHooks(hooks)

	return err
}

// clears only while credential is still the one held; a rejection of a
// replaced credential leaves the newer login alone
func (s *Session) ClearIf(ctx context.Context, credential string) (bool, error) {
	s.mu.Lock()
	if credential == "" || s.credential != credential {
		s.mu.Unlock()
		return false, nil
	}

	hooks, err := s.clearLocked(ctx)
	s.mu.Unlock()

	runHooks(hooks)

	return true, err
}

// storage is updated under the lock so a concurrent Login cannot be deleted
func (s *Session) clearLocked(ctx context.Context) ([]func(), error) {
	s.credential = ""
	s.state = State{}
	hooks := append([]func(){}, s.onClear...)

	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		return hooks, fmt.Errorf("failed to clear credential: %w", err)
	}

	return hooks, nil
}

func runHooks(hooks []func()) {
	for _, hook := range hooks {
		hook()
	}
}

// explicit logout
func (s *Session) Logout(ctx context.Context) error {
	return s.Clear(ctx)
}

// registers state to drop whenever the session is cleared (cached profile views)
func (s *Session) OnClear(hook func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onClear = append(s.onClear, hook)
}

// snapshot of the current auth state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// reports whether protected views may render
func (s *Session) Authenticated() bool {
	return s.State().Authenticated
}

// sets the Authorization header when a live credential is held; an expired one is cleared instead
func (s *Session) Attach(req *http.Request) {
	s.mu.RLock()
	credential := s.credential
	claims := s.state.User
	s.mu.RUnlock()

	if credential == "" {
		return
	}

	if claims != nil && s.expired(claims) {
		if _, err := s.ClearIf(req.Context(), credential); err != nil {
			logger.ErrorErr(err, "failed to clear expired credential")
		}

		return
	}

	req.Header.Set("Authorization", credential)
}

func (s *Session) expired(claims *auth.Claims) bool {
	return claims.ExpiresAt == nil || !s.now().Before(claims.ExpiresAt.Time)
}

// reads the claim from a credential without checking its signature; the server re-verifies every call
func Decode(credential string) (*auth.Claims, error) {
	raw := strings.TrimPrefix(credential, auth.BearerPrefix)
	claims := &auth.Claims{}

	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("failed to decode credential: %w", err)
	}

	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("failed to decode credential: no expiry")
	}

	return claims, nil
}
