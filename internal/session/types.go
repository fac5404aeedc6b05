package session

import (
	"sync"
	"time"

	"codeberg.org/devconnector/server/internal/auth"
)

// storage key holding the raw credential
const StorageKey = "jwtToken"

// client auth state read by route guards
type State struct {
	Authenticated bool
	User          *auth.Claims // decoded claim, informational only
}

// explicit client session: credential persistence, auth state and request attachment
type Session struct {
	storage Storage
	now     func() time.Time

	mu         sync.RWMutex
	credential string
	state      State
	onClear    []func()
}

// configures a Session
type Option func(*Session)

// overrides the clock used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}
