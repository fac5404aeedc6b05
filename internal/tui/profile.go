package tui

import (
	"sync"

	"codeberg.org/devconnector/server/internal/apiclient"
)

// dashboard's cached current user; cleared from the session's clear hook,
// which may run on a command goroutine
type profileCache struct {
	mu   sync.Mutex
	user *apiclient.CurrentUser
}

func (p *profileCache) Get() *apiclient.CurrentUser {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.user
}

func (p *profileCache) Set(user *apiclient.CurrentUser) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.user = user
}

func (p *profileCache) Clear() {
	p.Set(nil)
}
