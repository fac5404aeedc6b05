package auth

import (
	"context"
	"time"

	"codeberg.org/devconnector/server/devconnector/users"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// fixed lifetime of every credential
	CredentialLifetime = time.Hour

	// prefix the login response and Authorization header put before the credential
	BearerPrefix = "Bearer "

	// gin context keys set by the middleware
	contextKeyClaims = "claims"
	contextKeyUserID = "user_id"
)

// identity claim embedded in a credential
type Claims struct {
	UserID    string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar"`
	jwt.RegisteredClaims
}

// account lookup the issuer needs; users.Store satisfies it
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
}

// mints credentials for accounts whose password checks out
type Issuer struct {
	accounts AccountFinder
	secret   []byte
	now      func() time.Time
}

// checks credentials on inbound requests
type Verifier struct {
	secret []byte
	now    func() time.Time
}

type options struct {
	now func() time.Time
}

// configures an Issuer or Verifier
type Option func(*options)

// overrides the clock, used by tests to move across the expiry boundary
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

type claimsContextKey struct{}
