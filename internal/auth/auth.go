package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/devconnector/server/devconnector/users"
	"github.com/golang-jwt/jwt/v5"
)

// creates an issuer signing with the given secret
func NewIssuer(accounts AccountFinder, secret string, opts ...Option) *Issuer {
	o := buildOptions(opts)

	return &Issuer{
		accounts: accounts,
		secret:   []byte(secret),
		now:      o.now,
	}
}

// authenticates email and password and returns a signed credential
func (i *Issuer) Issue(ctx context.Context, email, password string) (string, error) {
	account, err := i.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return "", ErrAccountNotFound
		}

		return "", fmt.Errorf("failed to look up account: %w", err)
	}

	if err := ComparePassword(password, account.PasswordHash); err != nil {
		return "", err
	}

	return i.Mint(account)
}

// signs a credential for an already authenticated account
func (i *Issuer) Mint(account *users.User) (string, error) {
	if len(i.secret) == 0 {
		return "", errSecretNotSet
	}

	// NumericDate has second precision; truncating keeps exp - iat exact
	issuedAt := i.now().Truncate(jwt.TimePrecision)

	claims := Claims{
		UserID:    account.ID,
		Name:      account.Name,
		AvatarURL: account.AvatarURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(CredentialLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign credential: %w", err)
	}

	return signed, nil
}

// creates a verifier checking signatures with the given secret
func NewVerifier(secret string, opts ...Option) *Verifier {
	o := buildOptions(opts)

	return &Verifier{
		secret: []byte(secret),
		now:    o.now,
	}
}

// validates a raw credential and returns its claims
func (v *Verifier) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrMissingCredential
	}

	if len(v.secret) == 0 {
		return nil, errSecretNotSet
	}

	claims := &Claims{}

	// signature is checked before expiry, so a tampered expired token is ErrInvalidSignature
	_, err := jwt.ParseWithClaims(raw, claims, v.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(v.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrExpired, err)
		}

		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	return claims, nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}

	return v.secret, nil
}

// extracts the credential from an Authorization header value
func CredentialFromHeader(header string) (string, error) {
	if header == "" {
		return "", ErrMissingCredential
	}

	token, ok := strings.CutPrefix(header, BearerPrefix)
	if !ok || token == "" || strings.Contains(token, " ") {
		return "", fmt.Errorf("%w: invalid authorization header format", ErrInvalidSignature)
	}

	return token, nil
}

// reads the claims stored by the middleware from a request context
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*Claims)
	return claims, ok
}
