package auth

import "errors"

var (
	// no account is registered under the email
	ErrAccountNotFound = errors.New("account not found")

	// the password does not match the stored hash
	ErrInvalidCredentials = errors.New("invalid credentials")

	// the request carried no credential
	ErrMissingCredential = errors.New("missing credential")

	// the credential is tampered, malformed or signed with another secret
	ErrInvalidSignature = errors.New("invalid credential signature")

	// the credential is past its expiry
	ErrExpired = errors.New("credential expired")

	errSecretNotSet = errors.New("JWT_SECRET not set")
)
