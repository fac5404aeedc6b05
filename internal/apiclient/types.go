package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// timeout for API requests
const requestTimeout = 15 * time.Second

// returned for any 401; the session has already been cleared by its transport
var ErrUnauthorized = errors.New("session expired or invalid, please log in again")

// per-field messages returned by the login and register forms
type FieldError struct {
	Status int
	Fields map[string]string
}

func (e *FieldError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}

	return strings.Join(parts, ", ")
}

// structured error body returned by the API
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("request failed with status %d (%s)", e.Status, http.StatusText(e.Status))
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// REST API request/response types

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// registration form
type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// account returned by registration
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}

// identity returned by /api/users/current
type CurrentUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
