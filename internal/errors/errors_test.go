package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		category  string
		sanitized string
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, CategoryValidation, "validation failed"},
		{"other pg error", &pgconn.PgError{Code: "42P01"}, CategoryDatabase, "database operation failed"},
		{"no rows", fmt.Errorf("find user: %w", pgx.ErrNoRows), CategoryNotFound, "resource not found"},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), CategoryTimeout, "request timed out"},
		{"canceled", context.Canceled, CategoryTimeout, "request canceled"},
		{"redis", errors.New("redis: connection pool exhausted"), CategoryNetwork, "connection error occurred"},
		{"bcrypt", errors.New("bcrypt: password length exceeds 72 bytes"), CategoryAuth, "permission denied"},
		{"unknown", errors.New("boom"), CategoryUnknown, "an error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", "production")

			info := classifyError(tt.err)
			assert.Equal(t, tt.category, info.category)
			assert.Equal(t, tt.sanitized, info.sanitized)
		})
	}
}

func TestClassifyError_DevelopmentKeepsMessage(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	info := classifyError(errors.New("boom"))

	assert.Equal(t, CategoryUnknown, info.category)
	assert.Equal(t, "boom", info.sanitized)
	assert.Empty(t, classifyError(nil).sanitized)
}

func respond(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	nextCalled := false

	router := gin.New()
	router.GET("/", handler, func(c *gin.Context) {
		nextCalled = true
		c.Status(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	return w, nextCalled
}

func TestUnauthorized_AbortsChain(t *testing.T) {
	w, nextCalled := respond(t, func(c *gin.Context) { Unauthorized(c, "") })

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorResponse{Error: CodeUnauthorized, Message: "authentication required"}, resp)
}

func TestTooManyRequests_AbortsChain(t *testing.T) {
	w, nextCalled := respond(t, func(c *gin.Context) { TooManyRequests(c, "slow down") })

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"too_many_requests","message":"slow down"}`, w.Body.String())
}

func TestFields(t *testing.T) {
	w, _ := respond(t, func(c *gin.Context) {
		Fields(c, http.StatusNotFound, FieldErrors{"email": "User not found"})
		c.Abort()
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"email":"User not found"}`, w.Body.String())
}

func TestInternalError_SanitizedInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	w, _ := respond(t, func(c *gin.Context) {
		InternalError(c, "", &pgconn.PgError{Code: "08006", Message: "connection failure on 10.0.0.3"})
		c.Abort()
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, CodeServerError, resp.Error)
	assert.Equal(t, "an error occurred", resp.Message)
	assert.Equal(t, "database operation failed", resp.Details)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}
