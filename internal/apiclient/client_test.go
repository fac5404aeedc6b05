package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	restusers "codeberg.org/devconnector/server/api/rest/users"
	"codeberg.org/devconnector/server/devconnector/users"
	"codeberg.org/devconnector/server/internal/auth"
	"codeberg.org/devconnector/server/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing"

func init() {
	gin.SetMode(gin.TestMode)
}

// clock shared by the test server and the client session
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type testEnv struct {
	clock   *testClock
	storage *session.MemoryStorage
	session *session.Session
	client  *Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := &testClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	store := users.NewMemoryStore()

	router := gin.New()
	restusers.RegisterRoutes(router.Group("/api"), store,
		auth.NewIssuer(store, testSecret, auth.WithClock(clock.Now)),
		auth.NewVerifier(testSecret, auth.WithClock(clock.Now)),
		func(c *gin.Context) { c.Next() },
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	storage := session.NewMemoryStorage()
	sess := session.New(storage, session.WithClock(clock.Now))

	return &testEnv{
		clock:   clock,
		storage: storage,
		session: sess,
		client:  New(srv.URL+"/", sess.Client(srv.Client())),
	}
}

func (e *testEnv) register(t *testing.T) *Account {
	t.Helper()

	account, err := e.client.Register(context.Background(), RegisterRequest{
		Name:      "Ann",
		Email:     "a@b.com",
		Password:  "correct",
		Password2: "correct",
	})
	require.NoError(t, err)

	return account
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	account := env.register(t)

	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "Ann", account.Name)
	assert.Equal(t, "a@b.com", account.Email)
	assert.Contains(t, account.AvatarURL, "gravatar.com/avatar/")

	_, err := env.client.Register(context.Background(), RegisterRequest{
		Name: "Ann", Email: "a@b.com", Password: "correct", Password2: "correct",
	})

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, http.StatusBadRequest, fieldErr.Status)
	assert.Equal(t, "Email already exists", fieldErr.Fields["email"])
}

func TestLogin_FieldErrors(t *testing.T) {
	env := newTestEnv(t)
	env.register(t)

	tests := []struct {
		name     string
		email    string
		password string
		status   int
		field    string
		message  string
	}{
		{"unknown email", "nobody@b.com", "correct", http.StatusNotFound, "email", "User not found"},
		{"wrong password", "a@b.com", "wrong", http.StatusBadRequest, "password", "Incorrect Password"},
		{"invalid email", "not-an-email", "correct", http.StatusBadRequest, "email", "Email is not formatted correctly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := env.client.Login(context.Background(), tt.email, tt.password)

			assert.Empty(t, token)

			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.status, fieldErr.Status)
			assert.Equal(t, tt.message, fieldErr.Fields[tt.field])
		})
	}
}

func TestLoginCurrentAndExpiry(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	account := env.register(t)

	token, err := env.client.Login(ctx, "a@b.com", "correct")
	require.NoError(t, err)
	assert.Regexp(t, `^Bearer [\w-]+\.[\w-]+\.[\w-]+$`, token)

	// not yet logged in locally: no credential attached
	_, err = env.client.Current(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, env.session.Login(ctx, token))

	current, err := env.client.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, CurrentUser{ID: account.ID, Name: "Ann", Email: "a@b.com"}, *current)

	env.clock.Advance(time.Hour)

	_, err = env.client.Current(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, env.session.Authenticated())

	_, ok, err := env.storage.Get(ctx, session.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCurrent_ServerRejectionClearsSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.register(t)

	// signed by a different secret: decodes locally but the server rejects it
	forged, err := auth.NewIssuer(nil, "some-other-secret", auth.WithClock(env.clock.Now)).
		Mint(&users.User{ID: "user-1", Name: "Ann"})
	require.NoError(t, err)
	require.NoError(t, env.session.Login(ctx, auth.BearerPrefix+forged))

	_, err = env.client.Current(ctx)

	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.False(t, env.session.Authenticated())
}

func TestDecodeError(t *testing.T) {
	assert.ErrorIs(t, decodeError(http.StatusUnauthorized, []byte(`{"error":"unauthorized"}`)), ErrUnauthorized)

	err := decodeError(http.StatusTooManyRequests, []byte(`{"error":"too_many_requests","message":"slow down"}`))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "too_many_requests", apiErr.Code)
	assert.Equal(t, "too_many_requests: slow down", apiErr.Error())

	err = decodeError(http.StatusBadRequest, []byte(`{"password":"Incorrect Password","email":"bad"}`))
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "email: bad, password: Incorrect Password", fieldErr.Error())

	err = decodeError(http.StatusBadGateway, []byte("<html>"))
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "Bad Gateway")
}
