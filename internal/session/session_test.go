package session

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"codeberg.org/devconnector/server/devconnector/users"
	"codeberg.org/devconnector/server/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing"

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// returns a "Bearer <jwt>" credential issued at issuedAt
func bearerCredential(t *testing.T, issuedAt time.Time) string {
	t.Helper()

	issuer := auth.NewIssuer(nil, testSecret, auth.WithClock(clockAt(issuedAt)))

	token, err := issuer.Mint(&users.User{ID: "user-1", Name: "Ann", AvatarURL: "//avatar"})
	require.NoError(t, err)

	return auth.BearerPrefix + token
}

func newSQLiteStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	storage, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "session.db"))
	require.NoError(t, err)

	t.Cleanup(func() { storage.Close() }) //nolint:errcheck,gosec // test cleanup

	return storage
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestPersistLoad_RoundTripsBytes(t *testing.T) {
	storages := map[string]Storage{
		"sqlite": newSQLiteStorage(t),
		"memory": NewMemoryStorage(),
	}

	for name, storage := range storages {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := New(storage)

			for _, credential := range []string{
				bearerCredential(t, testNow),
				"Bearer not.a.jwt",
				"  odd \"quoted\" value with ünïcode  ",
			} {
				require.NoError(t, s.Persist(ctx, credential))

				loaded, ok, err := s.Load(ctx)
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, credential, loaded)
			}
		})
	}
}

func TestLoad_Empty(t *testing.T) {
	s := New(newSQLiteStorage(t))

	loaded, ok, err := s.Load(context.Background())

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, loaded)
}

func TestInit_ValidCredentialAuthenticates(t *testing.T) {
	ctx := context.Background()
	storage := newSQLiteStorage(t)
	credential := bearerCredential(t, testNow)
	require.NoError(t, storage.Set(ctx, StorageKey, credential))

	s := New(storage, WithClock(clockAt(testNow.Add(59*time.Minute))))
	require.NoError(t, s.Init(ctx))

	state := s.State()
	assert.True(t, state.Authenticated)
	require.NotNil(t, state.User)
	assert.Equal(t, "user-1", state.User.UserID)
	assert.Equal(t, "Ann", state.User.Name)
}

func TestInit_ExpiredCredentialClearsWithoutNetwork(t *testing.T) {
	ctx := context.Background()
	storage := newSQLiteStorage(t)
	require.NoError(t, storage.Set(ctx, StorageKey, bearerCredential(t, testNow)))

	calls := 0
	base := roundTripperFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return nil, assert.AnError
	})

	cleared := false
	s := New(storage, WithClock(clockAt(testNow.Add(time.Hour))))
	s.OnClear(func() { cleared = true })
	_ = s.Client(&http.Client{Transport: base})

	require.NoError(t, s.Init(ctx))

	assert.False(t, s.Authenticated())
	assert.True(t, cleared)
	assert.Zero(t, calls)

	_, ok, err := storage.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.False(t, ok, "expired credential should be removed from storage")
}

func TestInit_UnreadableCredentialClears(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, StorageKey, "Bearer garbage"))

	s := New(storage)
	require.NoError(t, s.Init(ctx))

	assert.False(t, s.Authenticated())

	_, ok, _ := storage.Get(ctx, StorageKey)
	assert.False(t, ok)
}

func TestLogin_PersistsAndAuthenticates(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	credential := bearerCredential(t, testNow)

	s := New(storage, WithClock(clockAt(testNow)))
	require.NoError(t, s.Login(ctx, credential))

	assert.True(t, s.Authenticated())

	stored, ok, err := storage.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, credential, stored)
}

func TestLogin_RejectsUndecodableCredential(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	s := New(storage)

	err := s.Login(ctx, "Bearer nope")

	require.Error(t, err)
	assert.False(t, s.Authenticated())

	_, ok, _ := storage.Get(ctx, StorageKey)
	assert.False(t, ok)
}

func TestLogout_ClearsStorageAndRunsHooks(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	s := New(storage, WithClock(clockAt(testNow)))
	require.NoError(t, s.Login(ctx, bearerCredential(t, testNow)))

	hooks := 0
	s.OnClear(func() { hooks++ })
	s.OnClear(func() { hooks++ })

	require.NoError(t, s.Logout(ctx))

	assert.False(t, s.Authenticated())
	assert.Nil(t, s.State().User)
	assert.Equal(t, 2, hooks)

	_, ok, _ := storage.Get(ctx, StorageKey)
	assert.False(t, ok)
}

func TestAttach(t *testing.T) {
	ctx := context.Background()
	credential := bearerCredential(t, testNow)

	t.Run("no credential", func(t *testing.T) {
		s := New(NewMemoryStorage())
		req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)

		s.Attach(req)

		assert.Empty(t, req.Header.Get("Authorization"))
	})

	t.Run("live credential", func(t *testing.T) {
		s := New(NewMemoryStorage(), WithClock(clockAt(testNow.Add(30*time.Minute))))
		require.NoError(t, s.Login(ctx, credential))
		req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)

		s.Attach(req)

		assert.Equal(t, credential, req.Header.Get("Authorization"))
	})

	t.Run("expired at use time", func(t *testing.T) {
		now := testNow
		storage := NewMemoryStorage()
		s := New(storage, WithClock(func() time.Time { return now }))
		require.NoError(t, s.Login(ctx, credential))

		now = testNow.Add(time.Hour)
		req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)

		s.Attach(req)

		assert.Empty(t, req.Header.Get("Authorization"))
		assert.False(t, s.Authenticated())

		_, ok, _ := storage.Get(ctx, StorageKey)
		assert.False(t, ok)
	})
}

func TestTransport_AttachesAndInvalidatesOn401(t *testing.T) {
	ctx := context.Background()
	credential := bearerCredential(t, testNow)

	var (
		mu   sync.Mutex
		seen []string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()

		if strings.HasSuffix(r.URL.Path, "/reject") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	storage := NewMemoryStorage()
	s := New(storage, WithClock(clockAt(testNow)))
	require.NoError(t, s.Login(ctx, credential))

	cleared := false
	s.OnClear(func() { cleared = true })

	client := s.Client(srv.Client())

	resp, err := client.Get(srv.URL + "/api/users/current")
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body) //nolint:errcheck,gosec // drain
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, s.Authenticated())

	resp, err = client.Get(srv.URL + "/api/reject")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, s.Authenticated())
	assert.True(t, cleared)

	resp, err = client.Get(srv.URL + "/api/users/current")
	require.NoError(t, err)
	resp.Body.Close()

	mu.Lock()
	assert.Equal(t, []string{credential, credential, ""}, seen)
	mu.Unlock()

	_, ok, _ := storage.Get(ctx, StorageKey)
	assert.False(t, ok)
}

func TestTransport_UnauthenticatedFailureLeavesNothingToClear(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	hooks := 0
	s := New(NewMemoryStorage())
	s.OnClear(func() { hooks++ })

	resp, err := s.Client(nil).Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Zero(t, hooks)
}

func TestDecode(t *testing.T) {
	credential := bearerCredential(t, testNow)

	claims, err := Decode(credential)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, testNow.Add(time.Hour), claims.ExpiresAt.Time.UTC())

	// the unprefixed form decodes too
	claims, err = Decode(strings.TrimPrefix(credential, auth.BearerPrefix))
	require.NoError(t, err)
	assert.Equal(t, "Ann", claims.Name)

	_, err = Decode("Bearer a.b.c")
	assert.Error(t, err)
}

func TestClearIf(t *testing.T) {
	ctx := context.Background()
	first := bearerCredential(t, testNow)
	second := bearerCredential(t, testNow.Add(time.Minute))

	storage := NewMemoryStorage()
	s := New(storage, WithClock(clockAt(testNow.Add(2*time.Minute))))
	require.NoError(t, s.Login(ctx, second))

	hooks := 0
	s.OnClear(func() { hooks++ })

	cleared, err := s.ClearIf(ctx, first)
	require.NoError(t, err)
	assert.False(t, cleared)
	assert.True(t, s.Authenticated())
	assert.Zero(t, hooks)

	cleared, err = s.ClearIf(ctx, "")
	require.NoError(t, err)
	assert.False(t, cleared)

	cleared, err = s.ClearIf(ctx, second)
	require.NoError(t, err)
	assert.True(t, cleared)
	assert.False(t, s.Authenticated())
	assert.Equal(t, 1, hooks)

	_, ok, _ := storage.Get(ctx, StorageKey)
	assert.False(t, ok)
}

func TestTransport_LateRejectionKeepsNewerLogin(t *testing.T) {
	ctx := context.Background()
	stale := bearerCredential(t, testNow)
	fresh := bearerCredential(t, testNow.Add(time.Minute))

	storage := NewMemoryStorage()
	s := New(storage, WithClock(clockAt(testNow.Add(2*time.Minute))))
	require.NoError(t, s.Login(ctx, stale))

	// the user logs in again while the request with the old credential is in flight
	base := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, stale, r.Header.Get("Authorization"))
		require.NoError(t, s.Login(ctx, fresh))

		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Body:       io.NopCloser(strings.NewReader(`{"error":"unauthorized"}`)),
			Request:    r,
		}, nil
	})

	hooks := 0
	s.OnClear(func() { hooks++ })

	req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
	resp, err := (&Transport{Session: s, Base: base}).RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.True(t, s.Authenticated())
	assert.Zero(t, hooks)

	stored, ok, err := storage.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, fresh, stored)
}
