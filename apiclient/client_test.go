package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convonest/db"
	"convonest/identity"
)

func signedToken(t *testing.T, email string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func tempCredStore(t *testing.T) *db.CredentialStore {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.InitSchema(database))
	return db.NewCredentialStore(database)
}

func authCapturingServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var headers []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = append(headers, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)
	return srv, &headers
}

func TestRequestWithoutTokenOrSessionGoesUnauthenticated(t *testing.T) {
	srv, headers := authCapturingServer(t)

	// Empty credential store, session store that never resolves: the
	// bounded wait elapses and the request still goes out.
	c := New(srv.URL, tempCredStore(t), identity.NewStore(), identity.NewClient("http://127.0.0.1:0", ""), 50*time.Millisecond)

	start := time.Now()
	_, err := c.Posts(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	require.Len(t, *headers, 1)
	assert.Empty(t, (*headers)[0], "no Authorization header without a credential")
}

func TestPersistedTokenIsAttached(t *testing.T) {
	srv, headers := authCapturingServer(t)

	creds := tempCredStore(t)
	token := signedToken(t, "a@x.com", time.Now().Add(time.Hour))
	require.NoError(t, creds.Save(token))

	sessions := identity.NewStore()
	sessions.Clear()
	c := New(srv.URL, creds, sessions, identity.NewClient("http://127.0.0.1:0", ""), 50*time.Millisecond)

	_, err := c.Posts(context.Background())
	require.NoError(t, err)

	require.Len(t, *headers, 1)
	assert.Equal(t, "Bearer "+token, (*headers)[0])
}

func TestExpiredPersistedTokenIsSkipped(t *testing.T) {
	srv, headers := authCapturingServer(t)

	creds := tempCredStore(t)
	require.NoError(t, creds.Save(signedToken(t, "a@x.com", time.Now().Add(-time.Hour))))

	sessions := identity.NewStore()
	sessions.Clear() // resolved signed-out, so minting is skipped too
	c := New(srv.URL, creds, sessions, identity.NewClient("http://127.0.0.1:0", ""), 50*time.Millisecond)

	_, err := c.Posts(context.Background())
	require.NoError(t, err)

	require.Len(t, *headers, 1)
	assert.Empty(t, (*headers)[0])
}

func TestSessionMintedTokenIsAttached(t *testing.T) {
	srv, headers := authCapturingServer(t)

	sessions := identity.NewStore()
	sessions.Set(&identity.Session{
		Email:     "a@x.com",
		IDToken:   "minted-token",
		ExpiresAt: time.Now().Add(time.Hour),
	})

	c := New(srv.URL, tempCredStore(t), sessions, identity.NewClient("http://127.0.0.1:0", ""), time.Second)

	_, err := c.Posts(context.Background())
	require.NoError(t, err)

	require.Len(t, *headers, 1)
	assert.Equal(t, "Bearer minted-token", (*headers)[0])
}

func TestStatusErrorCarriesCodeAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Post not found"}`))
	}))
	t.Cleanup(srv.Close)

	sessions := identity.NewStore()
	sessions.Clear()
	c := New(srv.URL, tempCredStore(t), sessions, identity.NewClient("http://127.0.0.1:0", ""), 50*time.Millisecond)

	_, err := c.Post(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.Contains(t, err.Error(), "Post not found")
}
