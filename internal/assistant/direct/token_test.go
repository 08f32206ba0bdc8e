package direct

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartsdlc/internal/assistant"
)

func newIdentityServer(t *testing.T, calls *atomic.Int64, token string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "urn:ibm:params:oauth:grant-type:apikey", r.PostForm.Get("grant_type"))
		assert.Equal(t, "test-key", r.PostForm.Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"` + token + `","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTokenReusedWithinValidityWindow(t *testing.T) {
	var calls atomic.Int64
	srv := newIdentityServer(t, &calls, "tok-1")

	m := NewTokenManager(srv.URL, "test-key", time.Hour, srv.Client())

	first, err := m.Token(context.Background())
	require.NoError(t, err)
	second, err := m.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "tok-1", first)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, calls.Load(), "second call inside the window must not hit the identity endpoint")
	assert.True(t, m.ValidUntil().After(time.Now()))
}

func TestTokenRefreshedAfterExpiry(t *testing.T) {
	var calls atomic.Int64
	srv := newIdentityServer(t, &calls, "tok-fresh")

	m := NewTokenManager(srv.URL, "test-key", time.Hour, srv.Client())
	base := time.Now()
	m.now = func() time.Time { return base }

	_, err := m.Token(context.Background())
	require.NoError(t, err)

	// Jump past the validity window.
	m.now = func() time.Time { return base.Add(2 * time.Hour) }

	tok, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-fresh", tok)
	assert.EqualValues(t, 2, calls.Load(), "expired token must trigger exactly one refresh")
	assert.Equal(t, base.Add(2*time.Hour).Add(time.Hour), m.ValidUntil())
}

func TestTokenEmptyResponseIsAuthFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)

	m := NewTokenManager(srv.URL, "test-key", time.Hour, srv.Client())
	_, err := m.Token(context.Background())
	require.Error(t, err)

	fault, ok := assistant.AsFault(err)
	require.True(t, ok)
	assert.Equal(t, assistant.FaultAuth, fault.Kind)
	assert.Contains(t, fault.Message, "no access token")
}

func TestTokenEndpointFailureIsAuthFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "BXNIM0415E: provided API key could not be found", http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	m := NewTokenManager(srv.URL, "test-key", time.Hour, srv.Client())
	_, err := m.Token(context.Background())
	require.Error(t, err)

	fault, ok := assistant.AsFault(err)
	require.True(t, ok)
	assert.Equal(t, assistant.FaultAuth, fault.Kind)
	assert.Contains(t, fault.Message, "status 400")
}

func TestTokenUnreachableEndpointIsAuthFault(t *testing.T) {
	m := NewTokenManager("http://127.0.0.1:1/identity/token", "test-key", time.Hour, &http.Client{Timeout: time.Second})
	_, err := m.Token(context.Background())
	require.Error(t, err)

	fault, ok := assistant.AsFault(err)
	require.True(t, ok)
	assert.Equal(t, assistant.FaultAuth, fault.Kind)
	assert.Contains(t, fault.Message, "Authentication failed")
}
