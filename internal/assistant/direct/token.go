package direct

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"smartsdlc/internal/assistant"
)

const apikeyGrantType = "urn:ibm:params:oauth:grant-type:apikey"

// TokenManager acquires bearer tokens from the IAM identity endpoint and
// caches them with a time-based validity window. The window is pinned to the
// configured TTL rather than the lifetime the endpoint advertises.
type TokenManager struct {
	authURL string
	apiKey  string
	ttl     time.Duration
	client  *http.Client

	mu         sync.Mutex
	token      string
	validUntil time.Time

	now func() time.Time
}

// NewTokenManager constructs a token manager. The http.Client's timeout
// bounds the identity call.
func NewTokenManager(authURL, apiKey string, ttl time.Duration, client *http.Client) *TokenManager {
	return &TokenManager{
		authURL: authURL,
		apiKey:  apiKey,
		ttl:     ttl,
		client:  client,
		now:     time.Now,
	}
}

// Token returns the cached bearer token while it is still valid, refreshing
// it from the identity endpoint otherwise. Failures come back as auth faults.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && m.now().Before(m.validUntil) {
		return m.token, nil
	}

	token, err := m.fetch(ctx)
	if err != nil {
		return "", err
	}

	m.token = token
	m.validUntil = m.now().Add(m.ttl)
	return token, nil
}

// ValidUntil exposes the end of the current validity window. Zero when no
// token has been acquired yet.
func (m *TokenManager) ValidUntil() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validUntil
}

func (m *TokenManager) fetch(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", apikeyGrantType)
	form.Set("apikey", m.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("construct token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", assistant.NewFault(assistant.FaultAuth,
			fmt.Sprintf("Authentication failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", assistant.NewFault(assistant.FaultAuth,
			fmt.Sprintf("Authentication failed: identity endpoint returned status %d: %s",
				resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var tokenData struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenData); err != nil {
		return "", assistant.NewFault(assistant.FaultAuth,
			fmt.Sprintf("Authentication failed: invalid response from identity service: %v", err))
	}
	if tokenData.AccessToken == "" {
		return "", assistant.NewFault(assistant.FaultAuth,
			"Authentication failed: no access token received from identity service")
	}
	return tokenData.AccessToken, nil
}
