// Package sdk implements the Watsonx generation client on top of the oauth2
// token-source machinery: oauth2.ReuseTokenSource owns bearer caching and
// refresh instead of a hand-rolled expiry window.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"smartsdlc/internal/assistant"
	"smartsdlc/internal/assistant/watsonxwire"
	"smartsdlc/internal/config"
	"smartsdlc/internal/models"
)

const contentTypeJSON = "application/json"

// iamSource exchanges the API key for a bearer token using the IAM apikey
// grant. It issues one token per call; wrap it in oauth2.ReuseTokenSource
// for caching.
type iamSource struct {
	authURL string
	apiKey  string
	client  *http.Client
}

func (s *iamSource) Token() (*oauth2.Token, error) {
	form := url.Values{}
	form.Set("grant_type", "urn:ibm:params:oauth:grant-type:apikey")
	form.Set("apikey", s.apiKey)

	req, err := http.NewRequest(http.MethodPost, s.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("construct token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, assistant.NewFault(assistant.FaultAuth,
			fmt.Sprintf("Authentication failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, assistant.NewFault(assistant.FaultAuth,
			fmt.Sprintf("Authentication failed: identity endpoint returned status %d: %s",
				resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var tokenData struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenData); err != nil {
		return nil, assistant.NewFault(assistant.FaultAuth,
			fmt.Sprintf("Authentication failed: invalid response from identity service: %v", err))
	}
	if tokenData.AccessToken == "" {
		return nil, assistant.NewFault(assistant.FaultAuth,
			"Authentication failed: no access token received from identity service")
	}

	token := &oauth2.Token{
		AccessToken: tokenData.AccessToken,
		TokenType:   "Bearer",
	}
	if tokenData.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(tokenData.ExpiresIn) * time.Second)
	}
	return token, nil
}

// Client calls the Watsonx generation endpoint with bearer tokens supplied
// by an oauth2.TokenSource.
type Client struct {
	baseURL   string
	projectID string
	modelID   string
	genURL    string
	client    *http.Client
	tokenSrc  oauth2.TokenSource
}

// New constructs an sdk-style client. genClient bounds generation calls and
// authClient bounds identity calls.
func New(cfg config.WatsonxConfig, genClient, authClient *http.Client) (*Client, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base url must not be empty")
	}
	if genClient == nil || authClient == nil {
		return nil, fmt.Errorf("http clients must not be nil")
	}

	src := &iamSource{
		authURL: cfg.AuthURL,
		apiKey:  cfg.APIKey,
		client:  authClient,
	}

	return &Client{
		baseURL:   baseURL,
		projectID: cfg.ProjectID,
		modelID:   cfg.ModelID,
		genURL:    watsonxwire.GenerationURL(baseURL),
		client:    genClient,
		tokenSrc:  oauth2.ReuseTokenSource(nil, src),
	}, nil
}

// GenerateText implements assistant.Generator.
func (c *Client) GenerateText(ctx context.Context, req models.GenerationRequest) (string, error) {
	token, err := c.tokenSrc.Token()
	if err != nil {
		if _, ok := assistant.AsFault(err); ok {
			return "", err
		}
		return "", assistant.NewFault(assistant.FaultAuth,
			fmt.Sprintf("Authentication failed: %v", err))
	}

	payload := watsonxwire.NewPayload(c.modelID, c.projectID, req)
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal generation payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.genURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("construct generation request: %w", err)
	}
	token.SetAuthHeader(httpReq)
	httpReq.Header.Set("Content-Type", contentTypeJSON)
	httpReq.Header.Set("Accept", contentTypeJSON)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return "", watsonxwire.TransportFault(err, c.baseURL)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 400 {
		return "", watsonxwire.StatusFault(httpResp)
	}

	return watsonxwire.DecodeGeneration(httpResp.Body)
}

var _ assistant.Generator = (*Client)(nil)
