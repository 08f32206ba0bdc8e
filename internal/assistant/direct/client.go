// Package direct implements the Watsonx generation client with hand-built
// REST calls and its own IAM token management.
package direct

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"smartsdlc/internal/assistant"
	"smartsdlc/internal/assistant/watsonxwire"
	"smartsdlc/internal/config"
	"smartsdlc/internal/models"
)

const (
	contentTypeJSON = "application/json"
	userAgent       = "smartsdlc/0.1"
)

// Client calls the Watsonx text-generation endpoint directly, acquiring
// bearer tokens through its own TokenManager.
type Client struct {
	baseURL   string
	projectID string
	modelID   string
	genURL    string
	client    *http.Client
	tokens    *TokenManager
}

// New constructs a direct client. genClient bounds generation calls and
// authClient bounds identity calls; the two carry different timeouts.
func New(cfg config.WatsonxConfig, genClient, authClient *http.Client) (*Client, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base url must not be empty")
	}
	if genClient == nil || authClient == nil {
		return nil, fmt.Errorf("http clients must not be nil")
	}

	return &Client{
		baseURL:   baseURL,
		projectID: cfg.ProjectID,
		modelID:   cfg.ModelID,
		genURL:    watsonxwire.GenerationURL(baseURL),
		client:    genClient,
		tokens:    NewTokenManager(cfg.AuthURL, cfg.APIKey, cfg.TokenTTL, authClient),
	}, nil
}

// Tokens exposes the token manager, mainly so callers can report the current
// validity window.
func (c *Client) Tokens() *TokenManager {
	return c.tokens
}

// GenerateText implements assistant.Generator.
func (c *Client) GenerateText(ctx context.Context, req models.GenerationRequest) (string, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", err
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
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", contentTypeJSON)
	httpReq.Header.Set("Accept", contentTypeJSON)
	httpReq.Header.Set("User-Agent", userAgent)

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
