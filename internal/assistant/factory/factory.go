// Package factory constructs the configured upstream client variant.
package factory

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"smartsdlc/internal/assistant"
	"smartsdlc/internal/assistant/direct"
	"smartsdlc/internal/assistant/sdk"
	"smartsdlc/internal/config"
)

const (
	generationTimeout      = 60 * time.Second
	authTimeout            = 30 * time.Second
	defaultDialTimeout     = 10 * time.Second
	defaultKeepAlive       = 30 * time.Second
	defaultIdleConnTimeout = 90 * time.Second
)

// NewGenerator builds the client variant named by watsonx.client.
func NewGenerator(cfg config.Config) (assistant.Generator, error) {
	genClient := newHTTPClient(generationTimeout)
	authClient := newHTTPClient(authTimeout)

	switch cfg.Watsonx.Client {
	case config.ClientDirect:
		client, err := direct.New(cfg.Watsonx, genClient, authClient)
		if err != nil {
			return nil, fmt.Errorf("initialise direct client: %w", err)
		}
		return client, nil
	case config.ClientSDK:
		client, err := sdk.New(cfg.Watsonx, genClient, authClient)
		if err != nil {
			return nil, fmt.Errorf("initialise sdk client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown watsonx client variant %q", cfg.Watsonx.Client)
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAlive}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          50,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
