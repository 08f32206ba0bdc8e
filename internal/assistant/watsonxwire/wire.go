// Package watsonxwire holds the request and response schema of the Watsonx
// text-generation endpoint plus the mapping from transport failures to the
// shared fault taxonomy. Both client variants build on it; only token
// acquisition differs between them.
package watsonxwire

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"smartsdlc/internal/assistant"
	"smartsdlc/internal/models"
)

// GenerationPath and APIVersion pin the upstream endpoint revision.
const (
	GenerationPath = "/ml/v1-beta/generation/text"
	APIVersion     = "2023-05-29"
)

const maxErrorBodyBytes = 64 * 1024

// GenerationURL builds the full generation endpoint URL for a base URL.
func GenerationURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + GenerationPath + "?version=" + APIVersion
}

// Payload is the JSON body of a generation request.
type Payload struct {
	ModelID    string     `json:"model_id"`
	Input      string     `json:"input"`
	Parameters Parameters `json:"parameters"`
	ProjectID  string     `json:"project_id"`
}

// Parameters mirrors the decoding-parameter block of the wire schema.
type Parameters struct {
	DecodingMethod string   `json:"decoding_method"`
	MaxNewTokens   int      `json:"max_new_tokens"`
	MinNewTokens   int      `json:"min_new_tokens"`
	StopSequences  []string `json:"stop_sequences"`
	Temperature    float64  `json:"temperature"`
	TopK           int      `json:"top_k"`
	TopP           float64  `json:"top_p"`
}

// NewPayload assembles the wire body for one generation request.
func NewPayload(modelID, projectID string, req models.GenerationRequest) Payload {
	stop := req.Parameters.StopSequences
	if stop == nil {
		// The endpoint expects an array, not null.
		stop = []string{}
	}

	method := req.Parameters.DecodingMethod
	if method == "" {
		method = "greedy"
	}

	return Payload{
		ModelID: modelID,
		Input:   req.Input,
		Parameters: Parameters{
			DecodingMethod: method,
			MaxNewTokens:   req.Parameters.MaxNewTokens,
			MinNewTokens:   req.Parameters.MinNewTokens,
			StopSequences:  stop,
			Temperature:    req.Parameters.Temperature,
			TopK:           req.Parameters.TopK,
			TopP:           req.Parameters.TopP,
		},
		ProjectID: projectID,
	}
}

type generationResponse struct {
	Results []struct {
		GeneratedText string `json:"generated_text"`
	} `json:"results"`
}

// DecodeGeneration extracts the generated text from a 2xx response body,
// returning a malformed-response fault when the expected fields are missing.
func DecodeGeneration(body io.Reader) (string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", assistant.NewFault(assistant.FaultTransport,
			fmt.Sprintf("Connection error: reading Watsonx API response failed: %v", err))
	}

	var resp generationResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", assistant.NewFault(assistant.FaultMalformed,
			fmt.Sprintf("JSON decode error: %v - could not parse Watsonx API response", err))
	}

	if len(resp.Results) == 0 {
		return "", assistant.NewFault(assistant.FaultMalformed,
			fmt.Sprintf("Error: unexpected response format from Watsonx API: %s", strings.TrimSpace(string(raw))))
	}
	return resp.Results[0].GeneratedText, nil
}

// StatusFault maps a non-2xx generation response to an http_status fault,
// pulling structured detail out of the body when the upstream sent JSON.
func StatusFault(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return assistant.NewFault(assistant.FaultHTTPStatus,
			fmt.Sprintf("HTTP error occurred: status %d and the response body could not be read: %v", resp.StatusCode, err))
	}

	trimmed := strings.TrimSpace(string(body))
	msg := fmt.Sprintf("HTTP error occurred: status %d", resp.StatusCode)

	var detail map[string]any
	if err := json.Unmarshal(body, &detail); err == nil && len(detail) > 0 {
		return assistant.NewFault(assistant.FaultHTTPStatus, fmt.Sprintf("%s - Details: %s", msg, trimmed))
	}
	if trimmed != "" {
		return assistant.NewFault(assistant.FaultHTTPStatus, fmt.Sprintf("%s - Response: %s", msg, trimmed))
	}
	return assistant.NewFault(assistant.FaultHTTPStatus, msg)
}

// TransportFault maps an http.Client.Do failure to a timeout or connection
// fault, keeping the base URL in the message so misconfiguration is obvious.
func TransportFault(err error, baseURL string) error {
	var urlErr *url.Error
	timedOut := errors.As(err, &urlErr) && urlErr.Timeout()
	if timedOut || errors.Is(err, context.DeadlineExceeded) {
		return assistant.NewFault(assistant.FaultTimeout,
			fmt.Sprintf("Timeout error: %v - Watsonx API took too long to respond", err))
	}
	return assistant.NewFault(assistant.FaultTransport,
		fmt.Sprintf("Connection error: %v - check network or Watsonx URL: %s", err, baseURL))
}
