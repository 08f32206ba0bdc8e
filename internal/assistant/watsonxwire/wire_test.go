package watsonxwire

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartsdlc/internal/assistant"
	"smartsdlc/internal/models"
)

func TestGenerationURL(t *testing.T) {
	url := GenerationURL("https://eu-de.ml.cloud.ibm.com/")
	assert.Equal(t, "https://eu-de.ml.cloud.ibm.com/ml/v1-beta/generation/text?version=2023-05-29", url)
}

func TestNewPayloadFillsDefaults(t *testing.T) {
	p := NewPayload("model-x", "proj-1", models.GenerationRequest{
		Input: "hello",
		Parameters: models.Parameters{
			MaxNewTokens: 10,
			MinNewTokens: 1,
			Temperature:  0.7,
			TopK:         50,
			TopP:         1,
		},
	})

	assert.Equal(t, "model-x", p.ModelID)
	assert.Equal(t, "proj-1", p.ProjectID)
	assert.Equal(t, "greedy", p.Parameters.DecodingMethod)
	assert.NotNil(t, p.Parameters.StopSequences, "stop_sequences must serialize as an array, not null")
	assert.Empty(t, p.Parameters.StopSequences)
}

func TestDecodeGeneration(t *testing.T) {
	text, err := DecodeGeneration(strings.NewReader(`{"results":[{"generated_text":"hi"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "hi", text)
}

func TestDecodeGenerationMissingResults(t *testing.T) {
	_, err := DecodeGeneration(strings.NewReader(`{"created_at":"2026-08-27"}`))
	require.Error(t, err)

	fault, ok := assistant.AsFault(err)
	require.True(t, ok)
	assert.Equal(t, assistant.FaultMalformed, fault.Kind)
	assert.Contains(t, fault.Message, "unexpected response format")
}

func TestDecodeGenerationInvalidJSON(t *testing.T) {
	_, err := DecodeGeneration(strings.NewReader(`<html>gateway error</html>`))
	require.Error(t, err)

	fault, ok := assistant.AsFault(err)
	require.True(t, ok)
	assert.Equal(t, assistant.FaultMalformed, fault.Kind)
	assert.Contains(t, fault.Message, "JSON decode error")
}

func TestStatusFaultWithJSONDetail(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusInternalServerError,
		Body:       io.NopCloser(strings.NewReader(`{"errors":[{"message":"model overloaded"}]}`)),
	}

	err := StatusFault(resp)
	fault, ok := assistant.AsFault(err)
	require.True(t, ok)
	assert.Equal(t, assistant.FaultHTTPStatus, fault.Kind)
	assert.Contains(t, fault.Message, "HTTP error occurred: status 500")
	assert.Contains(t, fault.Message, "Details:")
	assert.Contains(t, fault.Message, "model overloaded")
}

func TestStatusFaultWithPlainBody(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusBadGateway,
		Body:       io.NopCloser(strings.NewReader("bad gateway")),
	}

	err := StatusFault(resp)
	fault, ok := assistant.AsFault(err)
	require.True(t, ok)
	assert.Contains(t, fault.Message, "Response: bad gateway")
}
