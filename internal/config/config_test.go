package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const validConfig = `
server:
  port: 8080
watsonx:
  base_url: https://eu-de.ml.cloud.ibm.com
  project_id: proj-123
  api_key: key-abc
  model_id: ibm/granite-3-3-8b-instruct
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, ClientDirect, cfg.Watsonx.Client)
	assert.Equal(t, "https://iam.cloud.ibm.com/identity/token", cfg.Watsonx.AuthURL)
	assert.Equal(t, 50*time.Minute, cfg.Watsonx.TokenTTL)
	assert.Equal(t, 1000, cfg.Generation.MaxNewTokens)
	assert.Equal(t, 1, cfg.Generation.MinNewTokens)
	assert.InDelta(t, 0.7, cfg.Generation.Temperature, 0.0001)
	assert.Equal(t, 50, cfg.Generation.TopK)
	assert.InDelta(t, 1.0, cfg.Generation.TopP, 0.0001)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestLoadEnvironmentOverridesWin(t *testing.T) {
	t.Setenv("WATSONX_API_KEY", "env-key")
	t.Setenv("WATSONX_PROJECT_ID", "env-project")

	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Watsonx.APIKey)
	assert.Equal(t, "env-project", cfg.Watsonx.ProjectID)
	assert.Equal(t, "https://eu-de.ml.cloud.ibm.com", cfg.Watsonx.BaseURL)
}

func TestLoadRejectsUnknownClientVariant(t *testing.T) {
	_, err := Load(writeConfig(t, validConfig+"  client: langchain\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watsonx.client")
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	body := `
server:
  port: 8080
watsonx:
  base_url: https://eu-de.ml.cloud.ibm.com
  model_id: ibm/granite-3-3-8b-instruct
`
	_, err := Load(writeConfig(t, body))
	require.Error(t, err)
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsTokenBudgetInversion(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	cfg.Generation.MaxNewTokens = 5
	cfg.Generation.MinNewTokens = 50
	assert.Error(t, cfg.Validate())
}
