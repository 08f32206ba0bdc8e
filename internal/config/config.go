package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"gopkg.in/yaml.v3"
)

// Client variant names accepted for watsonx.client.
const (
	ClientDirect = "direct"
	ClientSDK    = "sdk"
)

const (
	defaultAuthURL  = "https://iam.cloud.ibm.com/identity/token"
	defaultTokenTTL = 50 * time.Minute
)

// Config represents the application configuration parsed from YAML, with
// credential fields overridable from the environment.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Watsonx    WatsonxConfig    `yaml:"watsonx"`
	Generation GenerationConfig `yaml:"generation"`
	Session    SessionConfig    `yaml:"session"`
}

// ServerConfig defines listener configuration.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// WatsonxConfig captures credentials and endpoint routing for the upstream
// model service. Secrets are normally supplied via environment variables
// rather than committed to the config file.
type WatsonxConfig struct {
	Client    string `yaml:"client"`
	BaseURL   string `yaml:"base_url" env:"WATSONX_URL"`
	ProjectID string `yaml:"project_id" env:"WATSONX_PROJECT_ID"`
	APIKey    string `yaml:"api_key" env:"WATSONX_API_KEY"`
	ModelID   string `yaml:"model_id" env:"WATSONX_MODEL_ID"`
	AuthURL   string `yaml:"auth_url"`

	// TokenTTL bounds how long an acquired bearer token is trusted before a
	// refresh. IAM tokens nominally last an hour; the default keeps a safety
	// margin below that instead of believing the advertised lifetime.
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// GenerationConfig holds default decoding parameters applied to every
// request unless an operation overrides them.
type GenerationConfig struct {
	MaxNewTokens  int      `yaml:"max_new_tokens"`
	MinNewTokens  int      `yaml:"min_new_tokens"`
	Temperature   float64  `yaml:"temperature"`
	TopK          int      `yaml:"top_k"`
	TopP          float64  `yaml:"top_p"`
	StopSequences []string `yaml:"stop_sequences"`
}

// SessionConfig controls the in-memory chat session store.
type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// Load reads YAML configuration from disk, applies environment overrides and
// defaults, and validates the result.
func Load(path string) (Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("resolve config path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %q: %w", absPath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %q: %w", absPath, err)
	}

	if err := env.Parse(&cfg.Watsonx); err != nil {
		return Config{}, fmt.Errorf("apply environment overrides: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Watsonx.Client == "" {
		c.Watsonx.Client = ClientDirect
	}
	if c.Watsonx.AuthURL == "" {
		c.Watsonx.AuthURL = defaultAuthURL
	}
	if c.Watsonx.TokenTTL == 0 {
		c.Watsonx.TokenTTL = defaultTokenTTL
	}
	if c.Generation.MaxNewTokens == 0 {
		c.Generation.MaxNewTokens = 1000
	}
	if c.Generation.MinNewTokens == 0 {
		c.Generation.MinNewTokens = 1
	}
	if c.Generation.Temperature == 0 {
		c.Generation.Temperature = 0.7
	}
	if c.Generation.TopK == 0 {
		c.Generation.TopK = 50
	}
	if c.Generation.TopP == 0 {
		c.Generation.TopP = 1
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 30 * time.Minute
	}
}

// Validate performs strict sanity checks on the configuration.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid TCP port, got %d", c.Server.Port)
	}

	switch c.Watsonx.Client {
	case ClientDirect, ClientSDK:
	default:
		return fmt.Errorf("watsonx.client must be %q or %q, got %q", ClientDirect, ClientSDK, c.Watsonx.Client)
	}

	required := map[string]string{
		"watsonx.base_url":   c.Watsonx.BaseURL,
		"watsonx.project_id": c.Watsonx.ProjectID,
		"watsonx.api_key":    c.Watsonx.APIKey,
		"watsonx.model_id":   c.Watsonx.ModelID,
		"watsonx.auth_url":   c.Watsonx.AuthURL,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must be provided", key)
		}
	}

	if c.Watsonx.TokenTTL <= 0 {
		return fmt.Errorf("watsonx.token_ttl must be positive, got %s", c.Watsonx.TokenTTL)
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("generation.temperature must be within [0, 2], got %g", c.Generation.Temperature)
	}
	if c.Generation.MaxNewTokens < c.Generation.MinNewTokens {
		return fmt.Errorf("generation.max_new_tokens %d must not be below min_new_tokens %d",
			c.Generation.MaxNewTokens, c.Generation.MinNewTokens)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive, got %s", c.Session.TTL)
	}

	return nil
}
