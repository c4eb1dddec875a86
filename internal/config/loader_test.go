package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadFrom_Defaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.HTTP.Port)
	assert.Equal(t, "anthropic", cfg.LLM.DefaultProvider)

	p, ok := cfg.DefaultProviderConfig()
	require.True(t, ok)
	assert.Equal(t, ProtocolAnthropic, p.Protocol)
	assert.Equal(t, "claude-3-5-sonnet-20241022", p.Model)
	assert.Equal(t, 8000, p.MaxTokens)
	assert.Equal(t, 60*time.Second, p.Timeout)
	assert.False(t, cfg.HasDefaultCredential())

	require.Len(t, cfg.Pricing.Regions, 3)
	assert.Equal(t, "mexico", cfg.Pricing.Regions[0].ID)
	assert.Equal(t, 75.0, cfg.Pricing.Regions[1].HourlyRate)
	assert.Equal(t, []string{"*"}, cfg.Security.CORS.AllowedOrigins)
	assert.False(t, cfg.Security.RateLimit.Enabled)
}

func TestLoadFrom_CredentialFallback(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-from-env-123")
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.HasDefaultCredential())

	p, _ := cfg.DefaultProviderConfig()
	assert.Equal(t, "sk-from-env-123", p.APIKey)
}

func TestLoadFrom_FileWithPlaceholders(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("PROPOSAL_PORT", "8088")
	t.Setenv("ANTHROPIC_API_KEY", "")

	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `
server:
  http:
    port: ${PROPOSAL_PORT:3001}
llm:
  default_provider: anthropic
  providers:
    anthropic:
      protocol: anthropic
      model: ${LLM_MODEL:claude-3-5-haiku-20241022}
      timeout: 30s
pricing:
  regions:
    - id: latam
      name: Latin America
      hourly_rate: 30
      currency: USD
      symbol: $
`)
	writeConfig(t, dir, "config.test.yaml", `
observability:
  logging:
    level: debug
`)

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.HTTP.Port)
	p, ok := cfg.DefaultProviderConfig()
	require.True(t, ok)
	assert.Equal(t, "claude-3-5-haiku-20241022", p.Model)
	assert.Equal(t, 30*time.Second, p.Timeout)
	require.Len(t, cfg.Pricing.Regions, 1)
	assert.Equal(t, "latam", cfg.Pricing.Regions[0].ID)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
}

// unsetEnv 在测试期间移除环境变量，结束后恢复
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadFrom_ShippedConfig(t *testing.T) {
	unsetEnv(t, "CORS_ORIGIN", "PORT", "LLM_PROVIDER", "ANTHROPIC_API_KEY", "RATE_LIMIT_BACKEND")
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadFrom(filepath.Join("..", "..", "configs"))
	require.NoError(t, err)

	assert.Equal(t, []string{"*"}, cfg.Security.CORS.AllowedOrigins)
	assert.Equal(t, 3001, cfg.Server.HTTP.Port)
	assert.Equal(t, RateLimitBackendMemory, cfg.Security.RateLimit.Backend)
	require.Len(t, cfg.Pricing.Regions, 3)
	assert.Equal(t, "$", cfg.Pricing.Regions[0].Symbol)

	p, ok := cfg.DefaultProviderConfig()
	require.True(t, ok)
	assert.Equal(t, ProtocolAnthropic, p.Protocol)
	assert.False(t, cfg.HasDefaultCredential())
}

func TestLoadFrom_ShippedConfigOrigin(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("CORS_ORIGIN", "https://client.example.org")

	cfg, err := LoadFrom(filepath.Join("..", "..", "configs"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://client.example.org"}, cfg.Security.CORS.AllowedOrigins)
}

func TestLoadFrom_InvalidRegions(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `
pricing:
  regions:
    - id: us
      name: United States
      hourly_rate: 75
    - id: us
      name: Duplicate
      hourly_rate: 80
`)

	_, err := LoadFrom(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id us")
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("SET_VAR", "value")

	assert.Equal(t, "value", expandEnv("${SET_VAR}"))
	assert.Equal(t, "fallback", expandEnv("${UNSET_VAR_FOR_TEST:fallback}"))
	assert.Equal(t, "", expandEnv("${UNSET_VAR_FOR_TEST:}"))
	assert.Equal(t, "${UNSET_VAR_FOR_TEST}", expandEnv("${UNSET_VAR_FOR_TEST}"))
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			LLM: LLMConfig{
				DefaultProvider: "anthropic",
				Providers:       map[string]ProviderConfig{"anthropic": {Protocol: ProtocolAnthropic}},
			},
			Pricing: PricingConfig{Regions: []RegionConfig{{ID: "us", HourlyRate: 75}}},
		}
	}

	require.NoError(t, base().Validate())

	c := base()
	c.LLM.DefaultProvider = "missing"
	assert.Error(t, c.Validate())

	c = base()
	c.LLM.Providers["anthropic"] = ProviderConfig{Protocol: "grpc"}
	assert.Error(t, c.Validate())

	c = base()
	c.Pricing.Regions = nil
	assert.Error(t, c.Validate())

	c = base()
	c.Pricing.Regions[0].HourlyRate = 0
	assert.Error(t, c.Validate())
}
