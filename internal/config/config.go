// Package config 提供配置加载和管理功能
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Pricing       PricingConfig       `yaml:"pricing" mapstructure:"pricing"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	// MaxBodyBytes 请求体上限
	MaxBodyBytes int64 `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// LLMConfig LLM 配置
type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider" mapstructure:"default_provider"`
	Providers       map[string]ProviderConfig `yaml:"providers" mapstructure:"providers"`
}

// 支持的 Provider 协议
const (
	ProtocolAnthropic = "anthropic"
	ProtocolOpenAI    = "openai"
)

// ProviderConfig LLM 提供商配置
type ProviderConfig struct {
	// Protocol 接口协议：anthropic | openai
	Protocol    string        `yaml:"protocol" mapstructure:"protocol"`
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Model       string        `yaml:"model" mapstructure:"model"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// KeyPrefix 请求体中自带凭证时要求的前缀
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// PricingConfig 区域定价配置
type PricingConfig struct {
	Regions []RegionConfig `yaml:"regions" mapstructure:"regions"`
}

// RegionConfig 单个定价区域
type RegionConfig struct {
	ID         string  `yaml:"id" mapstructure:"id"`
	Name       string  `yaml:"name" mapstructure:"name"`
	HourlyRate float64 `yaml:"hourly_rate" mapstructure:"hourly_rate"`
	Currency   string  `yaml:"currency" mapstructure:"currency"`
	Symbol     string  `yaml:"symbol" mapstructure:"symbol"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 配置（仅限流后端使用）
type RedisConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// 限流后端
const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

// RateLimitConfig 限流配置（默认关闭，中间件直接放行）
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond int  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	// Backend memory | redis
	Backend string `yaml:"backend" mapstructure:"backend"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}

// DefaultProviderConfig 返回默认 Provider 的配置
func (c *Config) DefaultProviderConfig() (ProviderConfig, bool) {
	if c == nil {
		return ProviderConfig{}, false
	}
	p, ok := c.LLM.Providers[c.LLM.DefaultProvider]
	return p, ok
}

// HasDefaultCredential 进程级凭证是否已配置
func (c *Config) HasDefaultCredential() bool {
	p, ok := c.DefaultProviderConfig()
	return ok && strings.TrimSpace(p.APIKey) != ""
}

// UsesRedisRateLimit 是否启用 Redis 限流后端
func (c *Config) UsesRedisRateLimit() bool {
	return c != nil && c.Security.RateLimit.Enabled && c.Security.RateLimit.Backend == RateLimitBackendRedis
}

// Validate 校验配置的内部一致性
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	if strings.TrimSpace(c.LLM.DefaultProvider) == "" {
		return fmt.Errorf("llm.default_provider is required")
	}
	p, ok := c.LLM.Providers[c.LLM.DefaultProvider]
	if !ok {
		return fmt.Errorf("llm provider not found: %s", c.LLM.DefaultProvider)
	}
	switch p.Protocol {
	case ProtocolAnthropic, ProtocolOpenAI:
	default:
		return fmt.Errorf("llm provider %s: unsupported protocol %q", c.LLM.DefaultProvider, p.Protocol)
	}

	switch c.Security.RateLimit.Backend {
	case "", RateLimitBackendMemory, RateLimitBackendRedis:
	default:
		return fmt.Errorf("security.rate_limit.backend: unsupported backend %q", c.Security.RateLimit.Backend)
	}

	if len(c.Pricing.Regions) == 0 {
		return fmt.Errorf("pricing.regions must not be empty")
	}
	seen := make(map[string]struct{}, len(c.Pricing.Regions))
	for i, r := range c.Pricing.Regions {
		if strings.TrimSpace(r.ID) == "" {
			return fmt.Errorf("pricing.regions[%d].id is required", i)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("pricing.regions[%d]: duplicate id %s", i, r.ID)
		}
		seen[r.ID] = struct{}{}
		if r.HourlyRate <= 0 {
			return fmt.Errorf("pricing.regions[%d].hourly_rate must be positive", i)
		}
	}
	return nil
}
