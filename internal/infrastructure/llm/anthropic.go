package llm

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// AnthropicConfig Anthropic Messages API 配置
type AnthropicConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature *float32
	Timeout     time.Duration
}

// AnthropicChatModel 包装 eino-ext claude 适配器：
// 为单次调用加超时，并把 SDK 错误转换为带状态码的 StatusError
type AnthropicChatModel struct {
	inner   model.BaseChatModel
	model   string
	timeout time.Duration
}

// NewAnthropicChatModel 创建 Anthropic ChatModel
func NewAnthropicChatModel(ctx context.Context, cfg *AnthropicConfig) (*AnthropicChatModel, error) {
	if cfg == nil {
		return nil, fmt.Errorf("anthropic config is nil")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("anthropic model is required")
	}

	conf := &claude.Config{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		conf.BaseURL = &base
	}

	cm, err := claude.NewChatModel(ctx, conf)
	if err != nil {
		return nil, err
	}
	return &AnthropicChatModel{inner: cm, model: cfg.Model, timeout: cfg.Timeout}, nil
}

func (m *AnthropicChatModel) GetType() string {
	return "Claude"
}

// IsCallbacksEnabled 回调由内部 claude 适配器触发
func (m *AnthropicChatModel) IsCallbacksEnabled() bool {
	return true
}

// Generate 发起一次非流式调用
func (m *AnthropicChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	out, err := m.inner.Generate(ctx, input, opts...)
	if err != nil {
		return nil, providerError(ctx, err)
	}
	if out == nil {
		return nil, fmt.Errorf("anthropic: empty response")
	}
	if _, ok := out.Extra["model"]; !ok {
		name := m.model
		if o := model.GetCommonOptions(&model.Options{}, opts...); o.Model != nil {
			name = *o.Model
		}
		if out.Extra == nil {
			out.Extra = map[string]any{}
		}
		out.Extra["model"] = name
	}
	return out, nil
}

// Stream 透传给 claude 适配器，仅转换建立连接时的错误
func (m *AnthropicChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	sr, err := m.inner.Stream(ctx, input, opts...)
	if err != nil {
		return nil, providerError(ctx, err)
	}
	return sr, nil
}

// providerError 将 anthropic SDK 错误转换为 StatusError；上下文结束时保留 ctx.Err() 供上层识别超时
func providerError(ctx context.Context, err error) error {
	var apiErr *anthropic.Error
	if stderrors.As(err, &apiErr) && apiErr.StatusCode > 0 {
		return &StatusError{Status: apiErr.StatusCode, Message: apiErr.Error(), Err: err}
	}
	if ctxErr := ctx.Err(); ctxErr != nil && !stderrors.Is(err, ctxErr) {
		return fmt.Errorf("anthropic request: %w (%v)", ctxErr, err)
	}
	return err
}

var _ model.BaseChatModel = (*AnthropicChatModel)(nil)
