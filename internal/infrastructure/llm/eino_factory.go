package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"proposal-ai-api/internal/config"
)

// EinoFactory 管理多个 Eino ChatModel 客户端实例。
// 只缓存使用配置凭证的实例；请求自带凭证时每次新建，不在进程内留存。
type EinoFactory struct {
	config *config.LLMConfig
	models map[string]model.BaseChatModel
	mu     sync.RWMutex
}

// NewEinoFactory 创建 Eino LLM 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{
		config: &cfg.LLM,
		models: make(map[string]model.BaseChatModel),
	}
}

// Get 获取指定名称的 ChatModel，name 为空时使用默认 Provider；apiKey 为空时使用配置凭证
func (f *EinoFactory) Get(ctx context.Context, name, apiKey string) (model.BaseChatModel, error) {
	if name == "" {
		name = f.config.DefaultProvider
	}

	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in LLM config", name)
	}

	if key := strings.TrimSpace(apiKey); key != "" && key != providerCfg.APIKey {
		providerCfg.APIKey = key
		return newChatModel(ctx, name, providerCfg)
	}

	f.mu.RLock()
	m, ok := f.models[name]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if m, ok = f.models[name]; ok {
		return m, nil
	}

	chatModel, err := newChatModel(ctx, name, providerCfg)
	if err != nil {
		return nil, err
	}
	f.models[name] = chatModel
	return chatModel, nil
}

// Default 返回默认 ChatModel
func (f *EinoFactory) Default(ctx context.Context) (model.BaseChatModel, error) {
	return f.Get(ctx, "", "")
}

func newChatModel(ctx context.Context, name string, providerCfg config.ProviderConfig) (model.BaseChatModel, error) {
	if strings.TrimSpace(providerCfg.APIKey) == "" {
		return nil, fmt.Errorf("provider %s has no api key", name)
	}

	var (
		chatModel model.BaseChatModel
		err       error
	)
	switch providerCfg.Protocol {
	case config.ProtocolAnthropic, "":
		// 使用 Eino 的 Claude 适配器
		chatModel, err = NewAnthropicChatModel(ctx, &AnthropicConfig{
			APIKey:      providerCfg.APIKey,
			BaseURL:     providerCfg.BaseURL,
			Model:       providerCfg.Model,
			MaxTokens:   providerCfg.MaxTokens,
			Temperature: ptrFloat32(float32(providerCfg.Temperature)),
			Timeout:     providerCfg.Timeout,
		})
	case config.ProtocolOpenAI:
		// 使用 Eino 的 OpenAI 适配器
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      providerCfg.APIKey,
			BaseURL:     providerCfg.BaseURL,
			Model:       providerCfg.Model,
			MaxTokens:   ptrInt(providerCfg.MaxTokens),
			Temperature: ptrFloat32(float32(providerCfg.Temperature)),
			Timeout:     providerCfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("provider %s: unsupported protocol %q", name, providerCfg.Protocol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model for %s: %w", name, err)
	}
	return chatModel, nil
}

func ptrFloat32(f float32) *float32 {
	return &f
}

func ptrInt(i int) *int {
	return &i
}
