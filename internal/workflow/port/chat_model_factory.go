package port

import (
	"context"

	"github.com/cloudwego/eino/components/model"
)

// ChatModelFactory 定义工作流层对 LLM ChatModel 的最小依赖（port）。
// apiKey 为空时使用 Provider 配置中的凭证。
type ChatModelFactory interface {
	Get(ctx context.Context, name, apiKey string) (model.BaseChatModel, error)
}
