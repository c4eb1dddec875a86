// Package usage 记录 LLM 调用用量
package usage

import (
	"context"
	"fmt"
	"strings"

	"proposal-ai-api/internal/domain/service"
	"proposal-ai-api/pkg/logger"
)

// LogRecorder 将每次调用的 token 用量写入结构化日志
type LogRecorder struct{}

func NewLogRecorder() *LogRecorder {
	return &LogRecorder{}
}

func (r *LogRecorder) Record(ctx context.Context, in service.LLMUsageInput) error {
	if in.PromptTokens < 0 || in.CompletionTokens < 0 {
		return fmt.Errorf("invalid token usage")
	}

	logger.Info(ctx, "llm usage",
		"workflow", strings.TrimSpace(in.Workflow),
		"provider", strings.TrimSpace(in.Provider),
		"model", strings.TrimSpace(in.Model),
		"credential_source", string(in.CredentialSource),
		"prompt_tokens", in.PromptTokens,
		"completion_tokens", in.CompletionTokens,
		"total_tokens", in.PromptTokens+in.CompletionTokens,
		"duration_ms", in.DurationMs,
	)
	return nil
}

var _ service.LLMUsageRecorder = (*LogRecorder)(nil)
