package service

import "context"

// LLMUsageInput 一次 LLM 调用的可观测数据
type LLMUsageInput struct {
	Workflow         string
	Provider         string
	Model            string
	CredentialSource CredentialSource

	PromptTokens     int
	CompletionTokens int
	DurationMs       int
}

// LLMUsageRecorder 记录 LLM 使用量，实现应为 best-effort，不阻塞主流程
type LLMUsageRecorder interface {
	Record(ctx context.Context, in LLMUsageInput) error
}
