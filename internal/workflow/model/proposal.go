package model

import "proposal-ai-api/internal/domain/entity"

type ProposalGenerateInput struct {
	Request *entity.ProposalRequest

	// Provider 为空时使用默认 Provider
	Provider string
	// APIKey 已解析的凭证（请求体优先，其次进程级配置）
	APIKey string

	Temperature *float32
	MaxTokens   *int
}

type ProposalGenerateOutput struct {
	Text string
	Meta LLMUsageMeta
}
