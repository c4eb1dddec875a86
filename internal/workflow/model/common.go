package model

import "time"

// LLMUsageMeta 单次模型调用的元信息，用于日志与 token 统计
type LLMUsageMeta struct {
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	GeneratedAt      time.Time
}
