package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyWorkflow   llmCtxKey = "llm_workflow"
	llmCtxKeyProvider   llmCtxKey = "llm_provider"
	llmCtxKeyCredential llmCtxKey = "llm_credential_source"
)

// CredentialSource 本次调用使用的凭证来源
type CredentialSource string

const (
	CredentialFromRequest CredentialSource = "request"
	CredentialFromConfig  CredentialSource = "config"
)

const unknownLabel = "unknown"

func WithWorkflow(ctx context.Context, workflow string) context.Context {
	return withTrimmed(ctx, llmCtxKeyWorkflow, workflow)
}

func WithProvider(ctx context.Context, provider string) context.Context {
	return withTrimmed(ctx, llmCtxKeyProvider, provider)
}

func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	return WithProvider(WithWorkflow(ctx, workflow), provider)
}

// WithCredentialSource 标记凭证来源，仅用于日志与指标，不携带凭证本身
func WithCredentialSource(ctx context.Context, src CredentialSource) context.Context {
	return withTrimmed(ctx, llmCtxKeyCredential, string(src))
}

func WorkflowFromContext(ctx context.Context) string {
	return labelFromContext(ctx, llmCtxKeyWorkflow)
}

func ProviderFromContext(ctx context.Context) string {
	return labelFromContext(ctx, llmCtxKeyProvider)
}

func CredentialSourceFromContext(ctx context.Context) CredentialSource {
	return CredentialSource(labelFromContext(ctx, llmCtxKeyCredential))
}

func withTrimmed(ctx context.Context, key llmCtxKey, value string) context.Context {
	if ctx == nil {
		return nil
	}
	v := strings.TrimSpace(value)
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func labelFromContext(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return unknownLabel
	}
	s, ok := ctx.Value(key).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return unknownLabel
	}
	return s
}
