package chain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"proposal-ai-api/internal/domain/entity"
	llmctx "proposal-ai-api/internal/domain/service"
	wfmodel "proposal-ai-api/internal/workflow/model"
	workflowport "proposal-ai-api/internal/workflow/port"
	workflowprompt "proposal-ai-api/internal/workflow/prompt"
	"proposal-ai-api/pkg/errors"
)

const proposalWorkflow = "proposal_generate"

type ProposalChain struct {
	factory workflowport.ChatModelFactory
}

func NewProposalChain(factory workflowport.ChatModelFactory) *ProposalChain {
	return &ProposalChain{factory: factory}
}

// Invoke 渲染提示词并调用一次模型，返回原始文本。不做重试。
func (c *ProposalChain) Invoke(ctx context.Context, in *wfmodel.ProposalGenerateInput) (*wfmodel.ProposalGenerateOutput, error) {
	if c == nil || c.factory == nil {
		return nil, errors.New(errors.CodeInternalError, "llm factory not configured")
	}
	if in == nil || in.Request == nil {
		return nil, errors.New(errors.CodeInternalError, "proposal input is nil")
	}

	provider := strings.TrimSpace(in.Provider)
	ctx = llmctx.WithWorkflowProvider(ctx, proposalWorkflow, provider)
	chatModel, err := c.factory.Get(ctx, provider, in.APIKey)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternalError, "failed to initialize llm client")
	}

	msgs, err := FormatProposalMessages(ctx, in.Request)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternalError, "failed to render proposal prompt")
	}

	outMsg, err := chatModel.Generate(ctx, msgs, buildProposalModelOptions(in)...)
	if err != nil {
		return nil, err
	}
	if outMsg == nil {
		return nil, fmt.Errorf("empty llm response")
	}

	out := &wfmodel.ProposalGenerateOutput{
		Text: outMsg.Content,
		Meta: wfmodel.LLMUsageMeta{
			Provider:    llmctx.ProviderFromContext(ctx),
			GeneratedAt: time.Now(),
		},
	}
	if outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
		out.Meta.PromptTokens = outMsg.ResponseMeta.Usage.PromptTokens
		out.Meta.CompletionTokens = outMsg.ResponseMeta.Usage.CompletionTokens
	}
	if m, ok := outMsg.Extra[ExtraKeyModel].(string); ok {
		out.Meta.Model = m
	}
	return out, nil
}

// ExtraKeyModel Provider 在 Message.Extra 中回填实际模型名时使用的键
const ExtraKeyModel = "model"

var proposalPromptRegistry = workflowprompt.NewRegistry()

// FormatProposalMessages 将已校验的请求渲染为模型消息
func FormatProposalMessages(ctx context.Context, req *entity.ProposalRequest) ([]*schema.Message, error) {
	tpl, err := proposalPromptRegistry.ChatTemplate(workflowprompt.PromptProposalV1)
	if err != nil {
		return nil, err
	}
	return tpl.Format(ctx, proposalPromptVars(req))
}

// BuildProposalPrompt 返回发送给模型的完整指令文本
func BuildProposalPrompt(ctx context.Context, req *entity.ProposalRequest) (string, error) {
	msgs, err := FormatProposalMessages(ctx, req)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n\n"), nil
}

func proposalPromptVars(req *entity.ProposalRequest) map[string]any {
	lang := req.Language
	if lang == "" {
		lang = entity.LanguageEnglish
	}
	return map[string]any{
		"language":            string(lang),
		"client_name":         req.ClientName,
		"client_email":        req.ClientEmail,
		"company":             orPlaceholder(req.Company, "Not specified"),
		"project_title":       req.ProjectTitle,
		"service_description": req.ServiceDescription,
		"deliverables":        req.Deliverables,
		"cost_items":          formatCostItems(req.CostItems),
		"timeline_items":      formatTimelineItems(req.TimelineItems),
		"custom_terms":        orPlaceholder(req.CustomTerms, "None"),
		"header_summary":      entity.SectionHeader(lang, entity.SectionExecutiveSummary),
		"header_scope":        entity.SectionHeader(lang, entity.SectionScopeOfWork),
		"header_terms":        entity.SectionHeader(lang, entity.SectionTerms),
	}
}

func formatCostItems(items []entity.CostItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("  - %s: %s hours (rate determined by region)",
			item.Description, strconv.FormatFloat(item.Hours, 'f', -1, 64)))
	}
	return strings.Join(lines, "\n")
}

func formatTimelineItems(items []entity.TimelineItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("  - %s: %d %s starting %s",
			item.Milestone, item.Duration, item.DurationUnit, item.StartDate))
	}
	return strings.Join(lines, "\n")
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func buildProposalModelOptions(in *wfmodel.ProposalGenerateInput) []model.Option {
	opts := make([]model.Option, 0, 2)
	if in.Temperature != nil {
		opts = append(opts, model.WithTemperature(*in.Temperature))
	}
	if in.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*in.MaxTokens))
	}
	return opts
}
