package proposal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"proposal-ai-api/internal/application/pricing"
	"proposal-ai-api/internal/config"
	"proposal-ai-api/internal/domain/entity"
	llmctx "proposal-ai-api/internal/domain/service"
	wfmodel "proposal-ai-api/internal/workflow/model"
	"proposal-ai-api/internal/workflow/node"
	"proposal-ai-api/pkg/errors"
	"proposal-ai-api/pkg/logger"
	"proposal-ai-api/pkg/metrics"
)

// credentialMissingMessage 未提供任何可用凭证时返回给调用方的提示
const credentialMissingMessage = "Anthropic API key is required. Provide anthropicApiKey in the request body or set ANTHROPIC_API_KEY on the server."

// outputPreviewRunes 章节缺失时日志中保留的模型输出长度
const outputPreviewRunes = 300

// TextGenerator 单次文本生成调用
type TextGenerator interface {
	Invoke(ctx context.Context, in *wfmodel.ProposalGenerateInput) (*wfmodel.ProposalGenerateOutput, error)
}

// Generator 提案生成编排：校验 -> 凭证解析 -> 单次模型调用 -> 章节提取 -> 区域定价 -> 组装结果
type Generator struct {
	provider     string
	providerCfg  config.ProviderConfig
	validator    *Validator
	text         TextGenerator
	pricingTable *pricing.Table
	now          func() time.Time
}

// NewGenerator 创建提案生成器
func NewGenerator(cfg *config.Config, text TextGenerator, table *pricing.Table) *Generator {
	providerCfg, _ := cfg.DefaultProviderConfig()
	return &Generator{
		provider:     cfg.LLM.DefaultProvider,
		providerCfg:  providerCfg,
		validator:    NewValidator(providerCfg.KeyPrefix),
		text:         text,
		pricingTable: table,
		now:          time.Now,
	}
}

// Regions 返回全部定价区域
func (g *Generator) Regions() []entity.PricingRegion {
	return g.pricingTable.AllRegions()
}

// Region 按 ID 查找定价区域
func (g *Generator) Region(id string) (entity.PricingRegion, error) {
	r, ok := g.pricingTable.RegionByID(strings.TrimSpace(id))
	if !ok {
		return entity.PricingRegion{}, errors.New(errors.CodeNotFound, fmt.Sprintf("Pricing region not found: %s", id))
	}
	return r, nil
}

// CredentialConfigured 进程级凭证是否已配置
func (g *Generator) CredentialConfigured() bool {
	return strings.TrimSpace(g.providerCfg.APIKey) != ""
}

// Generate 生成提案。模型调用恰好一次，不重试；章节缺失时降级为空字符串
func (g *Generator) Generate(ctx context.Context, draft Draft) (*entity.ProposalResult, error) {
	start := g.now()

	req, err := g.validator.Validate(draft)
	if err != nil {
		metrics.ProposalGenerationTotal.WithLabelValues(languageLabel(draft.Language), "invalid").Inc()
		return nil, err
	}
	lang := string(req.Language)

	apiKey, source, err := g.resolveCredential(req)
	if err != nil {
		metrics.ProposalGenerationTotal.WithLabelValues(lang, "credential_missing").Inc()
		return nil, err
	}
	ctx = llmctx.WithCredentialSource(ctx, source)

	callCtx := ctx
	if g.providerCfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.providerCfg.Timeout)
		defer cancel()
	}

	out, err := g.text.Invoke(callCtx, g.generateInput(req, apiKey))
	if err != nil {
		appErr := node.ClassifyLLMError(err)
		logger.Error(ctx, "proposal generation failed", err,
			"provider", g.provider,
			"credential_source", string(source),
			"code", string(appErr.Code),
		)
		metrics.ProposalGenerationTotal.WithLabelValues(lang, "provider_error").Inc()
		return nil, appErr
	}

	sections := node.ExtractSections(out.Text, req.Language)
	if missing := sections.Missing(); len(missing) > 0 {
		for _, name := range missing {
			metrics.SectionExtractionMissing.WithLabelValues(lang, name).Inc()
		}
		logger.Warn(ctx, "proposal sections missing from model output",
			"language", lang,
			"missing", strings.Join(missing, ","),
			"output_preview", node.PreviewText(out.Text, outputPreviewRunes),
		)
	}

	result := g.assemble(req, sections)
	metrics.ProposalGenerationTotal.WithLabelValues(lang, "success").Inc()
	metrics.ProposalGenerationDuration.WithLabelValues(lang).Observe(g.now().Sub(start).Seconds())
	logger.Info(ctx, "proposal generated",
		"language", lang,
		"cost_items", len(req.CostItems),
		"regions", len(result.RegionalProposals),
		"prompt_tokens", out.Meta.PromptTokens,
		"completion_tokens", out.Meta.CompletionTokens,
	)
	return result, nil
}

// generateInput 组装模型调用参数，采样参数取自默认 Provider 配置，未配置时交给模型默认值
func (g *Generator) generateInput(req *entity.ProposalRequest, apiKey string) *wfmodel.ProposalGenerateInput {
	in := &wfmodel.ProposalGenerateInput{
		Request:  req,
		Provider: g.provider,
		APIKey:   apiKey,
	}
	if g.providerCfg.Temperature > 0 {
		t := float32(g.providerCfg.Temperature)
		in.Temperature = &t
	}
	if g.providerCfg.MaxTokens > 0 {
		n := g.providerCfg.MaxTokens
		in.MaxTokens = &n
	}
	return in
}

// resolveCredential 请求体凭证优先，其次进程级配置
func (g *Generator) resolveCredential(req *entity.ProposalRequest) (string, llmctx.CredentialSource, error) {
	if key := strings.TrimSpace(req.Credential); key != "" {
		return key, llmctx.CredentialFromRequest, nil
	}
	if key := strings.TrimSpace(g.providerCfg.APIKey); key != "" {
		return key, llmctx.CredentialFromConfig, nil
	}
	return "", "", errors.New(errors.CodeCredentialMissing, credentialMissingMessage)
}

func (g *Generator) assemble(req *entity.ProposalRequest, sections entity.GeneratedSections) *entity.ProposalResult {
	regions := g.pricingTable.AllRegions()
	regional := make([]entity.RegionalProposal, 0, len(regions))
	for _, region := range regions {
		items := pricing.PriceItems(req.CostItems, region)
		regional = append(regional, entity.RegionalProposal{
			Region:           region,
			CostItems:        items,
			TotalCost:        pricing.TotalCost(items),
			ExecutiveSummary: sections.ExecutiveSummary,
			ScopeOfWork:      sections.ScopeOfWork,
			Terms:            sections.Terms,
		})
	}

	timeline := make([]entity.TimelineItem, len(req.TimelineItems))
	copy(timeline, req.TimelineItems)

	return &entity.ProposalResult{
		ClientDetails: entity.ClientDetails{
			Name:    req.ClientName,
			Company: req.Company,
			Email:   req.ClientEmail,
		},
		ServiceDetails: entity.ServiceDetails{
			Description: req.ServiceDescription,
			ScopeOfWork: sections.ScopeOfWork,
		},
		Sections:          sections,
		Timeline:          timeline,
		RegionalProposals: regional,
		CustomTerms:       req.CustomTerms,
		Language:          req.Language,
		GeneratedAt:       g.now().UTC(),
	}
}

func languageLabel(raw string) string {
	if lang, ok := entity.ParseLanguage(raw); ok {
		return string(lang)
	}
	return "invalid"
}
