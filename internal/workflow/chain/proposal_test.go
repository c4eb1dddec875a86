package chain

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proposal-ai-api/internal/domain/entity"
	wfmodel "proposal-ai-api/internal/workflow/model"
	"proposal-ai-api/internal/workflow/node"
	"proposal-ai-api/pkg/errors"
)

func sampleRequest(lang entity.Language) *entity.ProposalRequest {
	return &entity.ProposalRequest{
		ClientName:         "Acme {Corp}",
		ClientEmail:        "a@acme.com",
		ProjectTitle:       "Website Redesign",
		ServiceDescription: "Full redesign of the marketing website",
		Deliverables:       "New site, CMS, docs",
		CostItems:          []entity.CostItem{{Description: "Design", Hours: 10}, {Description: "Build", Hours: 20.5}},
		TimelineItems: []entity.TimelineItem{
			{Milestone: "Kickoff", StartDate: "2024-01-01", Duration: 1, DurationUnit: entity.DurationWeeks},
		},
		Language: lang,
	}
}

func TestBuildProposalPrompt_English(t *testing.T) {
	prompt, err := BuildProposalPrompt(context.Background(), sampleRequest(entity.LanguageEnglish))
	require.NoError(t, err)

	assert.Contains(t, prompt, "EXECUTIVE SUMMARY:")
	assert.Contains(t, prompt, "SCOPE OF WORK:")
	assert.Contains(t, prompt, "TERMS AND CONDITIONS:")
	assert.Contains(t, prompt, "Generate the entire response in English")
	assert.Contains(t, prompt, "Client: Acme {Corp}")
	assert.Contains(t, prompt, "Client Email: a@acme.com")
	assert.Contains(t, prompt, "Design: 10 hours")
	assert.Contains(t, prompt, "Build: 20.5 hours")
	assert.Contains(t, prompt, "Kickoff: 1 weeks starting 2024-01-01")
	assert.Contains(t, prompt, "Company: Not specified")
}

func TestBuildProposalPrompt_Spanish(t *testing.T) {
	req := sampleRequest(entity.LanguageSpanish)
	req.Company = "Acme SA"
	req.CustomTerms = "Pago en 2 partes"

	prompt, err := BuildProposalPrompt(context.Background(), req)
	require.NoError(t, err)

	for _, key := range entity.SectionOrder {
		assert.Contains(t, prompt, entity.SectionHeader(entity.LanguageSpanish, key)+":")
	}
	assert.Contains(t, prompt, "in Spanish")
	assert.Contains(t, prompt, "Company: Acme SA")
	assert.Contains(t, prompt, "Pago en 2 partes")
	assert.NotContains(t, prompt, "EXECUTIVE SUMMARY:")
}

func TestBuildProposalPrompt_Deterministic(t *testing.T) {
	req := sampleRequest(entity.LanguageEnglish)
	a, err := BuildProposalPrompt(context.Background(), req)
	require.NoError(t, err)
	b, err := BuildProposalPrompt(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

type recordingModel struct {
	calls int
	msgs  []*schema.Message
	reply *schema.Message
}

func (m *recordingModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.calls++
	m.msgs = input
	return m.reply, nil
}

func (m *recordingModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, nil
}

type staticFactory struct {
	m       model.BaseChatModel
	gotName string
	gotKey  string
}

func (f *staticFactory) Get(_ context.Context, name, apiKey string) (model.BaseChatModel, error) {
	f.gotName, f.gotKey = name, apiKey
	return f.m, nil
}

func TestProposalChain_Invoke(t *testing.T) {
	reply := &schema.Message{
		Role:    schema.Assistant,
		Content: "EXECUTIVE SUMMARY:\nok",
		ResponseMeta: &schema.ResponseMeta{
			Usage: &schema.TokenUsage{PromptTokens: 12, CompletionTokens: 34},
		},
		Extra: map[string]any{ExtraKeyModel: "claude-test"},
	}
	cm := &recordingModel{reply: reply}
	factory := &staticFactory{m: cm}

	out, err := NewProposalChain(factory).Invoke(context.Background(), &wfmodel.ProposalGenerateInput{
		Request:  sampleRequest(entity.LanguageEnglish),
		Provider: "anthropic",
		APIKey:   "sk-test-123456",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, cm.calls)
	require.Len(t, cm.msgs, 1)
	assert.Equal(t, schema.User, cm.msgs[0].Role)
	assert.Equal(t, "anthropic", factory.gotName)
	assert.Equal(t, "sk-test-123456", factory.gotKey)

	assert.Equal(t, "EXECUTIVE SUMMARY:\nok", out.Text)
	assert.Equal(t, 12, out.Meta.PromptTokens)
	assert.Equal(t, 34, out.Meta.CompletionTokens)
	assert.Equal(t, "claude-test", out.Meta.Model)
	assert.Equal(t, "anthropic", out.Meta.Provider)
}

func TestProposalChain_InvokeRejectsNil(t *testing.T) {
	_, err := NewProposalChain(nil).Invoke(context.Background(), &wfmodel.ProposalGenerateInput{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInternalError))
	assert.Equal(t, http.StatusInternalServerError, errors.AsAppError(err).HTTPStatus)

	_, err = NewProposalChain(&staticFactory{}).Invoke(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInternalError))
}

type failingFactory struct{}

func (failingFactory) Get(context.Context, string, string) (model.BaseChatModel, error) {
	return nil, stderrors.New("provider anthropic has no api key")
}

func TestProposalChain_FactoryFailureIsInternal(t *testing.T) {
	_, err := NewProposalChain(failingFactory{}).Invoke(context.Background(), &wfmodel.ProposalGenerateInput{
		Request: sampleRequest(entity.LanguageEnglish),
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInternalError))
	assert.Equal(t, errors.CodeInternalError, node.ClassifyLLMError(err).Code)
}
