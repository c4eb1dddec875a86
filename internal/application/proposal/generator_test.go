package proposal

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proposal-ai-api/internal/application/pricing"
	"proposal-ai-api/internal/config"
	"proposal-ai-api/internal/domain/entity"
	wfmodel "proposal-ai-api/internal/workflow/model"
	"proposal-ai-api/pkg/errors"
)

const englishOutput = "EXECUTIVE SUMMARY:\nSummary.\n\nSCOPE OF WORK:\nScope.\n\nTERMS AND CONDITIONS:\nTerms."

type fakeText struct {
	calls int
	got   *wfmodel.ProposalGenerateInput
	text  string
	err   error
	block bool
}

func (f *fakeText) Invoke(ctx context.Context, in *wfmodel.ProposalGenerateInput) (*wfmodel.ProposalGenerateOutput, error) {
	f.calls++
	f.got = in
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &wfmodel.ProposalGenerateOutput{Text: f.text}, nil
}

type upstreamStatus int

func (s upstreamStatus) Error() string   { return fmt.Sprintf("upstream status %d", int(s)) }
func (s upstreamStatus) StatusCode() int { return int(s) }

func testConfig(apiKey string) *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "anthropic",
			Providers: map[string]config.ProviderConfig{
				"anthropic": {
					Protocol:    config.ProtocolAnthropic,
					APIKey:      apiKey,
					Model:       "claude-3-5-sonnet-20241022",
					MaxTokens:   8000,
					Temperature: 0.8,
					Timeout:     time.Second,
					KeyPrefix:   "sk-",
				},
			},
		},
		Pricing: config.PricingConfig{Regions: []config.RegionConfig{
			{ID: "mexico", Name: "Mexico", HourlyRate: 25, Currency: "USD", Symbol: "$"},
			{ID: "us", Name: "United States", HourlyRate: 75, Currency: "USD", Symbol: "$"},
			{ID: "europe", Name: "Europe", HourlyRate: 65, Currency: "USD", Symbol: "$"},
		}},
	}
}

func newTestGenerator(t *testing.T, apiKey string, text *fakeText) *Generator {
	t.Helper()
	cfg := testConfig(apiKey)
	table, err := pricing.NewTableFromConfig(cfg)
	require.NoError(t, err)
	g := NewGenerator(cfg, text, table)
	g.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return g
}

func TestGenerate_Success(t *testing.T) {
	text := &fakeText{text: englishOutput}
	g := newTestGenerator(t, "sk-configured-key", text)

	d := validDraft()
	d.CostItems = []CostItemDraft{{Description: "Design", Hours: 10}, {Description: "Build", Hours: 20}}
	d.Company = "Acme Inc"

	res, err := g.Generate(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, 1, text.calls)
	assert.Equal(t, "sk-configured-key", text.got.APIKey)
	assert.Equal(t, "anthropic", text.got.Provider)

	assert.Equal(t, "Summary.", res.Sections.ExecutiveSummary)
	assert.Equal(t, "Scope.", res.ServiceDetails.ScopeOfWork)
	assert.Equal(t, "Acme Inc", res.ClientDetails.Company)
	assert.Equal(t, entity.LanguageEnglish, res.Language)
	assert.Len(t, res.Timeline, 1)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), res.GeneratedAt)

	require.Len(t, res.RegionalProposals, 3)
	for _, rp := range res.RegionalProposals {
		assert.InDelta(t, 30*rp.Region.HourlyRate, rp.TotalCost, 0.01)
		assert.Len(t, rp.CostItems, 2)
		assert.Equal(t, "Terms.", rp.Terms)
	}
}

func TestGenerate_SamplingFromProviderConfig(t *testing.T) {
	text := &fakeText{text: englishOutput}
	g := newTestGenerator(t, "sk-configured-key", text)

	_, err := g.Generate(context.Background(), validDraft())
	require.NoError(t, err)

	require.NotNil(t, text.got.MaxTokens)
	assert.Equal(t, 8000, *text.got.MaxTokens)
	require.NotNil(t, text.got.Temperature)
	assert.InDelta(t, 0.8, *text.got.Temperature, 0.001)

	g.providerCfg.MaxTokens = 0
	g.providerCfg.Temperature = 0
	_, err = g.Generate(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Nil(t, text.got.MaxTokens)
	assert.Nil(t, text.got.Temperature)
}

func TestGenerate_RequestCredentialWins(t *testing.T) {
	text := &fakeText{text: englishOutput}
	g := newTestGenerator(t, "sk-configured-key", text)

	d := validDraft()
	d.AnthropicAPIKey = "sk-from-request-1"

	_, err := g.Generate(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-request-1", text.got.APIKey)
}

func TestGenerate_CredentialMissing(t *testing.T) {
	text := &fakeText{text: englishOutput}
	g := newTestGenerator(t, "", text)

	_, err := g.Generate(context.Background(), validDraft())
	require.Error(t, err)

	appErr := errors.AsAppError(err)
	assert.Equal(t, errors.CodeCredentialMissing, appErr.Code)
	assert.Equal(t, 400, appErr.HTTPStatus)
	assert.Contains(t, appErr.Message, "API key is required")
	assert.Equal(t, 0, text.calls)
	assert.False(t, g.CredentialConfigured())
}

func TestGenerate_InvalidCredentialNeverCallsProvider(t *testing.T) {
	text := &fakeText{text: englishOutput}
	g := newTestGenerator(t, "sk-configured-key", text)

	d := validDraft()
	d.AnthropicAPIKey = "invalid-key-format"

	_, err := g.Generate(context.Background(), d)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeValidationFailed))
	assert.Equal(t, 0, text.calls)
}

func TestGenerate_ProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   errors.ErrorCode
		status int
	}{
		{"rate limited", upstreamStatus(429), errors.CodeProviderRateLimited, 429},
		{"rejected", upstreamStatus(401), errors.CodeCredentialRejected, 401},
		{"other", fmt.Errorf("connection reset"), errors.CodeProviderFailure, 502},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := &fakeText{err: tt.err}
			g := newTestGenerator(t, "sk-configured-key", text)

			_, err := g.Generate(context.Background(), validDraft())
			require.Error(t, err)

			appErr := errors.AsAppError(err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
			assert.NotContains(t, appErr.Message, "sk-configured-key")
			assert.Equal(t, 1, text.calls)
		})
	}
}

func TestGenerate_Timeout(t *testing.T) {
	text := &fakeText{block: true}
	g := newTestGenerator(t, "sk-configured-key", text)
	g.providerCfg.Timeout = 20 * time.Millisecond

	_, err := g.Generate(context.Background(), validDraft())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeProviderFailure))
	assert.Equal(t, 1, text.calls)
}

func TestGenerate_DegradedExtraction(t *testing.T) {
	text := &fakeText{text: "The model ignored the requested format entirely."}
	g := newTestGenerator(t, "sk-configured-key", text)

	res, err := g.Generate(context.Background(), validDraft())
	require.NoError(t, err)

	assert.Equal(t, entity.GeneratedSections{}, res.Sections)
	assert.Len(t, res.RegionalProposals, 3)
	assert.Equal(t, 1, text.calls)
}

func TestGenerate_Spanish(t *testing.T) {
	text := &fakeText{text: "RESUMEN EJECUTIVO:\nR\n\nALCANCE DEL TRABAJO:\nA\n\nTÉRMINOS Y CONDICIONES:\nT"}
	g := newTestGenerator(t, "sk-configured-key", text)

	d := validDraft()
	d.Language = "Spanish"

	res, err := g.Generate(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, entity.LanguageSpanish, res.Language)
	assert.Equal(t, entity.GeneratedSections{ExecutiveSummary: "R", ScopeOfWork: "A", Terms: "T"}, res.Sections)
}

func TestGenerator_Regions(t *testing.T) {
	g := newTestGenerator(t, "", &fakeText{})

	assert.Len(t, g.Regions(), 3)
	r, err := g.Region("us")
	require.NoError(t, err)
	assert.Equal(t, 75.0, r.HourlyRate)

	_, err = g.Region("mars")
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))
}
