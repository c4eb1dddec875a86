package node

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"proposal-ai-api/internal/domain/entity"
)

func TestExtractSections_English(t *testing.T) {
	text := "EXECUTIVE SUMMARY:\nWe will help.\n\nSCOPE OF WORK:\n- Build it\n- Ship it\n\nTERMS AND CONDITIONS:\nNet 30."

	got := ExtractSections(text, entity.LanguageEnglish)

	assert.Equal(t, "We will help.", got.ExecutiveSummary)
	assert.Equal(t, "- Build it\n- Ship it", got.ScopeOfWork)
	assert.Equal(t, "Net 30.", got.Terms)
	assert.Empty(t, got.Missing())
}

func TestExtractSections_Spanish(t *testing.T) {
	text := "RESUMEN EJECUTIVO:\nResumen.\n\nALCANCE DEL TRABAJO:\nAlcance.\n\nTÉRMINOS Y CONDICIONES:\nPago a 30 días."

	got := ExtractSections(text, entity.LanguageSpanish)

	assert.Equal(t, "Resumen.", got.ExecutiveSummary)
	assert.Equal(t, "Alcance.", got.ScopeOfWork)
	assert.Equal(t, "Pago a 30 días.", got.Terms)
}

func TestExtractSections_CaseAndDecoration(t *testing.T) {
	text := "## Executive Summary\nIntro text\n\n**Scope of Work:**\nScope text\n\nterms and conditions\nTerms text"

	got := ExtractSections(text, entity.LanguageEnglish)

	assert.Equal(t, "Intro text", got.ExecutiveSummary)
	assert.Equal(t, "Scope text", got.ScopeOfWork)
	assert.Equal(t, "Terms text", got.Terms)
}

func TestExtractSections_HeaderVariants(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"period", "Executive Summary.\nS\n\nScope of Work.\nW\n\nTerms and Conditions.\nT"},
		{"dash", "EXECUTIVE SUMMARY -\nS\n\nSCOPE OF WORK -\nW\n\nTERMS AND CONDITIONS -\nT"},
		{"em dash", "Executive Summary —\nS\n\nScope of Work —\nW\n\nTerms and Conditions —\nT"},
		{"crlf", "EXECUTIVE SUMMARY\r\nS\r\n\r\nSCOPE OF WORK\r\nW\r\n\r\nTERMS AND CONDITIONS\r\nT\r\n"},
		{"crlf with colon", "EXECUTIVE SUMMARY:\r\nS\r\nSCOPE OF WORK:\r\nW\r\nTERMS AND CONDITIONS:\r\nT"},
		{"numbered", "1. EXECUTIVE SUMMARY:\nS\n\n2. SCOPE OF WORK:\nW\n\n3. TERMS AND CONDITIONS:\nT"},
		{"numbered markdown", "### 1) **Executive Summary**\nS\n### 2) **Scope of Work**\nW\n### 3) **Terms and Conditions**\nT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSections(tt.text, entity.LanguageEnglish)

			assert.Equal(t, "S", got.ExecutiveSummary)
			assert.Equal(t, "W", got.ScopeOfWork)
			assert.Equal(t, "T", got.Terms)
		})
	}
}

func TestExtractSections_ProseIsNotHeader(t *testing.T) {
	text := "EXECUTIVE SUMMARY:\nScope of work includes design.\n\nSCOPE OF WORK:\nW"

	got := ExtractSections(text, entity.LanguageEnglish)

	assert.Equal(t, "Scope of work includes design.", got.ExecutiveSummary)
	assert.Equal(t, "W", got.ScopeOfWork)
}

func TestExtractSections_MissingMiddle(t *testing.T) {
	text := "EXECUTIVE SUMMARY:\nSummary only.\n\nTERMS AND CONDITIONS:\nTerms only."

	got := ExtractSections(text, entity.LanguageEnglish)

	assert.Equal(t, "Summary only.", got.ExecutiveSummary)
	assert.Equal(t, "", got.ScopeOfWork)
	assert.Equal(t, "Terms only.", got.Terms)
	assert.Equal(t, []string{"scopeOfWork"}, got.Missing())
}

func TestExtractSections_NoHeaders(t *testing.T) {
	for _, text := range []string{"", "   ", "just some prose without any anchors", "Scope of work includes many things"} {
		got := ExtractSections(text, entity.LanguageEnglish)
		assert.Equal(t, entity.GeneratedSections{}, got, text)
	}
}

func TestExtractSections_WrongLanguageAnchors(t *testing.T) {
	text := "EXECUTIVE SUMMARY:\nA\n\nSCOPE OF WORK:\nB\n\nTERMS AND CONDITIONS:\nC"

	got := ExtractSections(text, entity.LanguageSpanish)

	assert.Len(t, got.Missing(), 3)
}

func TestExtractSections_Idempotent(t *testing.T) {
	text := "EXECUTIVE SUMMARY: inline start\nmore\nSCOPE OF WORK:\nscope\nTERMS AND CONDITIONS:\nterms"

	first := ExtractSections(text, entity.LanguageEnglish)
	second := ExtractSections(text, entity.LanguageEnglish)

	assert.Equal(t, first, second)
	assert.Equal(t, "inline start\nmore", first.ExecutiveSummary)
}
