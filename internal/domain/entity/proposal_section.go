package entity

// SectionKey 提案章节标识
type SectionKey string

const (
	SectionExecutiveSummary SectionKey = "executiveSummary"
	SectionScopeOfWork      SectionKey = "scopeOfWork"
	SectionTerms            SectionKey = "terms"
)

// SectionOrder 章节在模型输出中的固定顺序
var SectionOrder = []SectionKey{SectionExecutiveSummary, SectionScopeOfWork, SectionTerms}

// sectionHeaders 章节标题表，提示词构造与输出提取共用同一份
var sectionHeaders = map[Language]map[SectionKey]string{
	LanguageEnglish: {
		SectionExecutiveSummary: "EXECUTIVE SUMMARY",
		SectionScopeOfWork:      "SCOPE OF WORK",
		SectionTerms:            "TERMS AND CONDITIONS",
	},
	LanguageSpanish: {
		SectionExecutiveSummary: "RESUMEN EJECUTIVO",
		SectionScopeOfWork:      "ALCANCE DEL TRABAJO",
		SectionTerms:            "TÉRMINOS Y CONDICIONES",
	},
}

// SectionHeader 返回指定语言的章节标题（不含冒号），未知语言回退英文
func SectionHeader(lang Language, key SectionKey) string {
	headers, ok := sectionHeaders[lang]
	if !ok {
		headers = sectionHeaders[LanguageEnglish]
	}
	return headers[key]
}

// Set 按章节标识写入内容
func (s *GeneratedSections) Set(key SectionKey, text string) {
	switch key {
	case SectionExecutiveSummary:
		s.ExecutiveSummary = text
	case SectionScopeOfWork:
		s.ScopeOfWork = text
	case SectionTerms:
		s.Terms = text
	}
}
