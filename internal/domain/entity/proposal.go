// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"
)

// Language 提案目标语言
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageSpanish Language = "Spanish"
)

// ParseLanguage 将外部输入归一化为封闭枚举；空值默认为英文
func ParseLanguage(s string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "english", "en", "en-us", "en-gb":
		return LanguageEnglish, true
	case "spanish", "español", "espanol", "es", "es-es", "es-mx":
		return LanguageSpanish, true
	default:
		return "", false
	}
}

// DurationUnit 里程碑时长单位
type DurationUnit string

const (
	DurationDays   DurationUnit = "days"
	DurationWeeks  DurationUnit = "weeks"
	DurationMonths DurationUnit = "months"
)

// CostItem 工时条目
type CostItem struct {
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
}

// TimelineItem 里程碑
type TimelineItem struct {
	Milestone    string       `json:"milestone"`
	StartDate    string       `json:"startDate"`
	Duration     int          `json:"duration"`
	DurationUnit DurationUnit `json:"durationUnit"`
}

// ProposalRequest 已通过校验的提案生成请求
// 只能由 proposal.Validate 构造：CostItems 与 TimelineItems 非空，Hours/Duration 为正
type ProposalRequest struct {
	ClientName         string
	ClientEmail        string
	Company            string
	ProjectTitle       string
	ServiceDescription string
	Deliverables       string
	CostItems          []CostItem
	TimelineItems      []TimelineItem
	Language           Language
	CustomTerms        string
	Credential         string
}

// GeneratedSections 从模型输出中提取的章节，缺失的章节为空字符串
type GeneratedSections struct {
	ExecutiveSummary string `json:"executiveSummary"`
	ScopeOfWork      string `json:"scopeOfWork"`
	Terms            string `json:"terms"`
}

// Missing 返回未能提取到的章节名
func (s GeneratedSections) Missing() []string {
	var out []string
	if s.ExecutiveSummary == "" {
		out = append(out, "executiveSummary")
	}
	if s.ScopeOfWork == "" {
		out = append(out, "scopeOfWork")
	}
	if s.Terms == "" {
		out = append(out, "terms")
	}
	return out
}

// ClientDetails 客户信息回显
type ClientDetails struct {
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email"`
}

// ServiceDetails 服务描述
type ServiceDetails struct {
	Description string `json:"description"`
	ScopeOfWork string `json:"scopeOfWork"`
}

// RegionalProposal 单个区域的报价与正文
type RegionalProposal struct {
	Region           PricingRegion      `json:"region"`
	CostItems        []RegionalCostItem `json:"costItems"`
	TotalCost        float64            `json:"totalCost"`
	ExecutiveSummary string             `json:"executiveSummary"`
	ScopeOfWork      string             `json:"scopeOfWork"`
	Terms            string             `json:"terms"`
}

// ProposalResult 提案生成结果
type ProposalResult struct {
	ClientDetails     ClientDetails      `json:"clientDetails"`
	ServiceDetails    ServiceDetails     `json:"serviceDetails"`
	Sections          GeneratedSections  `json:"sections"`
	Timeline          []TimelineItem     `json:"timeline"`
	RegionalProposals []RegionalProposal `json:"regionalProposals"`
	CustomTerms       string             `json:"customTerms,omitempty"`
	Language          Language           `json:"language"`
	GeneratedAt       time.Time          `json:"generatedAt"`
}
