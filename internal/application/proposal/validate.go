// Package proposal 提案生成应用服务
package proposal

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"proposal-ai-api/internal/domain/entity"
	"proposal-ai-api/pkg/errors"
)

// CostItemDraft 未校验的工时条目
type CostItemDraft struct {
	Description string  `json:"description" yaml:"description" validate:"required,min=3,max=200"`
	Hours       float64 `json:"hours" yaml:"hours" validate:"required,gte=0.5,lte=10000"`
}

// TimelineItemDraft 未校验的里程碑
type TimelineItemDraft struct {
	Milestone    string `json:"milestone" yaml:"milestone" validate:"required,min=3,max=200"`
	StartDate    string `json:"startDate" yaml:"startDate" validate:"required,isodate"`
	Duration     int    `json:"duration" yaml:"duration" validate:"required,min=1,max=365"`
	DurationUnit string `json:"durationUnit" yaml:"durationUnit" validate:"required,oneof=days weeks months"`
}

// Draft 外部提交的原始请求，只能经 Validator.Validate 转换为 entity.ProposalRequest
type Draft struct {
	ClientName         string              `json:"clientName" yaml:"clientName" validate:"required,min=2,max=100"`
	ClientEmail        string              `json:"clientEmail" yaml:"clientEmail" validate:"required,email"`
	Company            string              `json:"company,omitempty" yaml:"company,omitempty" validate:"omitempty,min=2,max=100"`
	ProjectTitle       string              `json:"projectTitle" yaml:"projectTitle" validate:"required,min=5,max=200"`
	ServiceDescription string              `json:"serviceDescription" yaml:"serviceDescription" validate:"required,min=20,max=2000"`
	Deliverables       string              `json:"deliverables" yaml:"deliverables" validate:"required,min=10,max=2000"`
	CostItems          []CostItemDraft     `json:"costItems" yaml:"costItems" validate:"required,min=1,max=20,dive"`
	TimelineItems      []TimelineItemDraft `json:"timelineItems" yaml:"timelineItems" validate:"required,min=1,max=20,dive"`
	Language           string              `json:"language,omitempty" yaml:"language,omitempty" validate:"omitempty,language"`
	CustomTerms        string              `json:"customTerms,omitempty" yaml:"customTerms,omitempty" validate:"omitempty,max=5000"`
	AnthropicAPIKey    string              `json:"anthropicApiKey,omitempty" yaml:"anthropicApiKey,omitempty" validate:"omitempty,min=10,max=200,credential"`
}

var isoDateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

var sensitiveFieldMarkers = []string{"key", "secret", "token", "password"}

// Validator 请求校验器，构造后可并发使用
type Validator struct {
	validate  *validator.Validate
	keyPrefix string
}

// NewValidator 创建校验器；keyPrefix 为请求自带凭证必须满足的前缀
func NewValidator(keyPrefix string) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	vv := &Validator{validate: v, keyPrefix: keyPrefix}
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return isISODate(fl.Field().String())
	})
	_ = v.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		_, ok := entity.ParseLanguage(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("credential", func(fl validator.FieldLevel) bool {
		return strings.HasPrefix(fl.Field().String(), vv.keyPrefix)
	})
	return vv
}

// Validate 校验并构造 ProposalRequest；失败时一次性返回全部字段错误
func (v *Validator) Validate(d Draft) (*entity.ProposalRequest, error) {
	d = normalizeDraft(d)

	if err := v.validate.Struct(d); err != nil {
		var fieldErrs validator.ValidationErrors
		if !stderrors.As(err, &fieldErrs) {
			return nil, errors.Wrap(err, errors.CodeInternalError, "failed to validate request")
		}
		violations := make([]errors.FieldViolation, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			violations = append(violations, v.toViolation(fe))
		}
		return nil, errors.Validation(violations)
	}

	lang, _ := entity.ParseLanguage(d.Language)
	req := &entity.ProposalRequest{
		ClientName:         d.ClientName,
		ClientEmail:        d.ClientEmail,
		Company:            d.Company,
		ProjectTitle:       d.ProjectTitle,
		ServiceDescription: d.ServiceDescription,
		Deliverables:       d.Deliverables,
		CostItems:          make([]entity.CostItem, 0, len(d.CostItems)),
		TimelineItems:      make([]entity.TimelineItem, 0, len(d.TimelineItems)),
		Language:           lang,
		CustomTerms:        d.CustomTerms,
		Credential:         d.AnthropicAPIKey,
	}
	for _, item := range d.CostItems {
		req.CostItems = append(req.CostItems, entity.CostItem{Description: item.Description, Hours: item.Hours})
	}
	for _, item := range d.TimelineItems {
		req.TimelineItems = append(req.TimelineItems, entity.TimelineItem{
			Milestone:    item.Milestone,
			StartDate:    item.StartDate,
			Duration:     item.Duration,
			DurationUnit: entity.DurationUnit(item.DurationUnit),
		})
	}
	return req, nil
}

func normalizeDraft(d Draft) Draft {
	d.ClientName = strings.TrimSpace(d.ClientName)
	d.ClientEmail = strings.TrimSpace(d.ClientEmail)
	d.Company = strings.TrimSpace(d.Company)
	d.ProjectTitle = strings.TrimSpace(d.ProjectTitle)
	d.ServiceDescription = strings.TrimSpace(d.ServiceDescription)
	d.Deliverables = strings.TrimSpace(d.Deliverables)
	d.Language = strings.TrimSpace(d.Language)
	d.CustomTerms = strings.TrimSpace(d.CustomTerms)
	d.AnthropicAPIKey = strings.TrimSpace(d.AnthropicAPIKey)

	// 复制切片，避免修改调用方数据；nil 保持为 nil 以便报告 required
	if d.CostItems != nil {
		costItems := make([]CostItemDraft, len(d.CostItems))
		for i, item := range d.CostItems {
			item.Description = strings.TrimSpace(item.Description)
			costItems[i] = item
		}
		d.CostItems = costItems
	}
	if d.TimelineItems != nil {
		timelineItems := make([]TimelineItemDraft, len(d.TimelineItems))
		for i, item := range d.TimelineItems {
			item.Milestone = strings.TrimSpace(item.Milestone)
			item.StartDate = strings.TrimSpace(item.StartDate)
			item.DurationUnit = strings.ToLower(strings.TrimSpace(item.DurationUnit))
			timelineItems[i] = item
		}
		d.TimelineItems = timelineItems
	}
	return d
}

func isISODate(s string) bool {
	for _, layout := range isoDateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func (v *Validator) toViolation(fe validator.FieldError) errors.FieldViolation {
	field := fieldPath(fe.Namespace())
	out := errors.FieldViolation{
		Field:   field,
		Message: v.violationMessage(fe),
	}
	switch fe.Kind() {
	case reflect.Slice, reflect.Map, reflect.Struct:
	default:
		out.Value = MaskValue(field, fe.Value())
	}
	return out
}

// fieldPath 去掉根结构体名，例如 "Draft.costItems[0].hours" -> "costItems[0].hours"
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func (v *Validator) violationMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", name)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", name, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at most %s items", name, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "isodate":
		return fmt.Sprintf("%s must be a valid ISO 8601 date", name)
	case "language":
		return fmt.Sprintf("%s must be one of: %s, %s", name, entity.LanguageEnglish, entity.LanguageSpanish)
	case "credential":
		return fmt.Sprintf("%s must start with %q", name, v.keyPrefix)
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

// IsSensitiveField 字段名包含 key/secret/token/password 时视为敏感
func IsSensitiveField(field string) bool {
	lower := strings.ToLower(field)
	for _, marker := range sensitiveFieldMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// MaskValue 敏感字段仅保留末 4 个字符，其余以 * 替代；非敏感字段原样返回
func MaskValue(field string, value any) any {
	if !IsSensitiveField(field) {
		return value
	}
	s, ok := value.(string)
	if !ok {
		return "****"
	}
	return maskString(s)
}

func maskString(s string) string {
	n := utf8.RuneCountInString(s)
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	runes := []rune(s)
	return strings.Repeat("*", n-4) + string(runes[n-4:])
}
