package proposal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proposal-ai-api/internal/domain/entity"
	"proposal-ai-api/pkg/errors"
)

func validDraft() Draft {
	return Draft{
		ClientName:         "Acme",
		ClientEmail:        "a@acme.com",
		ProjectTitle:       "Website Redesign",
		ServiceDescription: "Complete redesign of the corporate website",
		Deliverables:       "New website and CMS",
		CostItems:          []CostItemDraft{{Description: "Design", Hours: 10}},
		TimelineItems: []TimelineItemDraft{
			{Milestone: "Kickoff", StartDate: "2024-01-01", Duration: 1, DurationUnit: "weeks"},
		},
		Language: "English",
	}
}

func violationFields(t *testing.T, err error) map[string]errors.FieldViolation {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.HasCode(err, errors.CodeValidationFailed))

	appErr := errors.AsAppError(err)
	assert.Equal(t, 400, appErr.HTTPStatus)
	out := make(map[string]errors.FieldViolation, len(appErr.Details))
	for _, v := range appErr.Details {
		out[v.Field] = v
	}
	return out
}

func TestValidate_Valid(t *testing.T) {
	d := validDraft()
	d.ClientName = "  Acme  "
	d.Language = "spanish"
	d.AnthropicAPIKey = "sk-ant-1234567890"

	req, err := NewValidator("sk-").Validate(d)
	require.NoError(t, err)

	assert.Equal(t, "Acme", req.ClientName)
	assert.Equal(t, entity.LanguageSpanish, req.Language)
	assert.Equal(t, "sk-ant-1234567890", req.Credential)
	require.Len(t, req.CostItems, 1)
	assert.Equal(t, 10.0, req.CostItems[0].Hours)
	require.Len(t, req.TimelineItems, 1)
	assert.Equal(t, entity.DurationWeeks, req.TimelineItems[0].DurationUnit)
}

func TestValidate_DefaultLanguage(t *testing.T) {
	d := validDraft()
	d.Language = ""

	req, err := NewValidator("sk-").Validate(d)
	require.NoError(t, err)
	assert.Equal(t, entity.LanguageEnglish, req.Language)
}

func TestValidate_MissingEmail(t *testing.T) {
	d := validDraft()
	d.ClientEmail = ""

	fields := violationFields(t, func() error { _, err := NewValidator("sk-").Validate(d); return err }())
	require.Contains(t, fields, "clientEmail")
	assert.Equal(t, "clientEmail is required", fields["clientEmail"].Message)
}

func TestValidate_InvalidEmail(t *testing.T) {
	d := validDraft()
	d.ClientEmail = "not-an-email"

	fields := violationFields(t, func() error { _, err := NewValidator("sk-").Validate(d); return err }())
	require.Contains(t, fields, "clientEmail")
	assert.Equal(t, "not-an-email", fields["clientEmail"].Value)
}

func TestValidate_ReportsAllViolations(t *testing.T) {
	d := validDraft()
	d.ClientName = ""
	d.ClientEmail = ""
	d.ProjectTitle = "abc"
	d.CostItems = nil
	d.TimelineItems = []TimelineItemDraft{
		{Milestone: "Go", StartDate: "yesterday", Duration: 0, DurationUnit: "years"},
	}
	d.Language = "French"

	fields := violationFields(t, func() error { _, err := NewValidator("sk-").Validate(d); return err }())

	for _, f := range []string{
		"clientName",
		"clientEmail",
		"projectTitle",
		"costItems",
		"timelineItems[0].milestone",
		"timelineItems[0].startDate",
		"timelineItems[0].duration",
		"timelineItems[0].durationUnit",
		"language",
	} {
		assert.Contains(t, fields, f)
	}
}

func TestValidate_CostItemBounds(t *testing.T) {
	d := validDraft()
	d.CostItems = []CostItemDraft{
		{Description: "ok item", Hours: 0.25},
		{Description: "ok item", Hours: -3},
		{Description: "ok item", Hours: 10001},
		{Description: "x", Hours: 5},
	}

	fields := violationFields(t, func() error { _, err := NewValidator("sk-").Validate(d); return err }())
	assert.Contains(t, fields, "costItems[0].hours")
	assert.Contains(t, fields, "costItems[1].hours")
	assert.Contains(t, fields, "costItems[2].hours")
	assert.Contains(t, fields, "costItems[3].description")
}

func TestValidate_TooManyItems(t *testing.T) {
	d := validDraft()
	d.CostItems = make([]CostItemDraft, 21)
	for i := range d.CostItems {
		d.CostItems[i] = CostItemDraft{Description: "item", Hours: 1}
	}

	fields := violationFields(t, func() error { _, err := NewValidator("sk-").Validate(d); return err }())
	assert.Contains(t, fields, "costItems")
}

func TestValidate_CredentialPrefix(t *testing.T) {
	d := validDraft()
	d.AnthropicAPIKey = "pk-abcdefghijk1234"

	fields := violationFields(t, func() error { _, err := NewValidator("sk-").Validate(d); return err }())
	v, ok := fields["anthropicApiKey"]
	require.True(t, ok)
	assert.Contains(t, v.Message, `"sk-"`)
	assert.Equal(t, "**************1234", v.Value)
}

func TestValidate_ISODateFormats(t *testing.T) {
	for _, date := range []string{"2024-01-01", "2024-01-01T10:00:00Z", "2024-01-01T10:00:00+02:00"} {
		d := validDraft()
		d.TimelineItems[0].StartDate = date
		_, err := NewValidator("sk-").Validate(d)
		assert.NoError(t, err, date)
	}
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "*******6789", MaskValue("anthropicApiKey", "sk-12346789"))
	assert.Equal(t, "***", MaskValue("password", "abc"))
	assert.Equal(t, "****", MaskValue("clientSecret", "abcd"))
	assert.Equal(t, "visible", MaskValue("clientName", "visible"))
	assert.Equal(t, "****", MaskValue("apiToken", 42))
}

func TestIsSensitiveField(t *testing.T) {
	assert.True(t, IsSensitiveField("anthropicApiKey"))
	assert.True(t, IsSensitiveField("accessToken"))
	assert.True(t, IsSensitiveField("PASSWORD"))
	assert.False(t, IsSensitiveField("clientEmail"))
}
