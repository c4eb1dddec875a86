// Package handler 提供 HTTP 请求处理器
package handler

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"proposal-ai-api/internal/application/proposal"
	"proposal-ai-api/internal/interfaces/http/dto"
	"proposal-ai-api/pkg/errors"
	"proposal-ai-api/pkg/logger"
)

// ProposalHandler 提案处理器
type ProposalHandler struct {
	generator *proposal.Generator
}

// NewProposalHandler 创建提案处理器
func NewProposalHandler(generator *proposal.Generator) *ProposalHandler {
	return &ProposalHandler{generator: generator}
}

// Generate 生成提案
// @Summary 生成商务提案
// @Description 校验请求，调用一次模型生成提案正文，并按全部定价区域计算报价
// @Tags Proposals
// @Accept json
// @Produce json
// @Param body body proposal.Draft true "提案信息"
// @Success 200 {object} dto.Response[entity.ProposalResult]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/proposals/generate [post]
func (h *ProposalHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var draft proposal.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		dto.Fail(c, decodeError(err))
		return
	}

	result, err := h.generator.Generate(ctx, draft)
	if err != nil {
		if !errors.IsAppError(err) {
			logger.Error(ctx, "unexpected proposal generation error", err)
		}
		dto.Fail(c, err)
		return
	}
	dto.Success(c, result)
}

// ListRegions 获取定价区域
// @Summary 获取定价区域
// @Tags Proposals
// @Produce json
// @Success 200 {object} dto.Response[dto.RegionListResponse]
// @Router /api/proposals/regions [get]
func (h *ProposalHandler) ListRegions(c *gin.Context) {
	dto.Success(c, dto.ToRegionListResponse(h.generator.Regions()))
}

// GetRegion 获取单个定价区域
// @Summary 获取定价区域详情
// @Tags Proposals
// @Produce json
// @Param id path string true "区域 ID"
// @Success 200 {object} dto.Response[entity.PricingRegion]
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/proposals/regions/{id} [get]
func (h *ProposalHandler) GetRegion(c *gin.Context) {
	region, err := h.generator.Region(c.Param("id"))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, region)
}

// Health 提案服务健康状态
// @Summary 提案服务健康检查
// @Tags Proposals
// @Produce json
// @Success 200 {object} dto.Response[dto.ProposalHealthResponse]
// @Router /api/proposals/health [get]
func (h *ProposalHandler) Health(c *gin.Context) {
	llmStatus := "not configured"
	if h.generator.CredentialConfigured() {
		llmStatus = "configured"
	}

	regions := h.generator.Regions()
	ids := make([]string, 0, len(regions))
	for _, r := range regions {
		ids = append(ids, r.ID)
	}

	dto.Success(c, &dto.ProposalHealthResponse{
		Status: "healthy",
		Services: map[string]string{
			"llm":     llmStatus,
			"pricing": "operational",
		},
		AvailableRegions: ids,
		Timestamp:        time.Now().UTC(),
	})
}

// decodeError 将请求体解析错误转换为校验错误
func decodeError(err error) *errors.AppError {
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return errors.Validation([]errors.FieldViolation{{
			Field:   field,
			Message: fmt.Sprintf("%s must be of type %s", field, typeErr.Type.String()),
		}})
	}

	var maxBytesErr *http.MaxBytesError
	if stderrors.As(err, &maxBytesErr) {
		return errors.New(errors.CodeInvalidParam, "Request body too large")
	}

	if stderrors.Is(err, io.EOF) {
		return errors.Validation([]errors.FieldViolation{{Field: "body", Message: "request body is required"}})
	}

	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.New(errors.CodeInvalidParam, "Invalid JSON payload").WithError(err)
	}
	return errors.New(errors.CodeInvalidParam, "Invalid request body").WithError(err)
}
