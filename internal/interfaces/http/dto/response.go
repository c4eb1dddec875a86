// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"proposal-ai-api/pkg/errors"
)

// Response 统一成功响应结构
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorBody 错误详情
type ErrorBody struct {
	Message string                  `json:"message"`
	Status  int                     `json:"status"`
	Code    string                  `json:"code,omitempty"`
	Detail  string                  `json:"detail,omitempty"`
	Details []errors.FieldViolation `json:"details,omitempty"`
}

// ErrorResponse 统一错误响应结构
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     ErrorBody `json:"error"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	RequestID string    `json:"request_id,omitempty"`
	TraceID   string    `json:"trace_id,omitempty"`
}

// Success 返回成功响应
func Success[T any](c *gin.Context, data T) {
	c.JSON(http.StatusOK, Response[T]{
		Success: true,
		Data:    data,
		TraceID: c.GetString("trace_id"),
	})
}

// Fail 按 AppError 返回错误响应；非 AppError 统一为 500 且不暴露原始信息
func Fail(c *gin.Context, err error) {
	appErr := errors.AsAppError(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, NewErrorResponse(c, status, appErr))
}

// NewErrorResponse 构造错误响应体
func NewErrorResponse(c *gin.Context, status int, appErr *errors.AppError) ErrorResponse {
	body := ErrorBody{
		Message: appErr.Message,
		Status:  status,
		Code:    string(appErr.Code),
		Detail:  appErr.Detail,
		Details: appErr.Details,
	}
	path := ""
	if c.Request != nil && c.Request.URL != nil {
		path = c.Request.URL.Path
	}
	return ErrorResponse{
		Success:   false,
		Error:     body,
		Timestamp: time.Now().UTC(),
		Path:      path,
		RequestID: c.GetString("request_id"),
		TraceID:   c.GetString("trace_id"),
	}
}

// Error 按错误码与消息返回错误响应
func Error(c *gin.Context, code errors.ErrorCode, message string) {
	Fail(c, errors.New(code, message))
}

// BadRequest 返回 400 错误
func BadRequest(c *gin.Context, message string) {
	Error(c, errors.CodeInvalidParam, message)
}

// NotFound 返回 404 错误
func NotFound(c *gin.Context, message string) {
	Error(c, errors.CodeNotFound, message)
}

// InternalError 返回 500 错误
func InternalError(c *gin.Context, message string) {
	Error(c, errors.CodeInternalError, message)
}
