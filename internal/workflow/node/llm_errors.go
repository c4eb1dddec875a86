package node

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"proposal-ai-api/pkg/errors"
)

// httpStatusError 由携带上游 HTTP 状态码的 provider 错误实现
type httpStatusError interface {
	error
	StatusCode() int
}

// ClassifyLLMError 将模型调用错误归类为对外错误码。
// 优先使用上游状态码，其次按错误文本匹配；其余一律视为 ProviderFailure。
func ClassifyLLMError(err error) *errors.AppError {
	if err == nil {
		return nil
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var statusErr httpStatusError
	if stderrors.As(err, &statusErr) {
		return classifyStatus(statusErr.StatusCode(), err)
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(err, errors.CodeProviderFailure, "text generation timed out")
	}
	if stderrors.Is(err, context.Canceled) {
		return errors.Wrap(err, errors.CodeProviderFailure, "text generation canceled")
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "status code: 401"),
		strings.Contains(msg, "status code: 403"),
		strings.Contains(msg, "invalid x-api-key"),
		strings.Contains(msg, "invalid api key"),
		strings.Contains(msg, "incorrect api key"),
		strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "authentication_error"):
		return classifyStatus(http.StatusUnauthorized, err)
	case strings.Contains(msg, "status code: 429"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "rate_limit"),
		strings.Contains(msg, "too many requests"):
		return classifyStatus(http.StatusTooManyRequests, err)
	default:
		return classifyStatus(0, err)
	}
}

func classifyStatus(status int, err error) *errors.AppError {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Wrap(err, errors.CodeCredentialRejected, "Invalid API key")
	case http.StatusTooManyRequests:
		return errors.Wrap(err, errors.CodeProviderRateLimited, "Rate limit exceeded. Please try again later.")
	default:
		return errors.Wrap(err, errors.CodeProviderFailure, "Failed to generate proposal")
	}
}
