package llm

import "fmt"

// StatusError 上游返回非 2xx 时的错误，保留状态码供上层分类
type StatusError struct {
	Status  int
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("anthropic: status code: %d, message: %s", e.Status, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// StatusCode 上游 HTTP 状态码
func (e *StatusError) StatusCode() int {
	return e.Status
}
