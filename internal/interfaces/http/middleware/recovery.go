// Package middleware 提供 HTTP 中间件
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"proposal-ai-api/internal/interfaces/http/dto"
	"proposal-ai-api/pkg/errors"
	"proposal-ai-api/pkg/logger"
)

// Recovery Panic 恢复中间件，返回统一错误信封
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", rec),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				appErr := errors.New(errors.CodeInternalError, "internal server error")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewErrorResponse(c, http.StatusInternalServerError, appErr))
			}
		}()

		c.Next()
	}
}
