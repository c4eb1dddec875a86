package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"proposal-ai-api/internal/config"
	"proposal-ai-api/internal/interfaces/http/dto"
)

// HealthChecker 可探测的外部依赖
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler 健康检查处理器
type HealthHandler struct {
	cfg   *config.Config
	redis HealthChecker
}

// NewHealthHandler 创建健康检查处理器；redis 为空表示未启用限流后端
func NewHealthHandler(cfg *config.Config, redis HealthChecker) *HealthHandler {
	return &HealthHandler{cfg: cfg, redis: redis}
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
// @Summary 健康检查
// @Description 返回服务状态以及进程级凭证是否已配置
// @Tags System
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:               "OK",
		Service:              h.cfg.App.Name,
		Version:              h.cfg.App.Version,
		Environment:          h.cfg.App.Env,
		CredentialConfigured: h.cfg.HasDefaultCredential(),
		Timestamp:            time.Now().UTC(),
	})
}

// Ready 就绪检查接口
// @Summary 就绪检查
// @Description 定价表已加载即可接收流量；使用 Redis 限流时同时检查 Redis
// @Tags System
// @Produce json
// @Success 200 {object} readinessResponse
// @Failure 503 {object} readinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{
		"pricing": {Status: "ok"},
		"redis":   {Status: "disabled"},
	}
	ready := true

	if len(h.cfg.Pricing.Regions) == 0 {
		checks["pricing"].Status = "missing"
		checks["pricing"].Error = "pricing table is empty"
		ready = false
	}

	// Redis 仅在作为限流后端时参与就绪判断
	if h.cfg.UsesRedisRateLimit() {
		if h.redis == nil {
			// 已降级为进程内限流，不影响就绪态
			checks["redis"].Status = "degraded"
			checks["redis"].Error = "redis unavailable, using in-memory rate limiting"
		} else {
			start := time.Now()
			err := h.redis.HealthCheck(ctx)
			checks["redis"].LatencyMs = time.Since(start).Milliseconds()
			if err != nil {
				checks["redis"].Status = "error"
				checks["redis"].Error = err.Error()
				ready = false
			} else {
				checks["redis"].Status = "ok"
			}
		}
	}

	resp := readinessResponse{Status: "ok", Checks: checks}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查接口
// @Summary 存活检查
// @Tags System
// @Produce json
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
