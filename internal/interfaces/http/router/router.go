// Package router 提供 HTTP 路由配置
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"proposal-ai-api/internal/config"
	"proposal-ai-api/internal/interfaces/http/dto"
	"proposal-ai-api/internal/interfaces/http/handler"
	"proposal-ai-api/internal/interfaces/http/middleware"
	"proposal-ai-api/pkg/errors"
)

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers *RouterHandlers
	limiter  middleware.RateLimiter
}

// RouterHandlers 路由依赖的处理器集合
type RouterHandlers struct {
	Health   *handler.HealthHandler
	Proposal *handler.ProposalHandler
}

// NewWithDeps 创建路由器；limiter 为空时限流中间件直接放行
func NewWithDeps(cfg *config.Config, handlers *RouterHandlers, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		cfg:      cfg,
		handlers: handlers,
		limiter:  limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name, "/health", "/ready", "/live", r.metricsPath()))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics(r.metricsPath()))
	}

	r.engine.Use(middleware.Audit(middleware.AuditConfig{
		Enabled:   true,
		SkipPaths: middleware.DefaultAuditSkipPaths,
	}))
	r.engine.Use(middleware.BodyLimit(r.cfg.Server.HTTP.MaxBodyBytes))
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	h := r.handlers

	// 系统端点
	r.engine.GET("/health", h.Health.Health)
	r.engine.GET("/ready", h.Health.Ready)
	r.engine.GET("/live", h.Health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.metricsPath(), gin.WrapH(promhttp.Handler()))
	}

	rateLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:           r.cfg.Security.RateLimit.Enabled,
		RequestsPerSecond: r.cfg.Security.RateLimit.RequestsPerSecond,
		KeyPrefix:         r.cfg.App.Name + ":ratelimit",
	}, r.limiter)

	RegisterProposalRoutes(r.engine.Group("/api/proposals"), h.Proposal, rateLimit)

	// 兼容旧路径
	r.engine.POST("/generate", rateLimit, h.Proposal.Generate)
	r.engine.GET("/regions", h.Proposal.ListRegions)

	r.engine.NoRoute(r.notFound)
}

func (r *Router) metricsPath() string {
	if p := r.cfg.Observability.Metrics.Path; p != "" {
		return p
	}
	return "/metrics"
}

// AvailableEndpoints 对外公开的端点列表
var AvailableEndpoints = []string{
	"POST /api/proposals/generate",
	"GET /api/proposals/regions",
	"GET /api/proposals/regions/:id",
	"GET /api/proposals/health",
	"POST /generate",
	"GET /regions",
	"GET /health",
}

// notFound 未匹配路由
func (r *Router) notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.EndpointNotFoundResponse{
		Success: false,
		Error: dto.ErrorBody{
			Message: "Endpoint not found",
			Status:  http.StatusNotFound,
			Code:    string(errors.CodeNotFound),
		},
		Timestamp:          time.Now().UTC(),
		Path:               c.Request.URL.Path,
		AvailableEndpoints: AvailableEndpoints,
	})
}
