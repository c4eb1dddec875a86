// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"

	"proposal-ai-api/internal/interfaces/http/handler"
)

// RegisterProposalRoutes 注册提案路由
func RegisterProposalRoutes(g *gin.RouterGroup, proposalHandler *handler.ProposalHandler, rateLimit gin.HandlerFunc) {
	// 生成接口需要调用模型，单独限流
	g.POST("/generate", rateLimit, proposalHandler.Generate)

	g.GET("/regions", proposalHandler.ListRegions)
	g.GET("/regions/:id", proposalHandler.GetRegion)
	g.GET("/health", proposalHandler.Health)
}
