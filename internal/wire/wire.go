//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"proposal-ai-api/internal/application/pricing"
	"proposal-ai-api/internal/application/proposal"
	"proposal-ai-api/internal/config"
	"proposal-ai-api/internal/infrastructure/llm"
	"proposal-ai-api/internal/interfaces/http/handler"
	"proposal-ai-api/internal/interfaces/http/router"
	"proposal-ai-api/internal/workflow/chain"
	workflowport "proposal-ai-api/internal/workflow/port"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RedisSet,
		ProposalSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializeGenerator 仅初始化提案生成器（用于 CLI）
func InitializeGenerator(cfg *config.Config) (*proposal.Generator, error) {
	wire.Build(ProposalSet)
	return nil, nil
}

// RedisSet 可选 Redis 限流后端
var RedisSet = wire.NewSet(
	ProvideRedisClientOptional,
	ProvideRateLimiter,
	ProvideRedisHealthChecker,
)

// ProposalSet 提案生成链路
var ProposalSet = wire.NewSet(
	pricing.NewTableFromConfig,
	llm.NewEinoFactory,
	wire.Bind(new(workflowport.ChatModelFactory), new(*llm.EinoFactory)),
	chain.NewProposalChain,
	wire.Bind(new(proposal.TextGenerator), new(*chain.ProposalChain)),
	proposal.NewGenerator,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewHealthHandler,
	handler.NewProposalHandler,
	wire.Struct(new(router.RouterHandlers), "*"),
	router.NewWithDeps,
)
