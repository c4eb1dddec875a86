// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"proposal-ai-api/internal/config"
	"proposal-ai-api/internal/infrastructure/ratelimit"
	"proposal-ai-api/internal/infrastructure/persistence/redis"
	"proposal-ai-api/internal/interfaces/http/handler"
	"proposal-ai-api/internal/interfaces/http/middleware"
	"proposal-ai-api/pkg/logger"
)

// ProvideRedisClientOptional 仅在使用 Redis 限流后端时连接；不可达时降级为进程内限流
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.UsesRedisRateLimit() {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis not available, falling back to in-memory rate limiting", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRateLimiter 提供限流器；未启用时返回 nil，中间件直接放行
func ProvideRateLimiter(cfg *config.Config, client *redis.Client) middleware.RateLimiter {
	if !cfg.Security.RateLimit.Enabled {
		return nil
	}
	if client != nil {
		return redis.NewRateLimiter(client)
	}
	return ratelimit.NewMemoryLimiter()
}

// ProvideRedisHealthChecker 提供就绪检查使用的 Redis 探测
func ProvideRedisHealthChecker(client *redis.Client) handler.HealthChecker {
	if client == nil {
		return nil
	}
	return client
}
