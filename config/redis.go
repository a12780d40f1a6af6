package config

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens the cache connection. Redis is optional: with no
// REDIS_ADDR, or when the ping fails, this returns nil and callers fall
// back to computing summaries on every read.
func ConnectRedis(cfg Config) *redis.Client {
	if cfg.RedisAddr == "" {
		slog.Warn("REDIS_ADDR이 설정되지 않아 캐싱이 비활성화됩니다")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		slog.Error("Redis 연결 실패, 캐싱 없이 동작합니다", "error", err)
		return nil
	}

	slog.Info("Redis 연결 성공")
	return rdb
}
