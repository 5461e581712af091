package di

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"task_backend/internal/platform/db"
	"task_backend/internal/platform/http/handler"
	infraredis "task_backend/internal/platform/redis"
)

// NewReadiness checks the database and, when configured, Redis.
func NewReadiness(gdb *gorm.DB, rdb *redis.Client) *handler.ReadinessHandler {
	checks := map[string]handler.Pinger{
		"database": func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return infraredis.Ping(ctx, rdb) }
	}
	return handler.NewReadinessHandler(checks)
}
