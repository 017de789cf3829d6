package app

import (
	"context"

	"go-hris-leave/internal/config"
	"go-hris-leave/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp opens every backing connection, registers the modules on router
// and returns a function that releases the connections.
func BuildApp(ctx context.Context, router *gin.Engine, cfg config.Config) (func(), error) {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	pool, err := connection.ConnectPgxPool(ctx, cfg.Database)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Database.MaxRetries)
	if err != nil {
		pool.Close()
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	cleanup := func() {
		_ = redisClient.Close()
		pool.Close()
		_ = sqlDB.Close()
	}

	if err := registerModules(ctx, router, cfg, sqlDB, gormDB, pool, redisClient); err != nil {
		cleanup()
		return nil, err
	}
	return cleanup, nil
}
