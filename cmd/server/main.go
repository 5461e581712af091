package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"task_backend/internal/app/di"
	"task_backend/internal/app/router"
	"task_backend/internal/platform/config"
	"task_backend/internal/platform/logger"
	infraredis "task_backend/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .envを読み込む
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)
	slog.SetDefault(newSlogLogger(cfg.GinMode))

	accessLog, err := logger.New(cfg.GinMode)
	if err != nil {
		return err
	}
	defer func() { _ = accessLog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db
	db, err := di.OpenDB(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() {
			if err := sqlDB.Close(); err != nil {
				slog.Error("Failed to close database", "error", err)
			}
		}()
	}

	// Redis（未設定または接続失敗時はキャッシュなしで起動）
	rdb, err := infraredis.NewRedisClient(ctx, infraredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("Failed to close Redis client", "error", err)
			}
		}()
	}

	auth := di.NewAuth(cfg, db)
	r := router.NewRouter(router.Deps{
		Logger:         accessLog,
		RequestTimeout: cfg.RequestTimeout,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Auth:           auth.Handler,
		Authenticator:  auth.Authenticator,
		Tasks:          di.NewTasks(db, rdb, cfg.TaskCacheTTL),
		Readiness:      di.NewReadiness(db, rdb),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		accessLog.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newSlogLogger はアプリケーションログ用のロガーを返します。
// release ではJSON、それ以外ではテキストで出力します。
func newSlogLogger(ginMode string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if ginMode == gin.DebugMode {
		opts.Level = slog.LevelDebug
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
