// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"task_backend/internal/api"
)

const (
	statusOK          = "ok"
	statusUnavailable = "unavailable"

	// readyTimeout は依存先ごとの疎通確認の上限です。
	readyTimeout = 2 * time.Second
)

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// プロセスが応答できるかだけを返し、依存先には触れません。
func Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, api.HealthResponse{Status: statusOK})
	}
}

// Pinger は疎通確認できる依存先です。
type Pinger func(ctx context.Context) error

// ReadinessHandler は /readyz を処理します。
type ReadinessHandler struct {
	checks map[string]Pinger
}

// NewReadinessHandler は名前付きの依存先チェックからハンドラーを生成します。
// nil のチェックは無視されます。
func NewReadinessHandler(checks map[string]Pinger) *ReadinessHandler {
	filtered := make(map[string]Pinger, len(checks))
	for name, check := range checks {
		if check != nil {
			filtered[name] = check
		}
	}
	return &ReadinessHandler{checks: filtered}
}

// Ready はすべての依存先に疎通できれば200、どれか一つでも失敗すれば503を返します。
func (h *ReadinessHandler) Ready(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	for name, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		err := check(ctx)
		cancel()
		if err != nil {
			slog.Warn("readiness check failed", "dependency", name, "error", err)
			c.JSON(http.StatusServiceUnavailable, api.HealthResponse{Status: statusUnavailable})
			return
		}
	}
	c.JSON(http.StatusOK, api.HealthResponse{Status: statusOK})
}
