package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authhandler "task_backend/internal/feature/auth/transport/handler"
	"task_backend/internal/feature/auth/transport/middleware"
	taskhandler "task_backend/internal/feature/tasks/transport/handler"
	"task_backend/internal/platform/apperr"
	"task_backend/internal/platform/http/handler"
	httpmw "task_backend/internal/platform/http/middleware"
	"task_backend/internal/platform/http/response"
	"task_backend/internal/platform/logger"
)

var errRouteNotFound = apperr.New(apperr.NotFound, "Route not found")

// Deps はルータが必要とするハンドラーとミドルウェアの依存関係です。
type Deps struct {
	Logger         *zap.Logger
	RequestTimeout time.Duration
	// AllowedOrigins が空の場合はCORSヘッダーを付与しない
	AllowedOrigins []string

	Auth          *authhandler.AuthHandler
	Authenticator middleware.Authenticator
	Tasks         *taskhandler.TaskHandler
	Readiness     *handler.ReadinessHandler
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()

	zl := d.Logger
	if zl == nil {
		zl = zap.NewNop()
	}
	r.Use(gin.Recovery(), logger.AccessLog(zl), httpmw.RequestTimeout(d.RequestTimeout))
	if len(d.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  d.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Authorization", "Content-Type"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}
	r.NoRoute(func(c *gin.Context) { response.Error(c, errRouteNotFound) })

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)
	r.GET("/readyz", d.Readiness.Ready)

	auth := r.Group("/api/auth")
	{
		// 新規ユーザー登録
		auth.POST("/register", d.Auth.Register)
		// ログイン（JWT 発行）
		auth.POST("/login", d.Auth.Login)
		// トークン検証
		auth.GET("/verify", middleware.AuthRequired(d.Authenticator), d.Auth.Verify)
	}

	// 認証必須のルート
	// → リクエストヘッダーに Bearer トークンが必要になる
	tasks := r.Group("/api/tasks")
	tasks.Use(middleware.AuthRequired(d.Authenticator))
	{
		tasks.GET("", d.Tasks.List)
		tasks.POST("", d.Tasks.Create)
		tasks.GET("/:id", d.Tasks.Get)
		tasks.PUT("/:id", d.Tasks.Update)
		tasks.DELETE("/:id", d.Tasks.Delete)
	}

	return r
}
