// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"task_backend/internal/api"
	"task_backend/internal/feature/auth/domain/entity"
	"task_backend/internal/feature/auth/transport/middleware"
	"task_backend/internal/feature/auth/usecase"
	"task_backend/internal/platform/apperr"
	"task_backend/internal/platform/http/response"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は指定されたメールアドレスとパスワードで新規ユーザーを登録し、トークンを発行します。
	Register(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	// Login はユーザーを認証し、成功時にトークンを返します。
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - 入力不正は400、メール重複は409を返却
// - 成功時はトークンとユーザー情報付きで201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register request rejected", "error", err, "remote_addr", c.ClientIP())
		response.Error(c, response.ErrInvalidBody)
		return
	}
	res, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if apperr.KindOf(err) != apperr.Internal {
			slog.Warn("register failed", "error", err, "remote_addr", c.ClientIP())
		}
		response.Error(c, err)
		return
	}
	slog.Info("user registered", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.AuthResponse{
		Success: true,
		Message: "User created successfully",
		Token:   res.Token,
		User:    toAPIUser(res.User),
	})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - 入力不正は400、認証失敗は401を返却
// - 未登録メールとパスワード誤りは同一のレスポンスになります
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login request rejected", "error", err, "remote_addr", c.ClientIP())
		response.Error(c, response.ErrInvalidBody)
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if apperr.KindOf(err) != apperr.Internal {
			slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
		}
		response.Error(c, err)
		return
	}
	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   res.Token,
		User:    toAPIUser(res.User),
	})
}

// Verify はAuthRequiredミドルウェアを通過したリクエストのユーザー情報を返します。
func (h *AuthHandler) Verify(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperr.New(apperr.Internal, "authenticated user missing from context"))
		return
	}
	c.JSON(http.StatusOK, api.VerifyResponse{
		Success: true,
		Message: "Token is valid",
		User:    toAPIUser(user),
	})
}

func toAPIUser(u entity.Identity) api.User {
	return api.User{
		Id:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
