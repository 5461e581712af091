// Package di provides dependency injection factories for creating application components.
package di

import (
	"gorm.io/gorm"

	authadapters "task_backend/internal/feature/auth/adapters"
	authhandler "task_backend/internal/feature/auth/transport/handler"
	"task_backend/internal/feature/auth/transport/middleware"
	authusecase "task_backend/internal/feature/auth/usecase"
	"task_backend/internal/platform/config"
	jwtmw "task_backend/internal/platform/jwt"
	"task_backend/internal/platform/password"
)

// Auth bundles the auth handler with the authenticator used by the
// AuthRequired middleware. Both share one usecase instance.
type Auth struct {
	Handler       *authhandler.AuthHandler
	Authenticator middleware.Authenticator
}

// NewAuth wires the user store, password hasher and token codec.
func NewAuth(cfg *config.Config, db *gorm.DB) *Auth {
	users := authadapters.NewUserRepository(db)
	hasher := password.NewHasher(cfg.BcryptCost, cfg.HashConcurrency)
	tokens := jwtmw.NewCodec(cfg.JWTSecret, cfg.JWTTTL)

	uc := authusecase.NewAuthUsecase(users, hasher, tokens)
	return &Auth{
		Handler:       authhandler.NewAuthHandler(uc),
		Authenticator: uc,
	}
}
