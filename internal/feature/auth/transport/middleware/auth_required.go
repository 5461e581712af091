// Package middleware provides the gin middleware that guards protected routes.
package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"task_backend/internal/feature/auth/domain/entity"
	"task_backend/internal/platform/apperr"
	"task_backend/internal/platform/http/response"
)

const (
	// ContextUserID holds the authenticated user's uuid.UUID.
	ContextUserID = "userID"
	// ContextUser holds the authenticated user's entity.Identity.
	ContextUser = "user"
)

// Authenticator resolves an Authorization header value to a live user.
type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (*entity.Identity, error)
}

// AuthRequired returns a Gin middleware function that rejects requests
// without a valid bearer token for an existing user.
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := auth.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			// The detailed reason is logged; the client only sees the public message.
			if apperr.KindOf(err) == apperr.Unauthenticated {
				slog.Warn("authentication failed",
					"reason", err,
					"path", c.FullPath(),
					"remote_addr", c.ClientIP(),
				)
			}
			response.Error(c, err)
			return
		}

		c.Set(ContextUserID, identity.ID)
		c.Set(ContextUser, *identity)
		c.Next()
	}
}

// UserID returns the authenticated user's id set by AuthRequired.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// CurrentUser returns the authenticated user set by AuthRequired.
func CurrentUser(c *gin.Context) (entity.Identity, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return entity.Identity{}, false
	}
	identity, ok := v.(entity.Identity)
	return identity, ok
}
