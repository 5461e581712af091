// Package response writes the JSON failure envelope shared by every endpoint.
package response

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"task_backend/internal/api"
	"task_backend/internal/platform/apperr"
)

// ErrInvalidBody is returned when a request body is not decodable JSON of
// the expected shape.
var ErrInvalidBody = apperr.New(apperr.InvalidInput, "Invalid request body")

// Error aborts the request with the status and public message for err.
// Internal faults are logged in full and reported with a generic message.
func Error(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		slog.Error("internal error",
			"error", err,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"remote_addr", c.ClientIP(),
		)
	}
	c.AbortWithStatusJSON(apperr.HTTPStatus(kind), api.ErrorResponse{
		Success: false,
		Message: apperr.PublicMessage(err),
	})
}
