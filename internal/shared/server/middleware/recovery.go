package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"record-attachments/internal/shared/server/respond"
	"record-attachments/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 envelope. The record and document
// the request was about are logged with the stack when handlers set them.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      rec,
				"stack":      string(debug.Stack()),
				"route":      c.FullPath(),
				"method":     c.Request.Method,
			}
			if ownerID := c.GetString("ownerId"); ownerID != "" {
				fields["owner_id"] = ownerID
			}
			if documentID := c.GetString("documentId"); documentID != "" {
				fields["document_id"] = documentID
			}
			telemetry.Error("panic", fields)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
