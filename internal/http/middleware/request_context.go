package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/homeboardhq/homeboard-backend/internal/pkg/ctxutil"
)

// AttachRequestContext stamps every request with an id so handler and
// service logs can be correlated.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
			RequestID: requestID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}
