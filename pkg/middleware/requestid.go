package middleware

import (
	"github.com/Meesho/BharatMLStack/online-learner/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

// RequestID tags the request context with the caller's X-Request-Id, or a fresh uuid,
// so log lines emitted while serving the request carry it. The id is echoed back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Request = c.Request.WithContext(logger.WithPassID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
