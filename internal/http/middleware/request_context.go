package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AttachRequestContext stamps every request with an id for log correlation,
// echoed back to the client on the response.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}
