package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// WorkerTokenHeader carries the shared secret of internal callers such as the report worker.
const WorkerTokenHeader = "X-Worker-Token"

// WorkerTokenAuth admits requests presenting the shared worker token.
// An empty token rejects every request.
func WorkerTokenAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := c.GetHeader(WorkerTokenHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			GetLoggerFromCtx(c.Request.Context()).Warn("Worker token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid worker token"})
			return
		}
		c.Next()
	}
}
