package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-auction-backend/internal/transport/http/response"
)

// MaxBodyBytes bounds the request body; oversized uploads fail the read.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
		if c.Err() != nil && !c.Writer.Written() {
			response.AbortFail(c, http.StatusBadRequest, "Request body too large.")
		}
	}
}
