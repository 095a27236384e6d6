package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-auction-backend/internal/transport/http/response"
)

// Recovery converts panics into the generic 500 envelope. The panic value
// goes to the log, never to the client.
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
					zap.String("rid", c.GetString(KeyRequestID)),
				)
				response.AbortFail(c, http.StatusInternalServerError, "Internal server error.")
			}
		}()
		c.Next()
	}
}
