package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// KeyRequestID is both the header and the context key for the request id.
const KeyRequestID = "X-Request-ID"

// maxRequestIDLen guards against abusive inbound ids being echoed back.
const maxRequestIDLen = 64

// RequestID trusts a well-formed inbound id so upstream proxies can trace a
// request through, and mints a fresh one otherwise. The id is echoed in the
// response and attached to the access log.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(KeyRequestID)
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}
