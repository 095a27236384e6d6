// Package response defines the wire envelope shared by every endpoint:
// {"success": bool, "message": string, ...extras}.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-auction-backend/internal/apperr"
)

func OK(c *gin.Context, status int, message string, extras gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range extras {
		body[k] = v
	}
	c.JSON(status, body)
}

// Fail writes an error envelope with the given status.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// AbortFail is Fail plus aborting the middleware chain.
func AbortFail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// Error maps a service error onto the envelope. Anything that is not an
// *apperr.Error becomes a generic 500 so internals never leak.
func Error(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		Fail(c, ae.Status, ae.Message)
		return
	}
	Fail(c, http.StatusInternalServerError, "Internal server error.")
}
