package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-auction-backend/internal/core/auth"
	"go-auction-backend/internal/domain"
	"go-auction-backend/internal/transport/http/response"
)

// KeyCurrentUser is where the authenticated *domain.User lives on the
// request context once AuthJWT has run.
const KeyCurrentUser = "currentUser"

// AuthJWT resolves the caller from the session cookie (or a bearer header),
// loads the user record and makes it available to handlers. Requests with
// no usable session never reach the handler.
func AuthJWT(issuer *auth.TokenIssuer, repo domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			response.AbortFail(c, http.StatusUnauthorized, "User not authenticated.")
			return
		}
		claims, err := issuer.Parse(token)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, "Invalid or expired session token.")
			return
		}
		user, err := repo.FindByID(c.Request.Context(), claims.UID)
		if err != nil {
			response.AbortFail(c, http.StatusInternalServerError, "Internal server error.")
			return
		}
		if user == nil {
			response.AbortFail(c, http.StatusUnauthorized, "User not authenticated.")
			return
		}
		c.Set(KeyCurrentUser, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by AuthJWT.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(KeyCurrentUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(auth.CookieName); err == nil && cookie != "" {
		return cookie
	}
	if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
		return strings.TrimPrefix(ah, "Bearer ")
	}
	return ""
}
