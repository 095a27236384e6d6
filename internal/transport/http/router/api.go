package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-auction-backend/internal/core/auth"
	"go-auction-backend/internal/domain"
	"go-auction-backend/internal/transport/http/handler"
	mdw "go-auction-backend/internal/transport/http/middleware"
)

// NewAPIEngine wires the middleware chain and mounts the user routes under
// /api/v1/user.
func NewAPIEngine(l *zap.Logger, h *handler.UserHandler, issuer *auth.TokenIssuer, repo domain.UserRepository) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.Recovery(l),
		mdw.Metrics(),
		accessLog(l),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	user := api.Group("/user")
	{
		user.POST("/register", h.Register)
		user.POST("/login", h.Login)
		user.GET("/leaderboard", h.Leaderboard)

		authed := user.Group("")
		authed.Use(mdw.AuthJWT(issuer, repo))
		authed.GET("/logout", h.Logout)
		authed.GET("/me", h.Profile)
	}

	return r
}

// accessLog is structured request logging with the request id attached.
func accessLog(l *zap.Logger) gin.HandlerFunc {
	return ginzap.GinzapWithConfig(l, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		Context: func(c *gin.Context) []zapcore.Field {
			return []zapcore.Field{zap.String("rid", c.GetString(mdw.KeyRequestID))}
		},
	})
}
