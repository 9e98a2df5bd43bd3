package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ideauto/magicauth/internal/transport/http/handler"
	"github.com/ideauto/magicauth/internal/transport/http/middleware"
	"github.com/ideauto/magicauth/internal/usecase"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, verifier *usecase.AuthVerifier) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	requireSession := middleware.RequireSession(verifier, logger)
	optionalSession := middleware.OptionalSession(verifier)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
	})

	auth := r.Group("/auth")
	auth.POST("/magic-link", authHandler.RequestMagicLink)
	auth.GET("/verify", authHandler.Verify)
	auth.GET("/me", requireSession, authHandler.Me)
	auth.POST("/logout", authHandler.Logout)

	r.GET("/whoami", optionalSession, authHandler.WhoAmI)

	return r
}
