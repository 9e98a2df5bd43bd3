package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ideauto/magicauth/internal/domain"
	"github.com/ideauto/magicauth/internal/identity"
	"github.com/ideauto/magicauth/internal/session"
)

const errNotAuthenticated = "Not authenticated"

// sessionVerifier is the subset of AuthVerifier the middleware needs.
type sessionVerifier interface {
	CurrentUser(ctx context.Context, rawToken string) (domain.Identity, error)
}

// RequireSession reads the session cookie, verifies it and attaches the
// identity to the request context. Any failure ends the request with 401.
func RequireSession(verifier sessionVerifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(session.SessionCookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errNotAuthenticated})
			return
		}

		id, err := verifier.CurrentUser(c.Request.Context(), raw)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthenticated) {
				logger.ErrorContext(c.Request.Context(), "session verification", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					gin.H{"error": "Internal server error"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errNotAuthenticated})
			return
		}

		c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// OptionalSession attaches an identity when a valid session cookie is
// present and silently continues anonymously otherwise. For endpoints that
// behave differently for signed-in callers but never require it.
func OptionalSession(verifier sessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(session.SessionCookieName)
		if err == nil {
			if id, verr := verifier.CurrentUser(c.Request.Context(), raw); verr == nil {
				c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), id))
			}
		}
		c.Next()
	}
}
