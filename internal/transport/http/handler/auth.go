package handler

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

// Interfaces defined at point of use so tests can inject fakes.

type magicLinkIssuer interface {
	Request(ctx context.Context, email string) error
}

type authVerifier interface {
	VerifyMagicLink(ctx context.Context, rawToken string) (*domain.User, string, error)
}

type AuthHandler struct {
	issuer   magicLinkIssuer
	verifier authVerifier
	cookies  *session.CookiePolicy
	logger   *slog.Logger
}

func NewAuthHandler(issuer magicLinkIssuer, verifier authVerifier, cookies *session.CookiePolicy, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		issuer:   issuer,
		verifier: verifier,
		cookies:  cookies,
		logger:   logger.With("component", "auth_handler"),
	}
}

type magicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /auth/magic-link
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req magicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.issuer.Request(c.Request.Context(), req.Email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"sent": true})
	case errors.Is(err, domain.ErrDomainNotAllowed):
		c.JSON(http.StatusBadRequest, gin.H{"error": errDomainNotAllowed})
	case errors.Is(err, domain.ErrDeliveryFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": errDeliveryFailed})
	default:
		h.logger.ErrorContext(c.Request.Context(), "request magic link", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}

// GET /auth/verify?token=<magic token>
// Exchanges a magic token for a session cookie and the user's public fields.
func (h *AuthHandler) Verify(c *gin.Context) {
	user, sessionToken, err := h.verifier.VerifyMagicLink(c.Request.Context(), c.Query("token"))
	switch {
	case err == nil:
		http.SetCookie(c.Writer, h.cookies.ForSession(sessionToken))
		c.JSON(http.StatusOK, gin.H{"user": user.Public()})
	case errors.Is(err, domain.ErrMissingToken), errors.Is(err, domain.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"error": errLinkInvalid})
	default:
		h.logger.ErrorContext(c.Request.Context(), "verify magic link", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}

// GET /auth/me
// Runs behind RequireSession; the middleware already attached the identity.
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := identity.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNotAuthenticated})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": domain.PublicUser{
		ID:          id.UserID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		Active:      id.Active,
	}})
}

// POST /auth/logout
// Stateless sessions cannot be revoked; logout just clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, h.cookies.Expired())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /whoami
// Runs behind OptionalSession; reports the identity or null.
func (h *AuthHandler) WhoAmI(c *gin.Context) {
	id, ok := identity.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": domain.PublicUser{
		ID:          id.UserID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		Active:      id.Active,
	}})
}
