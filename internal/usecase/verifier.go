package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ideauto/magicauth/internal/domain"
	"github.com/ideauto/magicauth/internal/metrics"
	"github.com/ideauto/magicauth/internal/repository"
	"github.com/ideauto/magicauth/internal/token"
)

// sessionCodec is the subset of the token codec the verifier needs.
type sessionCodec interface {
	VerifyMagic(raw string) (*token.MagicClaims, error)
	IssueSession(userID, email string) (string, error)
	VerifySession(raw string) (*token.SessionClaims, error)
}

// AuthVerifier exchanges magic tokens for sessions and validates session
// tokens on subsequent requests. It borrows user records and token strings
// transiently; it owns no state of its own.
type AuthVerifier struct {
	codec       sessionCodec
	provisioner *UserProvisioner
	consumed    repository.ConsumedTokenStore
	logger      *slog.Logger
}

func NewAuthVerifier(codec sessionCodec, provisioner *UserProvisioner, consumed repository.ConsumedTokenStore, logger *slog.Logger) *AuthVerifier {
	return &AuthVerifier{
		codec:       codec,
		provisioner: provisioner,
		consumed:    consumed,
		logger:      logger.With("component", "auth_verifier"),
	}
}

// VerifyMagicLink consumes a magic token and materializes a session:
// verify the token, burn its JTI so the link is single-use, resolve or
// create the user, and mint the session token the caller sets as a cookie.
func (v *AuthVerifier) VerifyMagicLink(ctx context.Context, rawToken string) (*domain.User, string, error) {
	if rawToken == "" {
		return nil, "", domain.ErrMissingToken
	}

	claims, err := v.codec.VerifyMagic(rawToken)
	if err != nil {
		v.logger.WarnContext(ctx, "magic token rejected", "reason", err)
		metrics.Verifications.WithLabelValues("rejected").Inc()
		return nil, "", domain.ErrTokenInvalid
	}

	if err := v.consumed.Consume(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			v.logger.WarnContext(ctx, "magic token replayed", "jti", claims.ID)
			metrics.Verifications.WithLabelValues("replayed").Inc()
			return nil, "", domain.ErrTokenInvalid
		}
		return nil, "", fmt.Errorf("consume magic token: %w", err)
	}

	user, err := v.provisioner.FindOrCreate(ctx, claims.Email, nil)
	if err != nil {
		return nil, "", fmt.Errorf("provision user: %w", err)
	}

	sessionToken, err := v.codec.IssueSession(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}

	metrics.Verifications.WithLabelValues("ok").Inc()
	metrics.SessionsIssued.Inc()
	return user, sessionToken, nil
}

// CurrentUser validates a session token and resolves it back to an identity.
// Every failure collapses to ErrUnauthenticated; the cause is only logged.
// Unlike the magic-link path, it does not refresh updated_at.
func (v *AuthVerifier) CurrentUser(ctx context.Context, rawToken string) (domain.Identity, error) {
	if rawToken == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	claims, err := v.codec.VerifySession(rawToken)
	if err != nil {
		v.logger.WarnContext(ctx, "session token rejected", "reason", err)
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	user, err := v.provisioner.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Account deleted after the token was issued.
			return domain.Identity{}, domain.ErrUnauthenticated
		}
		return domain.Identity{}, fmt.Errorf("find user: %w", err)
	}

	return user.Identity(), nil
}
