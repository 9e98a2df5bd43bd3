package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/ideauto/magicauth/internal/domain"
	"github.com/ideauto/magicauth/internal/email"
	"github.com/ideauto/magicauth/internal/metrics"
)

const emailSubject = "Tu acceso sin contraseña"

// magicIssuer is the subset of the token codec the issuer needs.
type magicIssuer interface {
	IssueMagic(email string) (string, error)
}

// MagicLinkIssuer validates a requested email against the domain allow-list,
// mints a magic token and delegates delivery.
type MagicLinkIssuer struct {
	codec          magicIssuer
	sender         email.Sender
	allowedDomains map[string]struct{}
	baseURL        string
	logger         *slog.Logger
}

func NewMagicLinkIssuer(codec magicIssuer, sender email.Sender, allowedDomains []string, baseURL string, logger *slog.Logger) *MagicLinkIssuer {
	set := make(map[string]struct{}, len(allowedDomains))
	for _, d := range allowedDomains {
		set[strings.ToLower(d)] = struct{}{}
	}
	return &MagicLinkIssuer{
		codec:          codec,
		sender:         sender,
		allowedDomains: set,
		baseURL:        strings.TrimRight(baseURL, "/"),
		logger:         logger.With("component", "magic_link_issuer"),
	}
}

// Request sends one magic-link email to addr. Addresses outside the
// allow-list (including malformed ones without an '@') are rejected before
// any token is minted or email sent.
func (i *MagicLinkIssuer) Request(ctx context.Context, addr string) error {
	d := emailDomain(addr)
	if _, ok := i.allowedDomains[d]; !ok {
		metrics.MagicLinksRequested.WithLabelValues("denied").Inc()
		return domain.ErrDomainNotAllowed
	}

	tok, err := i.codec.IssueMagic(addr)
	if err != nil {
		return fmt.Errorf("issue magic token: %w", err)
	}

	link := i.baseURL + "/auth/verify?token=" + url.QueryEscape(tok)
	text, html := magicLinkBody(link)
	if err := i.sender.Send(ctx, addr, emailSubject, text, html); err != nil {
		i.logger.ErrorContext(ctx, "magic link delivery failed", "error", err)
		metrics.MagicLinksRequested.WithLabelValues("delivery_error").Inc()
		// The raw token must never reach the caller through the error chain.
		return domain.ErrDeliveryFailed
	}

	metrics.MagicLinksRequested.WithLabelValues("sent").Inc()
	i.logger.InfoContext(ctx, "magic link sent", "to", addr)
	return nil
}

// emailDomain returns the lowercased part after the first '@', or "" when
// there is none.
func emailDomain(addr string) string {
	_, d, found := strings.Cut(addr, "@")
	if !found {
		return ""
	}
	return strings.ToLower(d)
}

func magicLinkBody(link string) (text, html string) {
	text = fmt.Sprintf(`Hola,

Hemos recibido una solicitud de acceso.

Para acceder sin contraseña, visita el siguiente enlace:
%s

IMPORTANTE:
- Este enlace expirará en 15 minutos
- Si no solicitaste este acceso, ignora este email
- Nunca compartas este enlace con nadie
`, link)

	html = fmt.Sprintf(`<p>Hola,</p>
<p>Hemos recibido una solicitud de acceso.</p>
<p>Para acceder sin contraseña, haz clic en el siguiente enlace (expira en <strong>15 minutos</strong>):</p>
<p><a href="%s">%s</a></p>
<p>Si no solicitaste este acceso, ignora este email. Nunca compartas este enlace con nadie.</p>
`, link, link)

	return text, html
}
