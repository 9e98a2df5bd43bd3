package session

import (
	"net/http"
	"time"
)

// Cookie names match the original deployment so existing sessions survive.
const (
	MagicCookieName   = "magic_token"
	SessionCookieName = "session_token"
)

const magicCookieTTL = 15 * time.Minute

// CookiePolicy derives cookie attributes for each token kind from
// configuration. Pure; no side effects.
type CookiePolicy struct {
	sessionTTL time.Duration
	secure     bool
}

func NewCookiePolicy(sessionTTLDays int, secure bool) *CookiePolicy {
	return &CookiePolicy{
		sessionTTL: time.Duration(sessionTTLDays) * 24 * time.Hour,
		secure:     secure,
	}
}

// ForMagic returns the cookie carrying a magic token: short-lived, HttpOnly,
// SameSite=Lax.
func (p *CookiePolicy) ForMagic(value string) *http.Cookie {
	return &http.Cookie{
		Name:     MagicCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(magicCookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   p.secure,
	}
}

// ForSession returns the cookie carrying a session token, with the
// configured day-denominated lifetime.
func (p *CookiePolicy) ForSession(value string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(p.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   p.secure,
	}
}

// Expired returns a session cookie that clears the browser copy on logout.
func (p *CookiePolicy) Expired() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   p.secure,
	}
}
