package session

import (
	"net/http"
	"testing"
)

func TestForMagic_Attributes(t *testing.T) {
	p := NewCookiePolicy(7, false)

	c := p.ForMagic("tok")
	if c.Name != MagicCookieName {
		t.Errorf("name = %q, want %q", c.Name, MagicCookieName)
	}
	if c.MaxAge != 15*60 {
		t.Errorf("maxAge = %d, want %d", c.MaxAge, 15*60)
	}
	if !c.HttpOnly {
		t.Error("magic cookie must be HttpOnly")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("sameSite = %v, want Lax", c.SameSite)
	}
	if c.Secure {
		t.Error("secure should follow config (false)")
	}
}

func TestForSession_LifetimeFollowsConfiguredDays(t *testing.T) {
	p := NewCookiePolicy(7, true)

	c := p.ForSession("tok")
	if c.Name != SessionCookieName {
		t.Errorf("name = %q, want %q", c.Name, SessionCookieName)
	}
	if want := 7 * 24 * 60 * 60; c.MaxAge != want {
		t.Errorf("maxAge = %d, want %d", c.MaxAge, want)
	}
	if !c.Secure {
		t.Error("secure should follow config (true)")
	}
	if !c.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
}

func TestExpired_ClearsSessionCookie(t *testing.T) {
	p := NewCookiePolicy(7, false)

	c := p.Expired()
	if c.Name != SessionCookieName {
		t.Errorf("name = %q, want %q", c.Name, SessionCookieName)
	}
	if c.MaxAge >= 0 {
		t.Errorf("maxAge = %d, want negative", c.MaxAge)
	}
	if c.Value != "" {
		t.Errorf("value = %q, want empty", c.Value)
	}
}
