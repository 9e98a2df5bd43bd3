package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ideauto/magicauth/internal/domain"
)

const testSecret = "codec-test-secret-at-least-32-chars!"

func newTestCodec() *Codec {
	return NewCodec([]byte(testSecret), 7)
}

// ---- magic tokens ----

func TestIssueMagic_VerifyMagic_RoundTrip(t *testing.T) {
	c := newTestCodec()

	raw, err := c.IssueMagic("alice@allowed.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := c.VerifyMagic(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Email != "alice@allowed.com" {
		t.Errorf("email = %q, want alice@allowed.com", claims.Email)
	}
	if claims.ID == "" {
		t.Error("magic token has no JTI")
	}
}

func TestVerifyMagic_ExpiredToken_Invalid(t *testing.T) {
	c := newTestCodec()

	raw, err := c.IssueMagic("alice@allowed.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Move the clock past the 15-minute window.
	c.now = func() time.Time { return time.Now().Add(16 * time.Minute) }

	if _, err := c.VerifyMagic(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyMagic_JustInsideWindow_Valid(t *testing.T) {
	c := newTestCodec()

	raw, err := c.IssueMagic("alice@allowed.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c.now = func() time.Time { return time.Now().Add(14 * time.Minute) }

	if _, err := c.VerifyMagic(raw); err != nil {
		t.Errorf("verify at 14m: %v", err)
	}
}

func TestVerifyMagic_WrongSecret_Invalid(t *testing.T) {
	other := NewCodec([]byte("another-secret-that-is-32-chars-long!"), 7)
	raw, err := other.IssueMagic("alice@allowed.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := newTestCodec().VerifyMagic(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyMagic_Garbage_Invalid(t *testing.T) {
	if _, err := newTestCodec().VerifyMagic("not.a.jwt"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyMagic_SessionToken_WrongKind(t *testing.T) {
	c := newTestCodec()

	raw, err := c.IssueSession("user-1", "alice@allowed.com")
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	if _, err := c.VerifyMagic(raw); !errors.Is(err, domain.ErrWrongTokenKind) {
		t.Errorf("err = %v, want ErrWrongTokenKind", err)
	}
}

// ---- session tokens ----

func TestIssueSession_VerifySession_RoundTrip(t *testing.T) {
	c := newTestCodec()

	raw, err := c.IssueSession("user-1", "alice@allowed.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := c.VerifySession(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("sub = %q, want user-1", claims.Subject)
	}
	if claims.Email != "alice@allowed.com" {
		t.Errorf("email = %q, want alice@allowed.com", claims.Email)
	}
}

func TestVerifySession_MagicToken_WrongKind(t *testing.T) {
	c := newTestCodec()

	raw, err := c.IssueMagic("alice@allowed.com")
	if err != nil {
		t.Fatalf("issue magic: %v", err)
	}

	if _, err := c.VerifySession(raw); !errors.Is(err, domain.ErrWrongTokenKind) {
		t.Errorf("err = %v, want ErrWrongTokenKind", err)
	}
}

func TestVerifySession_MissingSubject_IncompleteClaims(t *testing.T) {
	c := newTestCodec()

	// Validly signed session token with no subject claim.
	now := time.Now()
	claims := SessionClaims{
		Email: "alice@allowed.com",
		Kind:  KindSession,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := c.VerifySession(raw); !errors.Is(err, domain.ErrIncompleteClaims) {
		t.Errorf("err = %v, want ErrIncompleteClaims", err)
	}
}

func TestVerifySession_MissingEmail_IncompleteClaims(t *testing.T) {
	c := newTestCodec()

	now := time.Now()
	claims := SessionClaims{
		Kind: KindSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := c.VerifySession(raw); !errors.Is(err, domain.ErrIncompleteClaims) {
		t.Errorf("err = %v, want ErrIncompleteClaims", err)
	}
}

func TestVerifySession_ExpiredAfterConfiguredDays(t *testing.T) {
	c := NewCodec([]byte(testSecret), 7)

	raw, err := c.IssueSession("user-1", "alice@allowed.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	if _, err := c.VerifySession(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifySession_NoneAlgorithm_Rejected(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":   "user-1",
		"email": "alice@allowed.com",
		"kind":  KindSession,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := newTestCodec().VerifySession(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}
