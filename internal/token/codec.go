package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ideauto/magicauth/internal/domain"
)

// Token kinds. A single secret signs both; the kind claim is the only thing
// preventing a magic token from being replayed as a session token, so it is
// checked before any other claim is trusted.
const (
	KindMagic   = "magic"
	KindSession = "session"
)

const magicTTL = 15 * time.Minute

// MagicClaims is the payload of a magic-link token. The JTI backs the
// single-use guard.
type MagicClaims struct {
	Email string `json:"email"`
	Kind  string `json:"kind"`
	jwt.RegisteredClaims
}

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	Email string `json:"email"`
	Kind  string `json:"kind"`
	jwt.RegisteredClaims
}

// Codec is the only component that produces or accepts raw token strings.
type Codec struct {
	secret     []byte
	sessionTTL time.Duration
	now        func() time.Time
}

func NewCodec(secret []byte, sessionTTLDays int) *Codec {
	return &Codec{
		secret:     secret,
		sessionTTL: time.Duration(sessionTTLDays) * 24 * time.Hour,
		now:        time.Now,
	}
}

// IssueMagic signs a short-lived magic token for email.
func (c *Codec) IssueMagic(email string) (string, error) {
	now := c.now()
	claims := MagicClaims{
		Email: email,
		Kind:  KindMagic,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(magicTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign magic token: %w", err)
	}
	return signed, nil
}

// IssueSession signs a session token for an established user.
func (c *Codec) IssueSession(userID, email string) (string, error) {
	now := c.now()
	claims := SessionClaims{
		Email: email,
		Kind:  KindSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.sessionTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// VerifyMagic parses and validates a magic token. Malformed, badly signed or
// expired tokens yield ErrTokenInvalid; a validly-signed token of the other
// kind yields ErrWrongTokenKind.
func (c *Codec) VerifyMagic(raw string) (*MagicClaims, error) {
	claims := &MagicClaims{}
	if err := c.parse(raw, claims); err != nil {
		return nil, err
	}
	if claims.Kind != KindMagic {
		return nil, domain.ErrWrongTokenKind
	}
	if claims.Email == "" {
		return nil, domain.ErrIncompleteClaims
	}
	return claims, nil
}

// VerifySession parses and validates a session token. A validly-signed token
// missing the user ID or email yields ErrIncompleteClaims.
func (c *Codec) VerifySession(raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := c.parse(raw, claims); err != nil {
		return nil, err
	}
	if claims.Kind != KindSession {
		return nil, domain.ErrWrongTokenKind
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, domain.ErrIncompleteClaims
	}
	return claims, nil
}

func (c *Codec) parse(raw string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now() }), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return domain.ErrTokenInvalid
	}
	return nil
}
