package domain

import (
	"errors"
	"time"
)

var (
	// Issuance failures.
	ErrDomainNotAllowed = errors.New("email domain is not allowed")
	ErrDeliveryFailed   = errors.New("magic link email could not be delivered")

	// Token failures. The transport collapses all of these into one coarse
	// client-facing message; they stay distinct internally for diagnostics.
	ErrMissingToken     = errors.New("token is missing")
	ErrTokenInvalid     = errors.New("token is invalid or expired")
	ErrWrongTokenKind   = errors.New("token kind does not match the expected kind")
	ErrIncompleteClaims = errors.New("token is missing required claims")

	// Session failures.
	ErrUnauthenticated = errors.New("not authenticated")

	// Storage failures.
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email is already registered")
)

// User is the durable account record. An email determines at most one User;
// ID is immutable once assigned. UpdatedAt doubles as a "last seen" signal,
// refreshed on every successful magic-link authentication.
type User struct {
	ID          string
	Email       string
	DisplayName *string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PublicUser is the outward-facing shape of a User. It never carries raw
// tokens or anything derived from the signing secret.
type PublicUser struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName *string `json:"displayName"`
	Active      bool    `json:"active"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Active:      u.Active,
	}
}

// Identity is the request-scoped result of a successful session
// verification. It lives only for one request and is never persisted.
type Identity struct {
	UserID      string
	Email       string
	DisplayName *string
	Active      bool
}

func (u *User) Identity() Identity {
	return Identity{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Active:      u.Active,
	}
}
