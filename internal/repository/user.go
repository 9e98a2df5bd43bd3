package repository

import (
	"context"
	"time"

	"github.com/ideauto/magicauth/internal/domain"
)

// UserRepository is the persistence capability for User records. Create must
// enforce email uniqueness and return domain.ErrEmailTaken on conflict;
// lookups return domain.ErrUserNotFound when no row matches.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, id, email string, displayName *string) (*domain.User, error)
	TouchUpdatedAt(ctx context.Context, id string) (*domain.User, error)
}

// ConsumedTokenStore records magic-token JTIs that have already been
// exchanged for a session, making each link single-use.
type ConsumedTokenStore interface {
	// Consume marks jti as used. Returns domain.ErrTokenInvalid when the JTI
	// was already consumed.
	Consume(ctx context.Context, jti string, expiresAt time.Time) error
	// DeleteExpired removes records whose token expiry has passed and
	// reports how many were purged.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
