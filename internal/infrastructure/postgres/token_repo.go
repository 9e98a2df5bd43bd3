package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ideauto/magicauth/internal/domain"
)

// ConsumedTokenRepository backs the magic-link single-use guard. A JTI is
// inserted exactly once; the second insert hits the primary key and the link
// is rejected as already used.
type ConsumedTokenRepository struct {
	pool *pgxpool.Pool
}

func NewConsumedTokenRepository(pool *pgxpool.Pool) *ConsumedTokenRepository {
	return &ConsumedTokenRepository{pool: pool}
}

func (r *ConsumedTokenRepository) Consume(ctx context.Context, jti string, expiresAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO consumed_magic_tokens (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING`,
		jti, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("consume magic token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTokenInvalid
	}
	return nil
}

// DeleteExpired purges records for tokens that can no longer verify anyway.
func (r *ConsumedTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM consumed_magic_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
