package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ideauto/magicauth/internal/domain"
	"github.com/ideauto/magicauth/internal/repository"
)

// UserProvisioner idempotently resolves an email address to a durable user
// identity. It owns the only creation path for User records.
type UserProvisioner struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewUserProvisioner(users repository.UserRepository, logger *slog.Logger) *UserProvisioner {
	return &UserProvisioner{
		users:  users,
		logger: logger.With("component", "provisioner"),
	}
}

// FindOrCreate returns the user for email, creating it on first sight and
// refreshing updated_at (the "last seen" signal) on repeat sight.
//
// Two concurrent first-time requests can both miss the lookup; the unique
// email index lets only one insert through, and the loser re-reads the row
// the winner created.
func (p *UserProvisioner) FindOrCreate(ctx context.Context, email string, displayName *string) (*domain.User, error) {
	user, err := p.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		refreshed, err := p.users.TouchUpdatedAt(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("touch user: %w", err)
		}
		return refreshed, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	created, err := p.users.Create(ctx, uuid.NewString(), email, displayName)
	if err == nil {
		p.logger.InfoContext(ctx, "user created", "user_id", created.ID, "email", email)
		return created, nil
	}
	if !errors.Is(err, domain.ErrEmailTaken) {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Lost the creation race; the row exists now.
	user, err = p.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user after create conflict: %w", err)
	}
	refreshed, err := p.users.TouchUpdatedAt(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("touch user: %w", err)
	}
	return refreshed, nil
}

func (p *UserProvisioner) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return p.users.FindByID(ctx, id)
}

func (p *UserProvisioner) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return p.users.FindByEmail(ctx, email)
}
