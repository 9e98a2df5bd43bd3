package identity_test

import (
	"context"
	"testing"

	"github.com/ideauto/magicauth/internal/domain"
	"github.com/ideauto/magicauth/internal/identity"
)

func TestFromContext_Absent(t *testing.T) {
	if _, ok := identity.FromContext(context.Background()); ok {
		t.Error("expected no identity on a fresh context")
	}
}

func TestWithIdentity_RoundTrip(t *testing.T) {
	want := domain.Identity{UserID: "user-1", Email: "alice@allowed.com", Active: true}

	ctx := identity.WithIdentity(context.Background(), want)

	got, ok := identity.FromContext(ctx)
	if !ok {
		t.Fatal("expected identity to be present")
	}
	if got != want {
		t.Errorf("identity = %+v, want %+v", got, want)
	}
}
