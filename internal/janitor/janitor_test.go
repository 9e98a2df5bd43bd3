package janitor_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ideauto/magicauth/internal/janitor"
)

type fakeStore struct {
	deleted int64
	err     error
	calls   int
}

func (s *fakeStore) Consume(_ context.Context, _ string, _ time.Time) error { return nil }

func (s *fakeStore) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	s.calls++
	return s.deleted, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestPurge_DeletesExpiredRecords(t *testing.T) {
	store := &fakeStore{deleted: 3}
	j := janitor.New(store, "@every 1h", testLogger())

	j.Purge(context.Background())

	if store.calls != 1 {
		t.Errorf("DeleteExpired called %d times, want 1", store.calls)
	}
}

func TestPurge_StoreError_DoesNotPanic(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	j := janitor.New(store, "@every 1h", testLogger())

	j.Purge(context.Background())

	if store.calls != 1 {
		t.Errorf("DeleteExpired called %d times, want 1", store.calls)
	}
}

func TestStart_InvalidSpec_ReturnsError(t *testing.T) {
	j := janitor.New(&fakeStore{}, "not a cron spec", testLogger())

	if err := j.Start(context.Background()); err == nil {
		t.Error("expected an error for an invalid schedule spec")
	}
}

func TestStartStop_RunsCleanly(t *testing.T) {
	j := janitor.New(&fakeStore{}, "@every 1h", testLogger())

	if err := j.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	j.Stop()
}
