package janitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ideauto/magicauth/internal/metrics"
	"github.com/ideauto/magicauth/internal/repository"
)

// Janitor periodically purges consumed-token records whose magic token has
// expired; once a token can no longer verify, its replay guard row is noise.
type Janitor struct {
	store  repository.ConsumedTokenStore
	cron   *cron.Cron
	spec   string
	logger *slog.Logger
}

func New(store repository.ConsumedTokenStore, spec string, logger *slog.Logger) *Janitor {
	return &Janitor{
		store:  store,
		cron:   cron.New(),
		spec:   spec,
		logger: logger.With("component", "janitor"),
	}
}

// Start schedules the purge and runs until Stop is called.
func (j *Janitor) Start(ctx context.Context) error {
	_, err := j.cron.AddFunc(j.spec, func() { j.Purge(ctx) })
	if err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("janitor started", "spec", j.spec)
	return nil
}

// Stop halts the schedule and waits for an in-flight purge to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

// Purge runs one cleanup cycle. Called on the cron schedule; exported so a
// cycle can also be triggered directly.
func (j *Janitor) Purge(ctx context.Context) {
	purgeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := j.store.DeleteExpired(purgeCtx, time.Now())
	if err != nil {
		j.logger.ErrorContext(purgeCtx, "purge consumed tokens", "error", err)
		return
	}
	if n > 0 {
		metrics.JanitorPurged.Add(float64(n))
		j.logger.InfoContext(purgeCtx, "purged consumed tokens", "count", n)
	}
}
