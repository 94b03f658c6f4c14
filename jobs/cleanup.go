package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"coursehub_backend/metrics"

	"github.com/robfig/cron/v3"
)

type TokenPurger interface {
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler runs periodic maintenance tasks.
type Scheduler struct {
	cron   *cron.Cron
	store  TokenPurger
	log    *slog.Logger
	now    func() time.Time
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler registers the refresh token cleanup on the given cron spec
// ("@every 1h", "0 3 * * *").
func NewScheduler(store TokenPurger, spec string, log *slog.Logger) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:   cron.New(),
		store:  store,
		log:    log,
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
	if _, err := s.cron.AddFunc(spec, func() { _, _ = s.PurgeExpiredTokens(s.ctx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("token cleanup scheduler started", slog.Int("jobs", len(s.cron.Entries())))
}

// Stop cancels a running purge and waits for it to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

// PurgeExpiredTokens deletes refresh tokens past their expiry.
func (s *Scheduler) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpiredTokens(ctx, s.now())
	if err != nil {
		s.log.Error("failed to purge expired refresh tokens", slog.Any("error", err))
		return 0, err
	}
	metrics.ExpiredTokensPurged.Add(float64(n))
	if n > 0 {
		s.log.Info("purged expired refresh tokens", slog.Int64("count", n))
	}
	return n, nil
}
