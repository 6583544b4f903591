package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const DefaultSweepInterval = 24 * time.Hour

// Sweeper runs the retention sweep on a schedule. It is advisory: a failed
// sweep is logged and retried on the next tick, and it holds no lock that
// could block appends or queries.
type Sweeper struct {
	store    Store
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSweeper(store Store, logger *slog.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		store:    store,
		logger:   logger.With("component", "sweeper"),
		interval: interval,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Sweeper) Start() {
	s.wg.Add(1)
	go s.loop()
}

func (s *Sweeper) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Sweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(s.ctx); err != nil {
				s.logger.Warn("retention sweep failed", "error", err)
			}
		}
	}
}

// Sweep deletes events older than the retention period and idle session
// records, returning the number of events removed.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-RetentionPeriod).UnixMilli()

	started := s.now()
	removed, err := s.store.Cleanup(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	s.logger.Info("retention sweep complete",
		"removed_events", removed,
		"duration", s.now().Sub(started).String())
	return removed, nil
}
