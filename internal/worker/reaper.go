package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type StaleRequeuer interface {
	RequeueStale(ctx context.Context, olderThan time.Duration, maxPerLane int64) (int64, error)
}

// Reaper периодически возвращает зависшие jobs из processing обратно в queue
// (если воркер падал/перезапускался).
type Reaper struct {
	queue     StaleRequeuer
	interval  time.Duration
	olderThan time.Duration
	batch     int64
	log       zerolog.Logger
}

func NewReaper(q StaleRequeuer, olderThan time.Duration, logger zerolog.Logger) *Reaper {
	return &Reaper{
		queue:     q,
		interval:  30 * time.Second,
		olderThan: olderThan,
		batch:     100,
		log:       logger,
	}
}

func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	n, err := r.queue.RequeueStale(ctx, r.olderThan, r.batch)
	if err != nil {
		if ctx.Err() == nil {
			r.log.Error().Err(err).Msg("requeue stale claims")
		}
		return
	}
	if n > 0 {
		r.log.Info().Int64("requeued", n).Msg("requeued stale jobs from processing")
	}
}
