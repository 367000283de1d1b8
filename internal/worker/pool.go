package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"content-optimizer-service/internal/entity"
	"content-optimizer-service/internal/queue"
)

// Queue is the consumer side of a job queue (queue.RedisPriorityQueue, queue.LocalQueue).
type Queue interface {
	Claim(ctx context.Context, timeout time.Duration) (string, error)
	Ack(ctx context.Context, jobID string) error
}

type Pool struct {
	queue      Queue
	processor  *Processor
	workers    int
	claimDelay time.Duration
	log        zerolog.Logger
}

func NewPool(q Queue, processor *Processor, workers int, logger zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = 4
	}
	return &Pool{
		queue:      q,
		processor:  processor,
		workers:    workers,
		claimDelay: 5 * time.Second,
		log:        logger,
	}
}

// Run claims job ids and fans them out to the workers until ctx is done.
// It returns after every in-flight job has returned.
func (p *Pool) Run(ctx context.Context) {
	p.log.Info().Int("workers", p.workers).Msg("worker pool started")

	jobCh := make(chan string)
	var wg sync.WaitGroup

	// N воркеров
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger := p.log.With().Int("worker", n).Logger()
			for jobID := range jobCh {
				p.handle(ctx, logger, jobID)
			}
		}(i + 1)
	}

	// Listener: claim from queue -> workers
	for {
		jobID, err := p.queue.Claim(ctx, p.claimDelay)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if !errors.Is(err, queue.ErrEmpty) {
				p.log.Warn().Err(err).Msg("claim failed")
				sleep(ctx, time.Second)
			}
			continue
		}

		select {
		case jobCh <- jobID:
			continue
		case <-ctx.Done():
		}
		break
	}

	close(jobCh)
	wg.Wait()
	p.log.Info().Msg("worker pool stopped")
}

func (p *Pool) handle(ctx context.Context, logger zerolog.Logger, jobID string) {
	status, err := p.processor.Process(ctx, jobID)

	// Job остался в processing (остановка или сбой хранилища): не делаем ack,
	// reaper вернёт id в очередь. Удалённый или чужой job подтверждаем.
	if status == entity.StatusProcessing && err != nil &&
		!errors.Is(err, entity.ErrNotFound) && !errors.Is(err, entity.ErrConflict) {
		logger.Warn().Str("job_id", jobID).Msg("job left unacked for redelivery")
		return
	}

	// ack uses a fresh context so a shutdown does not strand finished jobs
	ackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if ackErr := p.queue.Ack(ackCtx, jobID); ackErr != nil {
		logger.Error().Err(ackErr).Str("job_id", jobID).Msg("ack failed")
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
