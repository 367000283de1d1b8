package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"content-optimizer-service/internal/entity"
)

// Runner drives one job through its pipeline (implementation: pipeline.Orchestrator).
type Runner interface {
	Run(ctx context.Context, jobID string) (entity.JobStatus, error)
}

type Processor struct {
	runner Runner
	log    zerolog.Logger
}

func NewProcessor(runner Runner, logger zerolog.Logger) *Processor {
	return &Processor{runner: runner, log: logger}
}

// Process runs the pipeline for jobID and logs the outcome. The returned
// status is the job's status afterwards; processing means it was left
// unfinished.
func (p *Processor) Process(ctx context.Context, jobID string) (entity.JobStatus, error) {
	start := time.Now()
	p.log.Info().Str("job_id", jobID).Str("status", string(entity.StatusProcessing)).Msg("job started")

	status, err := p.runner.Run(ctx, jobID)

	ev := p.log.Info()
	if err != nil {
		ev = p.log.Error().Err(err)
	}
	ev.Str("job_id", jobID).
		Str("status", string(status)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("job finished")

	return status, err
}
