// Package pipeline drives a content job through its three stages:
// analyze, optimize and vary.
//
// Each stage result is persisted before the next stage starts. A stage
// that fails marks the job failed and stops the pipeline; results of
// earlier stages are kept. A job that is picked up again (after a worker
// crash or redelivery) resumes at the first stage without a persisted
// result, so stored results are never recomputed or replaced.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"content-optimizer-service/internal/ai"
	"content-optimizer-service/internal/entity"
	"content-optimizer-service/internal/metrics"
	"content-optimizer-service/internal/normalize"
)

// Store is the persistence the orchestrator needs. Writes are guarded:
// they apply only to a job still in processing whose target stage is
// empty, and return entity.ErrConflict otherwise.
type Store interface {
	GetByID(ctx context.Context, id string) (*entity.ContentJob, error)
	SetAnalysis(ctx context.Context, id string, a *entity.AnalysisResult) error
	SetOptimization(ctx context.Context, id string, o *entity.OptimizationResult) error
	Complete(ctx context.Context, id string, v *entity.VariantResult, at time.Time) error
	Fail(ctx context.Context, id string, errText string, at time.Time) error
}

type Orchestrator struct {
	store Store
	gen   ai.Generator
	log   zerolog.Logger
	now   func() time.Time
}

func New(store Store, gen ai.Generator, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		store: store,
		gen:   gen,
		log:   logger.With().Str("component", "pipeline").Logger(),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Run executes the remaining stages of job id and returns the status the
// job ended in.
//
// A non-nil error with StatusFailed is the stage failure already recorded
// on the job. A non-nil error with StatusProcessing means the job could
// not be driven further (context cancelled, store unreachable, or another
// worker owns it) and is left for redelivery.
func (o *Orchestrator) Run(ctx context.Context, id string) (entity.JobStatus, error) {
	job, err := o.store.GetByID(ctx, id)
	if err != nil {
		return entity.StatusProcessing, fmt.Errorf("load job: %w", err)
	}
	if job.Status != entity.StatusProcessing {
		o.log.Debug().Str("job_id", id).Str("status", string(job.Status)).Msg("job already terminal, skipping")
		return job.Status, nil
	}

	content, err := normalize.Content(job.OriginalContent, job.Format)
	if err != nil {
		return o.fail(ctx, job.ID, "analyze", fmt.Errorf("Content normalization failed: %w", err))
	}

	if job.Analysis == nil {
		start := time.Now()
		analysis, err := o.analyze(ctx, job, content)
		if err != nil {
			return o.fail(ctx, job.ID, "analyze", err)
		}
		if err := o.store.SetAnalysis(ctx, job.ID, analysis); err != nil {
			return o.fail(ctx, job.ID, "analyze", fmt.Errorf("persist analysis: %w", err))
		}
		job.Analysis = analysis
		o.stageDone(job.ID, "analyze", start)
	}

	if job.Optimization == nil {
		start := time.Now()
		optimization, err := o.optimize(ctx, job, content)
		if err != nil {
			return o.fail(ctx, job.ID, "optimize", err)
		}
		if err := o.store.SetOptimization(ctx, job.ID, optimization); err != nil {
			return o.fail(ctx, job.ID, "optimize", fmt.Errorf("persist optimization: %w", err))
		}
		job.Optimization = optimization
		o.stageDone(job.ID, "optimize", start)
	}

	start := time.Now()
	variants, err := o.vary(ctx, job)
	if err != nil {
		return o.fail(ctx, job.ID, "vary", err)
	}
	if err := o.store.Complete(ctx, job.ID, variants, o.now()); err != nil {
		return o.fail(ctx, job.ID, "vary", fmt.Errorf("persist variants: %w", err))
	}
	o.stageDone(job.ID, "vary", start)

	return entity.StatusCompleted, nil
}

// analyze never fails on a generator error: tone and suggestions fall
// back to fixed values and the metrics are kept.
func (o *Orchestrator) analyze(ctx context.Context, job *entity.ContentJob, content string) (*entity.AnalysisResult, error) {
	result := &entity.AnalysisResult{
		ReadabilityScore: metrics.Round2(metrics.Readability(content)),
		SEOScore:         metrics.Round2(metrics.SEOScore(content, job.Title)),
		KeywordDensity:   metrics.KeywordDensity(content),
		WordCount:        metrics.WordCount(content),
		SentenceCount:    metrics.SentenceCount(content),
	}

	response, err := o.gen.Generate(ctx, analyzePrompt(job.Title, content, job.ContentType))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		o.log.Warn().Err(err).Str("job_id", job.ID).Str("stage", "analyze").Msg("ai analysis unavailable, using fallback")
		result.Tone = unavailableTone
		result.Suggestions = cloneStrings(fallbackAdvice)
		return result, nil
	}

	result.Tone, result.Suggestions = parseAnalysis(response)
	return result, nil
}

func (o *Orchestrator) optimize(ctx context.Context, job *entity.ContentJob, content string) (*entity.OptimizationResult, error) {
	response, err := o.gen.Generate(ctx, optimizePrompt(job.Title, content, job.ContentType, job.Analysis))
	if err != nil {
		return nil, fmt.Errorf("Optimization failed: %w", err)
	}
	return &entity.OptimizationResult{
		OptimizedContent: strings.TrimSpace(response),
		Improvements:     cloneStrings(improvements),
	}, nil
}

func (o *Orchestrator) vary(ctx context.Context, job *entity.ContentJob) (*entity.VariantResult, error) {
	optimized := job.Optimization.OptimizedContent

	response, err := o.gen.Generate(ctx, varyPrompt(job.Title, optimized, job.ContentType))
	if err != nil {
		return nil, fmt.Errorf("Variant generation failed: %w", err)
	}

	a, b := parseVariants(response, optimized)
	return &entity.VariantResult{
		VariantA:    a,
		VariantB:    b,
		Differences: cloneStrings(differences),
	}, nil
}

// fail records stageErr on the job unless the job cannot be failed from
// here: a cancelled context or a lost guarded write leave the job as it is.
func (o *Orchestrator) fail(ctx context.Context, id, stage string, stageErr error) (entity.JobStatus, error) {
	logger := o.log.With().Str("job_id", id).Str("stage", stage).Logger()

	if ctx.Err() != nil {
		logger.Warn().Err(stageErr).Msg("pipeline interrupted, job left for redelivery")
		return entity.StatusProcessing, fmt.Errorf("%s: %w", stage, ctx.Err())
	}
	if errors.Is(stageErr, entity.ErrConflict) {
		logger.Warn().Err(stageErr).Msg("job changed concurrently, stopping")
		return entity.StatusProcessing, stageErr
	}

	if err := o.store.Fail(ctx, id, stageErr.Error(), o.now()); err != nil {
		logger.Error().Err(err).AnErr("stage_error", stageErr).Msg("record failure")
		return entity.StatusProcessing, errors.Join(stageErr, fmt.Errorf("record failure: %w", err))
	}

	logger.Error().Err(stageErr).Str("status", string(entity.StatusFailed)).Msg("stage failed")
	return entity.StatusFailed, stageErr
}

func (o *Orchestrator) stageDone(id, stage string, start time.Time) {
	o.log.Info().
		Str("job_id", id).
		Str("stage", stage).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("stage persisted")
}
