// Package memory keeps content jobs in process memory. It backs local
// development and tests when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"content-optimizer-service/internal/entity"
)

type JobRepository struct {
	mu   sync.RWMutex
	jobs map[string]*entity.ContentJob
}

func NewJobRepository() *JobRepository {
	return &JobRepository{jobs: make(map[string]*entity.ContentJob)}
}

func (r *JobRepository) Create(_ context.Context, job *entity.ContentJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[job.ID]; exists {
		return entity.ErrConflict
	}
	r.jobs[job.ID] = cloneJob(job)
	return nil
}

func (r *JobRepository) GetByID(_ context.Context, id string) (*entity.ContentJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return cloneJob(job), nil
}

func (r *JobRepository) List(_ context.Context, filter entity.ListFilter) ([]entity.ContentJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]entity.ContentJob, 0, len(r.jobs))
	for _, job := range r.jobs {
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		items = append(items, *cloneJob(job))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (r *JobRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *JobRepository) SetAnalysis(_ context.Context, id string, a *entity.AnalysisResult) error {
	return r.update(id, func(job *entity.ContentJob) bool {
		if job.Analysis != nil {
			return false
		}
		job.Analysis = a
		return true
	})
}

func (r *JobRepository) SetOptimization(_ context.Context, id string, o *entity.OptimizationResult) error {
	return r.update(id, func(job *entity.ContentJob) bool {
		if job.Analysis == nil || job.Optimization != nil {
			return false
		}
		job.Optimization = o
		return true
	})
}

func (r *JobRepository) Complete(_ context.Context, id string, v *entity.VariantResult, at time.Time) error {
	return r.update(id, func(job *entity.ContentJob) bool {
		if job.Optimization == nil || job.Variants != nil {
			return false
		}
		job.Variants = v
		job.Status = entity.StatusCompleted
		job.CompletedAt = &at
		return true
	})
}

func (r *JobRepository) Fail(_ context.Context, id string, errText string, at time.Time) error {
	return r.update(id, func(job *entity.ContentJob) bool {
		job.Status = entity.StatusFailed
		job.Error = &errText
		job.CompletedAt = &at
		return true
	})
}

func (r *JobRepository) Stats(_ context.Context, sample int) (entity.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		stats     entity.Stats
		completed []*entity.ContentJob
	)
	for _, job := range r.jobs {
		stats.TotalJobs++
		switch job.Status {
		case entity.StatusCompleted:
			stats.CompletedJobs++
			completed = append(completed, job)
		case entity.StatusProcessing:
			stats.ProcessingJobs++
		case entity.StatusFailed:
			stats.FailedJobs++
		}
	}

	sort.Slice(completed, func(i, j int) bool {
		return completed[i].CreatedAt.After(completed[j].CreatedAt)
	})
	if sample > 0 && len(completed) > sample {
		completed = completed[:sample]
	}

	var readability, seo float64
	var n int
	for _, job := range completed {
		if job.Analysis == nil {
			continue
		}
		readability += job.Analysis.ReadabilityScore
		seo += job.Analysis.SEOScore
		n++
	}
	if n > 0 {
		stats.AvgReadabilityScore = readability / float64(n)
		stats.AvgSEOScore = seo / float64(n)
	}
	return stats, nil
}

// update applies fn to a processing job under the write lock.
// fn returns false when its stage guard does not hold.
func (r *JobRepository) update(id string, fn func(job *entity.ContentJob) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.jobs[id]
	if !ok {
		return entity.ErrNotFound
	}
	if stored.Status != entity.StatusProcessing {
		return entity.ErrConflict
	}

	job := cloneJob(stored)
	if !fn(job) {
		return entity.ErrConflict
	}
	r.jobs[id] = job
	return nil
}

func cloneJob(job *entity.ContentJob) *entity.ContentJob {
	if job == nil {
		return nil
	}
	clone := *job
	if job.Analysis != nil {
		a := *job.Analysis
		a.KeywordDensity = make(map[string]float64, len(job.Analysis.KeywordDensity))
		for k, v := range job.Analysis.KeywordDensity {
			a.KeywordDensity[k] = v
		}
		a.Suggestions = append([]string(nil), job.Analysis.Suggestions...)
		clone.Analysis = &a
	}
	if job.Optimization != nil {
		o := *job.Optimization
		o.Improvements = append([]string(nil), job.Optimization.Improvements...)
		clone.Optimization = &o
	}
	if job.Variants != nil {
		v := *job.Variants
		v.Differences = append([]string(nil), job.Variants.Differences...)
		clone.Variants = &v
	}
	if job.CompletedAt != nil {
		at := *job.CompletedAt
		clone.CompletedAt = &at
	}
	if job.Error != nil {
		e := *job.Error
		clone.Error = &e
	}
	return &clone
}
