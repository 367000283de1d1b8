package entity

import (
	"time"
)

type JobStatus string

const (
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func (s JobStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// ContentJob is one submission's full lifecycle record.
//
// Results are only ever filled left to right: analysis, then optimization,
// then variants. Once a result is set it is never replaced.
type ContentJob struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	OriginalContent string              `json:"original_content"`
	ContentType     ContentType         `json:"content_type"`
	Format          ContentFormat       `json:"format"`
	Priority        int                 `json:"priority"`
	Status          JobStatus           `json:"status"`
	Analysis        *AnalysisResult     `json:"analysis"`
	Optimization    *OptimizationResult `json:"optimization"`
	Variants        *VariantResult      `json:"variants"`
	CreatedAt       time.Time           `json:"created_at"`
	CompletedAt     *time.Time          `json:"completed_at"`
	Error           *string             `json:"error"`
}

// Stats aggregates job counts and the average scores of recent completed jobs.
type Stats struct {
	TotalJobs           int64   `json:"total_jobs"`
	CompletedJobs       int64   `json:"completed_jobs"`
	ProcessingJobs      int64   `json:"processing_jobs"`
	FailedJobs          int64   `json:"failed_jobs"`
	AvgReadabilityScore float64 `json:"avg_readability_score"`
	AvgSEOScore         float64 `json:"avg_seo_score"`
}

// ListFilter selects jobs for listing, newest first.
type ListFilter struct {
	Limit  int
	Status JobStatus // empty => any
}
