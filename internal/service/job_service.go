package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"content-optimizer-service/internal/entity"
	"content-optimizer-service/internal/metrics"
)

var (
	ErrNotFound     = entity.ErrNotFound
	ErrInvalidInput = entity.ErrInvalidInput
	ErrConflict     = entity.ErrConflict
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	// StatsSampleSize bounds how many recent completed jobs feed the score averages.
	StatsSampleSize = 100
	MaxContentBytes = 1 << 20

	defaultPriority = 1
)

// Порт хранилища (реализации: memory, postgresql, mongodb)
type JobStore interface {
	Create(ctx context.Context, job *entity.ContentJob) error
	GetByID(ctx context.Context, id string) (*entity.ContentJob, error)
	List(ctx context.Context, filter entity.ListFilter) ([]entity.ContentJob, error)
	Delete(ctx context.Context, id string) error
	Fail(ctx context.Context, id string, errText string, at time.Time) error
	Stats(ctx context.Context, sample int) (entity.Stats, error)
}

// Маленький порт очереди только для добавления задач.
type JobQueue interface {
	Enqueue(ctx context.Context, jobID string, priority int) error
}

type ContentService struct {
	store JobStore
	queue JobQueue
	now   func() time.Time
}

func NewContentService(store JobStore, queue JobQueue) *ContentService {
	return &ContentService{
		store: store,
		queue: queue,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates in, stores a new processing job and schedules its
// pipeline. It returns as soon as the job is queued.
func (s *ContentService) Submit(ctx context.Context, in entity.ContentInput) (*entity.ContentJob, error) {
	if err := normalizeInput(&in); err != nil {
		return nil, err
	}

	priority := defaultPriority
	if in.Priority != nil {
		priority = *in.Priority
	}
	if priority < 0 || priority > 2 {
		priority = defaultPriority // normal
	}

	job := &entity.ContentJob{
		ID:              uuid.NewString(),
		Title:           in.Title,
		OriginalContent: in.Content,
		ContentType:     in.ContentType,
		Format:          in.Format,
		Priority:        priority,
		Status:          entity.StatusProcessing,
		CreatedAt:       s.now(),
	}

	if err := s.store.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	if err := s.queue.Enqueue(ctx, job.ID, priority); err != nil {
		// без очереди задача никогда не выполнится
		_ = s.store.Fail(ctx, job.ID, "enqueue failed: "+err.Error(), s.now())
		return nil, fmt.Errorf("enqueue job: %w", err)
	}

	return job, nil
}

func (s *ContentService) Get(ctx context.Context, id string) (*entity.ContentJob, error) {
	return s.store.GetByID(ctx, id)
}

// List returns jobs newest first. limit is clamped to [1, MaxListLimit];
// zero means DefaultListLimit.
func (s *ContentService) List(ctx context.Context, limit int, status entity.JobStatus) ([]entity.ContentJob, error) {
	switch {
	case limit == 0:
		limit = DefaultListLimit
	case limit < 1:
		limit = 1
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	jobs, err := s.store.List(ctx, entity.ListFilter{Limit: limit, Status: status})
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []entity.ContentJob{}
	}
	return jobs, nil
}

func (s *ContentService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *ContentService) Stats(ctx context.Context) (entity.Stats, error) {
	stats, err := s.store.Stats(ctx, StatsSampleSize)
	if err != nil {
		return entity.Stats{}, err
	}
	stats.AvgReadabilityScore = metrics.Round2(stats.AvgReadabilityScore)
	stats.AvgSEOScore = metrics.Round2(stats.AvgSEOScore)
	return stats, nil
}

func normalizeInput(in *entity.ContentInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if len(in.Content) > MaxContentBytes {
		return fmt.Errorf("%w: content exceeds %d bytes", ErrInvalidInput, MaxContentBytes)
	}

	if in.ContentType == "" {
		in.ContentType = entity.ContentArticle
	}
	if !in.ContentType.Valid() {
		return fmt.Errorf("%w: content_type must be one of article, social_post, ad_copy", ErrInvalidInput)
	}

	if in.Format == "" {
		in.Format = entity.FormatText
	}
	if !in.Format.Valid() {
		return fmt.Errorf("%w: format must be text or html", ErrInvalidInput)
	}
	return nil
}
