package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"content-optimizer-service/internal/entity"
)

const uniqueViolation = "23505"

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

const selectColumns = `id, title, original_content, content_type, format, priority, status,
       analysis, optimization, variants, error, created_at, completed_at`

func (r *JobRepository) Create(ctx context.Context, job *entity.ContentJob) error {
	const q = `
INSERT INTO content_jobs (id, title, original_content, content_type, format, priority, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`
	_, err := r.pool.Exec(ctx, q,
		job.ID, job.Title, job.OriginalContent, string(job.ContentType), string(job.Format),
		job.Priority, string(job.Status), job.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return entity.ErrConflict
		}
		return err
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*entity.ContentJob, error) {
	q := `SELECT ` + selectColumns + ` FROM content_jobs WHERE id = $1;`

	job, err := scanJob(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

func (r *JobRepository) List(ctx context.Context, filter entity.ListFilter) ([]entity.ContentJob, error) {
	q := `SELECT ` + selectColumns + `
FROM content_jobs
WHERE ($1::text = '' OR status = $1::text)
ORDER BY created_at DESC
LIMIT $2;`

	var limit any // NULL => без лимита
	if filter.Limit > 0 {
		limit = filter.Limit
	}

	rows, err := r.pool.Query(ctx, q, string(filter.Status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]entity.ContentJob, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM content_jobs WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *JobRepository) SetAnalysis(ctx context.Context, id string, a *entity.AnalysisResult) error {
	const q = `
UPDATE content_jobs SET analysis = $2
WHERE id = $1 AND status = 'processing' AND analysis IS NULL;`
	return r.guardedUpdate(ctx, id, q, a)
}

func (r *JobRepository) SetOptimization(ctx context.Context, id string, o *entity.OptimizationResult) error {
	const q = `
UPDATE content_jobs SET optimization = $2
WHERE id = $1 AND status = 'processing' AND analysis IS NOT NULL AND optimization IS NULL;`
	return r.guardedUpdate(ctx, id, q, o)
}

func (r *JobRepository) Complete(ctx context.Context, id string, v *entity.VariantResult, at time.Time) error {
	const q = `
UPDATE content_jobs SET variants = $2, status = 'completed', completed_at = $3
WHERE id = $1 AND status = 'processing' AND optimization IS NOT NULL AND variants IS NULL;`
	return r.guardedUpdate(ctx, id, q, v, at)
}

func (r *JobRepository) Fail(ctx context.Context, id string, errText string, at time.Time) error {
	const q = `
UPDATE content_jobs SET status = 'failed', error = $2, completed_at = $3
WHERE id = $1 AND status = 'processing';`

	tag, err := r.pool.Exec(ctx, q, id, errText, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.missOrConflict(ctx, id)
	}
	return nil
}

func (r *JobRepository) Stats(ctx context.Context, sample int) (entity.Stats, error) {
	const countsQ = `
SELECT count(*),
       count(*) FILTER (WHERE status = 'completed'),
       count(*) FILTER (WHERE status = 'processing'),
       count(*) FILTER (WHERE status = 'failed')
FROM content_jobs;`

	var s entity.Stats
	if err := r.pool.QueryRow(ctx, countsQ).Scan(
		&s.TotalJobs, &s.CompletedJobs, &s.ProcessingJobs, &s.FailedJobs,
	); err != nil {
		return entity.Stats{}, fmt.Errorf("count jobs: %w", err)
	}

	const avgQ = `
SELECT coalesce(avg((analysis->>'readability_score')::float8), 0),
       coalesce(avg((analysis->>'seo_score')::float8), 0)
FROM (
    SELECT analysis FROM content_jobs
    WHERE status = 'completed'
    ORDER BY created_at DESC
    LIMIT $1
) recent
WHERE analysis IS NOT NULL;`

	if err := r.pool.QueryRow(ctx, avgQ, sample).Scan(&s.AvgReadabilityScore, &s.AvgSEOScore); err != nil {
		return entity.Stats{}, fmt.Errorf("average scores: %w", err)
	}
	return s, nil
}

// guardedUpdate runs q with the JSON of result as $2 plus extra args.
func (r *JobRepository) guardedUpdate(ctx context.Context, id, q string, result any, extra ...any) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	args := append([]any{id, json.RawMessage(payload)}, extra...)
	tag, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.missOrConflict(ctx, id)
	}
	return nil
}

// missOrConflict explains why a guarded update touched no rows.
func (r *JobRepository) missOrConflict(ctx context.Context, id string) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM content_jobs WHERE id = $1);`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return entity.ErrNotFound
	}
	return entity.ErrConflict
}

func scanJob(row pgx.Row) (*entity.ContentJob, error) {
	var (
		job          entity.ContentJob
		contentType  string
		format       string
		statusText   string
		analysis     []byte
		optimization []byte
		variants     []byte
	)

	if err := row.Scan(
		&job.ID,
		&job.Title,
		&job.OriginalContent,
		&contentType,
		&format,
		&job.Priority,
		&statusText,
		&analysis,     // NULL => nil
		&optimization, // NULL => nil
		&variants,     // NULL => nil
		&job.Error,
		&job.CreatedAt,
		&job.CompletedAt,
	); err != nil {
		return nil, err
	}

	job.ContentType = entity.ContentType(contentType)
	job.Format = entity.ContentFormat(format)
	job.Status = entity.JobStatus(statusText)
	job.CreatedAt = job.CreatedAt.UTC()
	if job.CompletedAt != nil {
		at := job.CompletedAt.UTC()
		job.CompletedAt = &at
	}

	if err := decodeResult(analysis, &job.Analysis); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	if err := decodeResult(optimization, &job.Optimization); err != nil {
		return nil, fmt.Errorf("decode optimization: %w", err)
	}
	if err := decodeResult(variants, &job.Variants); err != nil {
		return nil, fmt.Errorf("decode variants: %w", err)
	}
	return &job, nil
}

func decodeResult[T any](raw []byte, dst **T) error {
	if raw == nil {
		*dst = nil
		return nil
	}
	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		return err
	}
	*dst = v
	return nil
}
