// Package mongodb stores content jobs in a MongoDB collection, one
// document per job keyed by its id. Timestamps are stored as ISO-8601
// strings with fixed-width fractions so they sort lexically.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"content-optimizer-service/internal/entity"
)

const (
	CollectionName = "content_jobs"
	timeLayout     = "2006-01-02T15:04:05.000000-07:00"
)

type jobDocument struct {
	ID              string                     `bson:"id"`
	Title           string                     `bson:"title"`
	OriginalContent string                     `bson:"original_content"`
	ContentType     string                     `bson:"content_type"`
	Format          string                     `bson:"format"`
	Priority        int                        `bson:"priority"`
	Status          string                     `bson:"status"`
	Analysis        *entity.AnalysisResult     `bson:"analysis"`
	Optimization    *entity.OptimizationResult `bson:"optimization"`
	Variants        *entity.VariantResult      `bson:"variants"`
	CreatedAt       string                     `bson:"created_at"`
	CompletedAt     *string                    `bson:"completed_at"`
	Error           *string                    `bson:"error"`
}

type JobRepository struct {
	coll *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{coll: db.Collection(CollectionName)}
}

// Connect opens a client for uri and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique id index and the listing indexes.
func (r *JobRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

func (r *JobRepository) Create(ctx context.Context, job *entity.ContentJob) error {
	if _, err := r.coll.InsertOne(ctx, toDocument(job)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return entity.ErrConflict
		}
		return err
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*entity.ContentJob, error) {
	var doc jobDocument
	err := r.coll.FindOne(ctx, bson.M{"id": id}, options.FindOne().SetProjection(bson.M{"_id": 0})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return fromDocument(&doc)
}

func (r *JobRepository) List(ctx context.Context, filter entity.ListFilter) ([]entity.ContentJob, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	opts := options.Find().
		SetProjection(bson.M{"_id": 0}).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	jobs := make([]entity.ContentJob, 0)
	for cur.Next(ctx) {
		var doc jobDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		job, err := fromDocument(&doc)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, cur.Err()
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *JobRepository) SetAnalysis(ctx context.Context, id string, a *entity.AnalysisResult) error {
	filter := bson.M{"id": id, "status": string(entity.StatusProcessing), "analysis": nil}
	return r.guardedUpdate(ctx, id, filter, bson.M{"analysis": a})
}

func (r *JobRepository) SetOptimization(ctx context.Context, id string, o *entity.OptimizationResult) error {
	filter := bson.M{
		"id":           id,
		"status":       string(entity.StatusProcessing),
		"analysis":     bson.M{"$ne": nil},
		"optimization": nil,
	}
	return r.guardedUpdate(ctx, id, filter, bson.M{"optimization": o})
}

func (r *JobRepository) Complete(ctx context.Context, id string, v *entity.VariantResult, at time.Time) error {
	filter := bson.M{
		"id":           id,
		"status":       string(entity.StatusProcessing),
		"optimization": bson.M{"$ne": nil},
		"variants":     nil,
	}
	return r.guardedUpdate(ctx, id, filter, bson.M{
		"variants":     v,
		"status":       string(entity.StatusCompleted),
		"completed_at": formatTime(at),
	})
}

func (r *JobRepository) Fail(ctx context.Context, id string, errText string, at time.Time) error {
	filter := bson.M{"id": id, "status": string(entity.StatusProcessing)}
	return r.guardedUpdate(ctx, id, filter, bson.M{
		"status":       string(entity.StatusFailed),
		"error":        errText,
		"completed_at": formatTime(at),
	})
}

func (r *JobRepository) Stats(ctx context.Context, sample int) (entity.Stats, error) {
	var (
		s   entity.Stats
		err error
	)
	if s.TotalJobs, err = r.coll.CountDocuments(ctx, bson.M{}); err != nil {
		return entity.Stats{}, fmt.Errorf("count jobs: %w", err)
	}
	counts := []struct {
		status entity.JobStatus
		dst    *int64
	}{
		{entity.StatusCompleted, &s.CompletedJobs},
		{entity.StatusProcessing, &s.ProcessingJobs},
		{entity.StatusFailed, &s.FailedJobs},
	}
	for _, c := range counts {
		n, err := r.coll.CountDocuments(ctx, bson.M{"status": string(c.status)})
		if err != nil {
			return entity.Stats{}, fmt.Errorf("count %s jobs: %w", c.status, err)
		}
		*c.dst = n
	}

	opts := options.Find().
		SetProjection(bson.M{"_id": 0, "analysis": 1}).
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(sample))
	cur, err := r.coll.Find(ctx, bson.M{"status": string(entity.StatusCompleted)}, opts)
	if err != nil {
		return entity.Stats{}, fmt.Errorf("sample completed jobs: %w", err)
	}
	defer cur.Close(ctx)

	var readability, seo float64
	var n int
	for cur.Next(ctx) {
		var doc struct {
			Analysis *entity.AnalysisResult `bson:"analysis"`
		}
		if err := cur.Decode(&doc); err != nil {
			return entity.Stats{}, err
		}
		if doc.Analysis == nil {
			continue
		}
		readability += doc.Analysis.ReadabilityScore
		seo += doc.Analysis.SEOScore
		n++
	}
	if err := cur.Err(); err != nil {
		return entity.Stats{}, err
	}
	if n > 0 {
		s.AvgReadabilityScore = readability / float64(n)
		s.AvgSEOScore = seo / float64(n)
	}
	return s, nil
}

func (r *JobRepository) guardedUpdate(ctx context.Context, id string, filter, set bson.M) error {
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"id": id}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return entity.ErrConflict
}

func toDocument(job *entity.ContentJob) *jobDocument {
	doc := &jobDocument{
		ID:              job.ID,
		Title:           job.Title,
		OriginalContent: job.OriginalContent,
		ContentType:     string(job.ContentType),
		Format:          string(job.Format),
		Priority:        job.Priority,
		Status:          string(job.Status),
		Analysis:        job.Analysis,
		Optimization:    job.Optimization,
		Variants:        job.Variants,
		CreatedAt:       formatTime(job.CreatedAt),
		Error:           job.Error,
	}
	if job.CompletedAt != nil {
		at := formatTime(*job.CompletedAt)
		doc.CompletedAt = &at
	}
	return doc
}

func fromDocument(doc *jobDocument) (*entity.ContentJob, error) {
	createdAt, err := parseTime(doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("job %s created_at: %w", doc.ID, err)
	}

	format := entity.ContentFormat(doc.Format)
	if format == "" {
		format = entity.FormatText
	}

	job := &entity.ContentJob{
		ID:              doc.ID,
		Title:           doc.Title,
		OriginalContent: doc.OriginalContent,
		ContentType:     entity.ContentType(doc.ContentType),
		Format:          format,
		Priority:        doc.Priority,
		Status:          entity.JobStatus(doc.Status),
		Analysis:        doc.Analysis,
		Optimization:    doc.Optimization,
		Variants:        doc.Variants,
		CreatedAt:       createdAt,
		Error:           doc.Error,
	}
	if doc.CompletedAt != nil {
		at, err := parseTime(*doc.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("job %s completed_at: %w", doc.ID, err)
		}
		job.CompletedAt = &at
	}
	return job, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime accepts any RFC 3339 timestamp, with or without fraction.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
