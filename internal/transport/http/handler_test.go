package httptransport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"content-optimizer-service/internal/entity"
	"content-optimizer-service/internal/queue"
	"content-optimizer-service/internal/repository/memory"
	"content-optimizer-service/internal/service"
	httptransport "content-optimizer-service/internal/transport/http"
)

// ---- fakes ----

type queueStub struct {
	enqueuedIDs        []string
	enqueuedPriorities []int
}

func (q *queueStub) Enqueue(ctx context.Context, jobID string, priority int) error {
	q.enqueuedIDs = append(q.enqueuedIDs, jobID)
	q.enqueuedPriorities = append(q.enqueuedPriorities, priority)
	return nil
}

// ---- helpers ----

func newTestRouter(store *memory.JobRepository, queue service.JobQueue) http.Handler {
	svc := service.NewContentService(store, queue)
	h := httptransport.NewHandler(svc, zerolog.Nop())
	return httptransport.Routes(h, httptransport.RouterConfig{Logger: zerolog.Nop()})
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func completedJob(id string, created time.Time) *entity.ContentJob {
	done := created.Add(time.Second)
	return &entity.ContentJob{
		ID:              id,
		Title:           "Hello World",
		OriginalContent: "Hello world. This is great!",
		ContentType:     entity.ContentArticle,
		Format:          entity.FormatText,
		Priority:        1,
		Status:          entity.StatusCompleted,
		Analysis: &entity.AnalysisResult{
			ReadabilityScore: 80.5,
			SEOScore:         42,
			Tone:             "friendly",
			KeywordDensity:   map[string]float64{"hello": 25},
			WordCount:        5,
			SentenceCount:    2,
			Suggestions:      []string{"a", "b", "c"},
		},
		Optimization: &entity.OptimizationResult{OptimizedContent: "Better.", Improvements: []string{"x"}},
		Variants:     &entity.VariantResult{VariantA: "A", VariantB: "B", Differences: []string{"y"}},
		CreatedAt:    created,
		CompletedAt:  &done,
	}
}

// ---- tests ----

func TestHTTP_Root(t *testing.T) {
	router := newTestRouter(memory.NewJobRepository(), &queueStub{})

	rr := do(t, router, http.MethodGet, "/api/", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", rr.Code, rr.Body.String())
	}
	var got map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got["message"] != "Content Optimization Platform API" || got["version"] != "1.0.0" {
		t.Fatalf("unexpected root body %#v", got)
	}
}

func TestHTTP_Submit_200_ThenGetProcessingJob(t *testing.T) {
	store := memory.NewJobRepository()
	queue := &queueStub{}
	router := newTestRouter(store, queue)

	body := `{"title":"Hello World","content":"Hello world. This is great!","content_type":"article","priority":2}`
	rr := do(t, router, http.MethodPost, "/api/content/submit", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		JobID  string `json:"job_id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json response: %v, body=%s", err, rr.Body.String())
	}
	if resp.JobID == "" || resp.Status != "processing" {
		t.Fatalf("unexpected submit response %#v", resp)
	}

	// очередь получила priority=2
	if len(queue.enqueuedIDs) != 1 || queue.enqueuedIDs[0] != resp.JobID {
		t.Fatalf("expected enqueue id=%s, got %#v", resp.JobID, queue.enqueuedIDs)
	}
	if len(queue.enqueuedPriorities) != 1 || queue.enqueuedPriorities[0] != 2 {
		t.Fatalf("expected enqueue priority=2, got %#v", queue.enqueuedPriorities)
	}

	rr2 := do(t, router, http.MethodGet, "/api/content/job/"+resp.JobID, "")
	if rr2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", rr2.Code, rr2.Body.String())
	}

	var got map[string]any
	if err := json.Unmarshal(rr2.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v, body=%s", err, rr2.Body.String())
	}
	if got["status"] != "processing" {
		t.Fatalf("expected processing, got %v", got["status"])
	}
	for _, field := range []string{"analysis", "optimization", "variants", "completed_at", "error"} {
		v, ok := got[field]
		if !ok || v != nil {
			t.Fatalf("expected %s to be null, got %v (present=%v)", field, v, ok)
		}
	}
}

func TestHTTP_Submit_400(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"title":`},
		{"missing title", `{"content":"x","content_type":"article"}`},
		{"unknown content type", `{"title":"t","content":"x","content_type":"poem"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := &queueStub{}
			router := newTestRouter(memory.NewJobRepository(), queue)

			rr := do(t, router, http.MethodPost, "/api/content/submit", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d, body=%s", rr.Code, rr.Body.String())
			}
			if len(queue.enqueuedIDs) != 0 {
				t.Fatalf("nothing must be enqueued on bad input")
			}
		})
	}
}

func TestHTTP_Submit_503_WhenLocalQueueFull(t *testing.T) {
	router := newTestRouter(memory.NewJobRepository(), queue.NewLocalQueue(1))
	body := `{"title":"t","content":"Some text.","content_type":"article"}`

	if rr := do(t, router, http.MethodPost, "/api/content/submit", body); rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", rr.Code, rr.Body.String())
	}
	rr := do(t, router, http.MethodPost, "/api/content/submit", body)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d, body=%s", rr.Code, rr.Body.String())
	}
}

func TestHTTP_GetJob_404(t *testing.T) {
	router := newTestRouter(memory.NewJobRepository(), &queueStub{})

	rr := do(t, router, http.MethodGet, "/api/content/job/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Job not found") {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}

func TestHTTP_ListJobs_NewestFirstWithLimitAndStatus(t *testing.T) {
	ctx := context.Background()
	store := memory.NewJobRepository()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	_ = store.Create(ctx, completedJob("old", base))
	_ = store.Create(ctx, completedJob("mid", base.Add(time.Minute)))
	_ = store.Create(ctx, &entity.ContentJob{ID: "new", Status: entity.StatusProcessing, CreatedAt: base.Add(2 * time.Minute)})
	router := newTestRouter(store, &queueStub{})

	rr := do(t, router, http.MethodGet, "/api/content/jobs?limit=2", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var jobs []entity.ContentJob
	if err := json.Unmarshal(rr.Body.Bytes(), &jobs); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(jobs) != 2 || jobs[0].ID != "new" || jobs[1].ID != "mid" {
		t.Fatalf("unexpected order %#v", jobs)
	}

	rr = do(t, router, http.MethodGet, "/api/content/jobs?status=completed", "")
	jobs = nil
	_ = json.Unmarshal(rr.Body.Bytes(), &jobs)
	if len(jobs) != 2 || jobs[0].ID != "mid" {
		t.Fatalf("status filter failed: %#v", jobs)
	}

	if rr := do(t, router, http.MethodGet, "/api/content/jobs?limit=abc", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rr.Code)
	}
	if rr := do(t, router, http.MethodGet, "/api/content/jobs?status=paused", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad status, got %d", rr.Code)
	}
}

func TestHTTP_ListJobs_EmptyIsArray(t *testing.T) {
	router := newTestRouter(memory.NewJobRepository(), &queueStub{})

	rr := do(t, router, http.MethodGet, "/api/content/jobs", "")
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Fatalf("expected [], got %s", got)
	}
}

func TestHTTP_DeleteJob(t *testing.T) {
	store := memory.NewJobRepository()
	_ = store.Create(context.Background(), completedJob("j1", time.Now().UTC()))
	router := newTestRouter(store, &queueStub{})

	rr := do(t, router, http.MethodDelete, "/api/content/job/j1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Job deleted successfully") {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}

	if rr := do(t, router, http.MethodGet, "/api/content/job/j1", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rr.Code)
	}
	if rr := do(t, router, http.MethodDelete, "/api/content/job/j1", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rr.Code)
	}
}

func TestHTTP_Stats_EmptyStore(t *testing.T) {
	router := newTestRouter(memory.NewJobRepository(), &queueStub{})

	rr := do(t, router, http.MethodGet, "/api/stats", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var got map[string]float64
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	for _, key := range []string{"total_jobs", "completed_jobs", "processing_jobs", "failed_jobs", "avg_readability_score", "avg_seo_score"} {
		v, ok := got[key]
		if !ok || v != 0 {
			t.Fatalf("expected %s=0, got %v (present=%v)", key, v, ok)
		}
	}
}

func TestHTTP_JobReport(t *testing.T) {
	store := memory.NewJobRepository()
	_ = store.Create(context.Background(), completedJob("r1", time.Now().UTC()))
	router := newTestRouter(store, &queueStub{})

	rr := do(t, router, http.MethodGet, "/api/content/job/r1/report", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "# Hello World") {
		t.Fatalf("markdown report missing title: %s", rr.Body.String())
	}

	rr = do(t, router, http.MethodGet, "/api/content/job/r1/report?format=pdf", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected pdf document")
	}

	if rr := do(t, router, http.MethodGet, "/api/content/job/r1/report?format=docx", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", rr.Code)
	}
	if rr := do(t, router, http.MethodGet, "/api/content/job/missing/report", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestHTTP_CORSPreflight(t *testing.T) {
	svc := service.NewContentService(memory.NewJobRepository(), &queueStub{})
	router := httptransport.Routes(httptransport.NewHandler(svc, zerolog.Nop()), httptransport.RouterConfig{
		CORSOrigins: []string{"https://app.example.com"},
		Logger:      zerolog.Nop(),
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/content/submit", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}
