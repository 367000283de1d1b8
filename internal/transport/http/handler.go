package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"content-optimizer-service/internal/entity"
	"content-optimizer-service/internal/queue"
	"content-optimizer-service/internal/report"
	"content-optimizer-service/internal/service"
)

const (
	apiName    = "Content Optimization Platform API"
	apiVersion = "1.0.0"
)

type Handler struct {
	svc *service.ContentService
	log zerolog.Logger
}

func NewHandler(svc *service.ContentService, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: logger}
}

type rootResp struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

type submitResp struct {
	JobID  string           `json:"job_id"`
	Status entity.JobStatus `json:"status"`
}

// Root godoc
// @Summary API info
// @Tags meta
// @Produce json
// @Success 200 {object} rootResp
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResp{Message: apiName, Version: apiVersion})
}

// SubmitContent godoc
// @Summary Submit content for optimization
// @Description Creates a job in processing state and queues its analyze, optimize and vary stages.
// @Tags content
// @Accept json
// @Produce json
// @Param request body entity.ContentInput true "content (format: text|html, priority: 0=low,1=normal,2=high)"
// @Success 200 {object} submitResp
// @Failure 400 {object} apiError
// @Failure 500 {object} apiError
// @Failure 503 {object} apiError
// @Router /content/submit [post]
func (h *Handler) SubmitContent(w http.ResponseWriter, r *http.Request) {
	// запас на JSON-экранирование поверх лимита контента
	r.Body = http.MaxBytesReader(w, r.Body, 2*service.MaxContentBytes)

	var in entity.ContentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErr(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	job, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, submitResp{JobID: job.ID, Status: job.Status})
}

// GetJob godoc
// @Summary Get job by id
// @Tags content
// @Produce json
// @Param job_id path string true "job id"
// @Success 200 {object} entity.ContentJob
// @Failure 404 {object} apiError
// @Router /content/job/{job_id} [get]
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.svc.Get(r.Context(), chi.URLParam(r, "job_id"))
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// ListJobs godoc
// @Summary List jobs, newest first
// @Tags content
// @Produce json
// @Param limit query int false "max jobs (default 20, max 100)"
// @Param status query string false "processing|completed|failed"
// @Success 200 {array} entity.ContentJob
// @Failure 400 {object} apiError
// @Router /content/jobs [get]
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		if n < 1 {
			n = 1
		}
		limit = n
	}
	status := entity.JobStatus(strings.TrimSpace(r.URL.Query().Get("status")))

	jobs, err := h.svc.List(r.Context(), limit, status)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// DeleteJob godoc
// @Summary Delete job
// @Tags content
// @Produce json
// @Param job_id path string true "job id"
// @Success 200 {object} messageResp
// @Failure 404 {object} apiError
// @Router /content/job/{job_id} [delete]
func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "job_id")); err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResp{Message: "Job deleted successfully"})
}

// Stats godoc
// @Summary Job counts and average scores
// @Tags meta
// @Produce json
// @Success 200 {object} entity.Stats
// @Failure 500 {object} apiError
// @Router /stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetJobReport godoc
// @Summary Render job as a report
// @Description Works for finished and partial jobs; stages without a result are shown as pending.
// @Tags content
// @Produce text/markdown
// @Produce application/pdf
// @Param job_id path string true "job id"
// @Param format query string false "markdown (default) or pdf"
// @Success 200 {string} string
// @Failure 400 {object} apiError
// @Failure 404 {object} apiError
// @Router /content/job/{job_id}/report [get]
func (h *Handler) GetJobReport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format != "" && format != "markdown" && format != "pdf" {
		writeErr(w, http.StatusBadRequest, "format must be markdown or pdf")
		return
	}

	job, err := h.svc.Get(r.Context(), chi.URLParam(r, "job_id"))
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}

	if format == "pdf" {
		doc, err := report.PDF(job)
		if err != nil {
			h.writeServiceErr(w, r, err)
			return
		}
		writeDocument(w, "application/pdf", job.ID+".pdf", doc)
		return
	}

	writeDocument(w, "text/markdown; charset=utf-8", "", []byte(report.Markdown(job)))
}

func (h *Handler) writeServiceErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeErr(w, http.StatusNotFound, "Job not found")
	case errors.Is(err, queue.ErrFull):
		writeErr(w, http.StatusServiceUnavailable, "job queue is full, retry later")
	default:
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}
