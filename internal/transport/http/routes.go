package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "content-optimizer-service/docs"
)

type RouterConfig struct {
	CORSOrigins []string
	Logger      zerolog.Logger
}

func Routes(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// базовые middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// наш логгер (после RequestID)
	r.Use(RequestLogger(cfg.Logger))

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/", h.Root)
		r.Get("/stats", h.Stats)

		r.Route("/content", func(r chi.Router) {
			r.Post("/submit", h.SubmitContent)
			r.Get("/jobs", h.ListJobs)
			r.Get("/job/{job_id}", h.GetJob)
			r.Delete("/job/{job_id}", h.DeleteJob)
			r.Get("/job/{job_id}/report", h.GetJobReport)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
