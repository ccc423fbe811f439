package main

import (
	"net/http"

	"github.com/Sternrassler/edu-cache/pkg/app"
	"github.com/Sternrassler/edu-cache/pkg/metrics"
	"github.com/Sternrassler/edu-cache/pkg/preload"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// newRouter wires the admin endpoints:
//
//	GET    /health                     liveness
//	GET    /status                     cache statistics and preloader state
//	GET    /metrics                    Prometheus scrape
//	GET    /progress/{subject}         progress chart of one subject (or "all")
//	POST   /preload                    run the startup preload again
//	POST   /preload/reset              forget completed strategies
//	DELETE /cache/dashboard/{userID}   invalidate one user's dashboard data
//	DELETE /cache/progress/{subject}   invalidate one subject's progress data
func newRouter(a *app.App, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	r.Get("/status", statusHandler(a, logger))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/progress/{subject}", progressHandler(a, logger))

	r.Route("/preload", func(r chi.Router) {
		r.Post("/", preloadHandler(a, logger))
		r.Post("/reset", resetHandler(a, logger))
	})

	r.Route("/cache", func(r chi.Router) {
		r.Delete("/dashboard/{userID}", invalidateUserHandler(a, logger))
		r.Delete("/progress/{subject}", invalidateSubjectHandler(a, logger))
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func statusHandler(a *app.App, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, a.Status())
	}
}

func preloadHandler(a *app.App, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := a.InitializeCache(r.Context())
		writeJSON(w, logger, http.StatusOK, newReportView(report))
	}
}

func resetHandler(a *app.App, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.Preloader.Reset()
		writeJSON(w, logger, http.StatusOK, a.Preloader.Status())
	}
}

func invalidateUserHandler(a *app.App, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed := a.Dashboard.InvalidateUserData(chi.URLParam(r, "userID"))
		writeJSON(w, logger, http.StatusOK, map[string]int{"removed": removed})
	}
}

func invalidateSubjectHandler(a *app.App, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, views := a.InvalidateSubject(chi.URLParam(r, "subject"))
		writeJSON(w, logger, http.StatusOK, map[string]int{"removed": removed, "views": views})
	}
}

func progressHandler(a *app.App, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := a.ProgressResponse(r.Context(), chi.URLParam(r, "subject"))
		if err != nil {
			logger.Error().Err(err).Msg("Failed to build progress response")
			http.Error(w, "progress unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			logger.Warn().Err(err).Msg("Failed to write response")
		}
	}
}

func writeJSON(w http.ResponseWriter, logger zerolog.Logger, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode response")
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger.Warn().Err(err).Msg("Failed to write response")
	}
}

// settlementView is the JSON form of a preload settlement.
type settlementView struct {
	ID       string `json:"id"`
	Skipped  bool   `json:"skipped"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

type reportView struct {
	Total     int              `json:"total"`
	Completed int              `json:"completed"`
	Failed    int              `json:"failed"`
	Results   []settlementView `json:"results"`
}

func newReportView(rep preload.Report) reportView {
	view := reportView{
		Total:     rep.Total,
		Completed: rep.Completed,
		Failed:    rep.Failed,
		Results:   make([]settlementView, 0, len(rep.Results)),
	}
	for _, s := range rep.Results {
		sv := settlementView{ID: s.ID, Skipped: s.Skipped, Duration: s.Duration.String()}
		if s.Err != nil {
			sv.Error = s.Err.Error()
		}
		view.Results = append(view.Results, sv)
	}
	return view
}
