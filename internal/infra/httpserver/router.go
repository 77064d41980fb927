package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appreports "github.com/bryanwahyu/prompt-sentinel/internal/application/reports"
	domain "github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
	"github.com/bryanwahyu/prompt-sentinel/internal/domain/sentinel"
	"github.com/bryanwahyu/prompt-sentinel/internal/middleware"
)

const maxBodyBytes = 1 << 20

// Options configures the cross-cutting parts of the router.
type Options struct {
	AllowedOrigins []string
	ProjectKeys    map[string]string // project -> key; empty disables auth
	RateCapacity   int               // 0 disables rate limiting
	RateRefill     int
	Checkers       map[string]middleware.HealthChecker
	Metrics        *middleware.Metrics
	Log            *zap.Logger
}

// Router serves the reports API. Call Stop when done with it.
type Router struct {
	reportsSvc *appreports.Service
	metrics    *middleware.Metrics
	limiter    *middleware.RateLimiter
	log        *zap.Logger
	handler    http.Handler
}

func NewRouter(reportsSvc *appreports.Service, opts Options) *Router {
	if opts.Metrics == nil {
		opts.Metrics = middleware.NewMetrics()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:3000"}
	}
	r := &Router{reportsSvc: reportsSvc, metrics: opts.Metrics, log: opts.Log}

	mux := chi.NewRouter()
	mux.Use(middleware.Logging(opts.Log))
	mux.Use(opts.Metrics.Middleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Get("/health", middleware.HealthHandler(opts.Checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", opts.Metrics.Handler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Get("/reports", r.wrap(r.handleList))
		rt.Get("/reports/{id}", r.wrap(r.handleGet))

		rt.Group(func(ingest chi.Router) {
			ingest.Use(middleware.ProjectKeyAuth(opts.ProjectKeys))
			if opts.RateCapacity > 0 {
				r.limiter = middleware.NewRateLimiter(opts.RateCapacity, opts.RateRefill)
				ingest.Use(r.limiter.Middleware)
			}
			ingest.Post("/report", r.wrap(r.handleSubmit))
		})
	})

	r.handler = mux
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// Stop releases background work started by the router (rate limiter cleanup).
func (r *Router) Stop() {
	if r.limiter != nil {
		r.limiter.Stop()
	}
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, domain.ErrInvalidSubmission):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, sql.ErrNoRows):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, sentinel.ErrQuotaExceeded):
			writeError(w, http.StatusTooManyRequests, "ai quota exceeded")
		default:
			r.log.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
	}
}

// POST /api/report
// Body: {"project_token"?, "session_id"?, "prompt", "secrets": [..], "sanitized_output", "timestamp"}
func (r *Router) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	var body domain.Submission
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		r.metrics.ReportsRejected.Add(1)
		return invalidBody(err)
	}
	if err := middleware.ValidateSubmission(body); err != nil {
		r.metrics.ReportsRejected.Add(1)
		return err
	}

	res, err := r.reportsSvc.Submit(req.Context(), appreports.SubmitReportCommand{
		Project:         middleware.GetProjectFromContext(req.Context()),
		SessionID:       middleware.SanitizeString(body.SessionID),
		Prompt:          body.Prompt,
		Secrets:         body.Secrets,
		SanitizedOutput: body.SanitizedOutput,
		Timestamp:       strings.TrimSpace(body.Timestamp),
	})
	if err != nil {
		return err
	}
	r.metrics.ReportsSubmitted.Add(1)
	if res.ArchiveErr != nil {
		r.metrics.ArchiveFailures.Add(1)
	}

	resp := map[string]any{
		"message": "Report saved successfully",
		"report":  res.Report,
	}
	if res.ArchiveURL != "" {
		resp["archive_url"] = res.ArchiveURL
	}
	return writeJSON(w, http.StatusOK, resp)
}

// GET /api/reports
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	list, err := r.reportsSvc.List(req.Context())
	if err != nil {
		return err
	}
	r.metrics.ReportsListed.Add(1)
	return writeJSON(w, http.StatusOK, map[string]any{"reports": list})
}

// GET /api/reports/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		return domain.ErrNotFound
	}
	rep, err := r.reportsSvc.Get(req.Context(), domain.ReportID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rep)
}

func invalidBody(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errors.Join(domain.ErrInvalidSubmission, errors.New("request body too large"))
	}
	return errors.Join(domain.ErrInvalidSubmission, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, map[string]string{"detail": msg})
}
