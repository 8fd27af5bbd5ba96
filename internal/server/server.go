// Package server exposes the dashboard HTTP API.
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/sculptbody/cierre-backend/internal/batch"
	"github.com/sculptbody/cierre-backend/internal/ingest"
	"github.com/sculptbody/cierre-backend/internal/localcache"
	"github.com/sculptbody/cierre-backend/internal/reconcile"
	"github.com/sculptbody/cierre-backend/internal/repository"
)

// PingFunc reports hosted store reachability for the health endpoint.
type PingFunc func(ctx context.Context) error

type Handler struct {
	branches     repository.BranchRepository
	reports      repository.ReportRepository
	cache        localcache.Store
	router       *ingest.Router
	orchestrator *batch.Orchestrator
	reconciler   *reconcile.Service
	ping         PingFunc
	validate     *validator.Validate
	rateLimit    func(http.Handler) http.Handler
	logger       *slog.Logger
}

func NewHandler(
	branches repository.BranchRepository,
	reports repository.ReportRepository,
	cache localcache.Store,
	router *ingest.Router,
	orchestrator *batch.Orchestrator,
	reconciler *reconcile.Service,
	ping PingFunc,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	// extraction burns LLM quota; keep uploads well under the free tier
	limiter := httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return "ip:" + r.RemoteAddr, nil
		}
		return "ip:" + host, nil
	}))
	return &Handler{
		branches:     branches,
		reports:      reports,
		cache:        cache,
		router:       router,
		orchestrator: orchestrator,
		reconciler:   reconciler,
		ping:         ping,
		validate:     validator.New(),
		rateLimit:    limiter,
		logger:       logger,
	}
}

// Router builds the chi router with all API routes mounted.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(5 * time.Minute))

	r.Get("/healthz", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/branches", h.handleListBranches)
		r.Get("/reports", h.handleListReports)
		r.Delete("/reports/{id}", h.handleDeleteReport)
		r.Get("/reports/export.txt", h.handleExportTXT)
		r.Get("/reports/export.xlsx", h.handleExportXLSX)
		r.Get("/stats", h.handleStats)
		r.Post("/sync", h.handleSync)

		r.Group(func(r chi.Router) {
			r.Use(h.rateLimit)
			r.Post("/reports/batch", h.handleBatchUpload)
		})
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "ok"}
	code := http.StatusOK
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			code = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, status)
}
