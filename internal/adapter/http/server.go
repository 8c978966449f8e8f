package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/homicide-observatory/internal/domain"
	"github.com/couchcryptid/homicide-observatory/internal/render"
)

// Query parameters carried by the page form and the image URLs.
const (
	paramDepartment   = "departamento"
	paramMunicipality = "municipio"
)

// Dashboard computes what the page and its images show.
type Dashboard interface {
	sharedobs.ReadinessChecker
	Snapshot(sel domain.Selection) (domain.Snapshot, error)
	Chart(chart render.Chart, sel domain.Selection) ([]byte, error)
	Workbook() ([]byte, error)
}

// Server exposes the dashboard page, its images and export, plus health,
// readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dashboard  Dashboard
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the dashboard routes and /healthz,
// /readyz, and /metrics.
func NewServer(addr string, dashboard Dashboard, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dashboard: dashboard,
		logger:    logger,
	}

	r.Use(middleware.Recoverer)
	r.Use(accessLog(logger))

	r.Get("/", s.handlePage)
	r.Get("/charts/{chart}.png", s.handleChart)
	r.Get("/export/ranking.xlsx", s.handleExport)
	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(dashboard))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	snap, err := s.dashboard.Snapshot(selection(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, newPageData(snap)); err != nil {
		s.logger.Error("render page", "error", err)
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	chart, ok := render.ParseChart(chi.URLParam(r, "chart"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	img, err := s.dashboard.Chart(chart, selection(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(img) //nolint:errcheck // client went away
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	b, err := s.dashboard.Workbook()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="ranking_homicidios.xlsx"`)
	w.Write(b) //nolint:errcheck // client went away
}

// writeError maps unknown selections to 404 and everything else to 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrUnknownDepartment) || errors.Is(err, domain.ErrUnknownMunicipality) {
		s.logger.Warn("unknown selection", "path", r.URL.Path, "query", r.URL.RawQuery, "error", err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func selection(r *http.Request) domain.Selection {
	q := r.URL.Query()
	return domain.Selection{
		Department:   q.Get(paramDepartment),
		Municipality: q.Get(paramMunicipality),
	}
}
