// Package http exposes the loaded capacity table as a JSON API, plus the
// usual health, readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gridatlas/capacidad/internal/analysis"
	"github.com/gridatlas/capacidad/internal/domain"
	"github.com/gridatlas/capacidad/internal/loader"
	"github.com/gridatlas/capacidad/internal/observability"
)

// Server exposes query endpoints over one immutable loaded table.
type Server struct {
	httpServer *http.Server
	table      *domain.Table
	exp        domain.Expectations
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates the HTTP server. The table is shared read-only across
// requests; no handler mutates it.
func NewServer(addr string, table *domain.Table, exp domain.Expectations, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		table:   table,
		exp:     exp,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/nodes", s.count("/api/nodes", s.handleNodes))
	mux.HandleFunc("GET /api/regions", s.count("/api/regions", s.handleRegions))
	mux.HandleFunc("GET /api/nodes/top", s.count("/api/nodes/top", s.handleTop))
	mux.HandleFunc("GET /api/nodes/search", s.count("/api/nodes/search", s.handleSearch))
	mux.HandleFunc("GET /api/node/{name}", s.count("/api/node", s.handleNode))
	mux.HandleFunc("GET /api/criteria", s.count("/api/criteria", s.handleCriteria))
	mux.HandleFunc("GET /api/blocked", s.count("/api/blocked", s.handleBlocked))
	mux.HandleFunc("GET /api/validation", s.count("/api/validation", s.handleValidation))

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

// count wraps a handler with the per-route request counter.
func (s *Server) count(route string, h func(http.ResponseWriter, *http.Request) int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := h(w, r)
		s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if s.table == nil || s.table.Len() == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "capacity table not loaded",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) int {
	q := r.URL.Query()
	opts := analysis.FilterOptions{
		Region:         q.Get("region"),
		CapacityColumn: q.Get("column"),
		OnlyAvailable:  q.Get("available") == "true",
	}
	if v := q.Get("min_mw"); v != "" {
		mw, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return writeError(w, http.StatusBadRequest, "invalid min_mw")
		}
		opts.MinMW = mw
	}
	if v := q.Get("voltage_kv"); v != "" {
		kv, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return writeError(w, http.StatusBadRequest, "invalid voltage_kv")
		}
		opts.VoltageKV = &kv
	}
	if v := q.Get("tender"); v != "" {
		tender := v == "true"
		opts.OnlyTender = &tender
	}

	nodes, err := analysis.FilterNodes(s.table, opts)
	if err != nil {
		return writeError(w, http.StatusBadRequest, err.Error())
	}
	return writeJSON(w, http.StatusOK, map[string]any{"count": len(nodes), "nodes": nodes})
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) int {
	summaries, err := analysis.SummaryByRegion(s.table, r.URL.Query().Get("column"))
	if err != nil {
		return writeError(w, http.StatusBadRequest, err.Error())
	}
	return writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) int {
	n := 20
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return writeError(w, http.StatusBadRequest, "invalid n")
		}
		n = parsed
	}
	nodes, err := analysis.TopNodes(s.table, n, r.URL.Query().Get("column"))
	if err != nil {
		return writeError(w, http.StatusBadRequest, err.Error())
	}
	return writeJSON(w, http.StatusOK, nodes)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) int {
	query := r.URL.Query().Get("q")
	if query == "" {
		return writeError(w, http.StatusBadRequest, "missing query parameter q")
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return writeError(w, http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}
	return writeJSON(w, http.StatusOK, analysis.SearchNodes(s.table, query, limit))
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) int {
	diag, err := domain.DiagnoseNode(s.table, r.PathValue("name"))
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return writeError(w, http.StatusNotFound, notFound.Error())
		}
		var ambiguous *domain.AmbiguousMatchError
		if errors.As(err, &ambiguous) {
			return writeJSON(w, http.StatusConflict, map[string]any{
				"error":      ambiguous.Error(),
				"candidates": ambiguous.Candidates,
			})
		}
		return writeError(w, http.StatusInternalServerError, err.Error())
	}
	return writeJSON(w, http.StatusOK, diag)
}

func (s *Server) handleCriteria(w http.ResponseWriter, r *http.Request) int {
	counts, err := analysis.CriteriaDistribution(s.table, r.URL.Query().Get("column"))
	if err != nil {
		return writeError(w, http.StatusBadRequest, err.Error())
	}
	return writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleBlocked(w http.ResponseWriter, r *http.Request) int {
	nodes, err := analysis.BlockedNodes(s.table, r.URL.Query().Get("reason"))
	if err != nil {
		return writeError(w, http.StatusBadRequest, err.Error())
	}
	return writeJSON(w, http.StatusOK, map[string]any{"count": len(nodes), "nodes": nodes})
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) int {
	checks := loader.Validate(s.table, s.exp)
	return writeJSON(w, http.StatusOK, map[string]any{
		"ok":     loader.AllOK(checks),
		"checks": checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) int {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
	return status
}

func writeError(w http.ResponseWriter, status int, msg string) int {
	return writeJSON(w, status, map[string]string{"error": msg})
}
