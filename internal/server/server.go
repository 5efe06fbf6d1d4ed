// Package server exposes the read-only dashboard API over HTTP. Every
// endpoint is a thin JSON view over the aggregation service; the server
// never mutates the store.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/splitsage/splitsage/internal/aggregate"
	"github.com/splitsage/splitsage/internal/model"
)

// Server serves the dashboard API.
type Server struct {
	svc    *aggregate.Service
	logger *slog.Logger
	http   *http.Server
}

// New creates a dashboard server listening on addr.
func New(addr string, svc *aggregate.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{svc: svc, logger: logger}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/months", s.handleMonths)
	mux.HandleFunc("GET /api/summary/{month}", s.handleSummary)
	mux.HandleFunc("GET /api/ytd/{year}", s.handleYTD)
	mux.HandleFunc("GET /api/compare", s.handleCompare)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	return s.logRequests(mux)
}

// ListenAndServe runs the server until the context is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard server listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Handler exposes the route table for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	months, err := s.svc.AvailableMonths(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if months == nil {
		months = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"months": months})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	month := r.PathValue("month")
	if !validMonth(month) {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid month %q, expected YYYY-MM", month))
		return
	}

	summary, err := s.svc.MonthlySummary(r.Context(), month)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if summary == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("no expenses found for %s", month))
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleYTD(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year < 1970 || year > 9999 {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid year %q", r.PathValue("year")))
		return
	}

	summary, err := s.svc.YearToDateSummary(r.Context(), year)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if summary == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("no expenses found for %d", year))
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	month1 := r.URL.Query().Get("month1")
	month2 := r.URL.Query().Get("month2")
	if !validMonth(month1) || !validMonth(month2) {
		s.writeError(w, http.StatusBadRequest,
			fmt.Errorf("month1 and month2 query parameters are required in YYYY-MM form"))
		return
	}

	comparison, err := s.svc.CompareMonths(r.Context(), month1, month2)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if comparison == nil {
		s.writeError(w, http.StatusNotFound,
			fmt.Errorf("no expenses found for %s or %s", month1, month2))
		return
	}
	s.writeJSON(w, http.StatusOK, comparison)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Stats(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"categories": model.AllCategories()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

// validMonth checks the YYYY-MM shape without pulling in time parsing.
func validMonth(s string) bool {
	if len(s) != 7 || s[4] != '-' {
		return false
	}
	for i, ch := range s {
		if i == 4 {
			continue
		}
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
