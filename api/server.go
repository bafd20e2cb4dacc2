// Package api is a thin HTTP layer over the batch processor.
// The API never prices anything itself.
package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"commission-calc/core/batch"
	"commission-calc/core/output"
	"commission-calc/core/rates"
	"commission-calc/core/types"
	"commission-calc/internal/errors"
	"commission-calc/internal/logging"
)

// DefaultMaxBodyBytes caps a batch upload
const DefaultMaxBodyBytes int64 = 10 * 1024 * 1024

// Server is the API server
type Server struct {
	router    chi.Router
	processor *batch.Processor
	rates     *rates.Cache
	version   string
	maxBody   int64
	log       *zap.Logger
}

// NewServer creates a server. rateCache must be the cache processor uses
// so that refreshes are visible to subsequent batches.
func NewServer(version string, processor *batch.Processor, rateCache *rates.Cache, maxBody int64) *Server {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	s := &Server{
		router:    chi.NewRouter(),
		processor: processor,
		rates:     rateCache,
		version:   version,
		maxBody:   maxBody,
		log:       logging.Named("api"),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/commissions", s.handleCommissions)
		r.Get("/rates", s.handleRates)
		r.Post("/rates/refresh", s.handleRefreshRates)
	})
}

// handleCommissions handles POST /v1/commissions. The body is the same
// newline-delimited JSON the CLI reads.
func (s *Server) handleCommissions(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)

	report, err := s.processor.Process(r.Context(), body, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	for _, n := range report.Notices {
		s.log.Warn("unpriced record",
			zap.String("run_id", report.RunID),
			zap.Int("line", n.Line),
			zap.String("reason", n.Reason),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := (output.JSONFormatter{}).Render(w, report); err != nil {
		s.log.Error("writing response failed", zap.Error(err))
	}
}

type ratesResponse struct {
	Base    string            `json:"base"`
	Source  string            `json:"source"`
	Rates   map[string]string `json:"rates"`
	Fetches int               `json:"fetches"`
}

// handleRates handles GET /v1/rates
func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	table, err := s.rates.Rates(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeRates(w, table)
}

// handleRefreshRates handles POST /v1/rates/refresh
func (s *Server) handleRefreshRates(w http.ResponseWriter, r *http.Request) {
	table, err := s.rates.Refresh(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeRates(w, table)
}

func (s *Server) writeRates(w http.ResponseWriter, table *types.RateTable) {
	resp := ratesResponse{
		Base:    table.Base.String(),
		Source:  table.Source,
		Rates:   make(map[string]string, table.Len()),
		Fetches: s.rates.Fetches(),
	}
	for code, rate := range table.Map() {
		resp.Rates[code.String()] = rate.String()
	}
	s.writeJSON(w, resp, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	payload := map[string]interface{}{
		"type":    errors.TypeInternal,
		"message": err.Error(),
	}

	if e, ok := errors.As(err); ok {
		payload["type"] = e.Type
		payload["message"] = e.Message
		if len(e.Context) > 0 {
			payload["context"] = e.Context
		}
		switch e.Type {
		case errors.TypeParsing, errors.TypeValidation:
			status = http.StatusBadRequest
		case errors.TypeLookup:
			status = http.StatusBadGateway
		}
	}

	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}

	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, map[string]interface{}{"error": payload}, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
