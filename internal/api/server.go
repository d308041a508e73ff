package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"FXStrength/internal/calculator"
	"FXStrength/internal/observability"
	"FXStrength/internal/store"
	"FXStrength/internal/strength"
)

// maxBodyBytes caps POST bodies; a year of 26 pairs fits comfortably.
const maxBodyBytes = 8 << 20

type Server struct {
	svc        *strength.Service
	metrics    *observability.Metrics
	pool       *store.Pool // optional archive, reported by /health
	httpServer *http.Server
	apiKey     string
}

func NewServer(svc *strength.Service, metrics *observability.Metrics, pool *store.Pool, port int, apiKey, corsOrigin string) *Server {
	s := &Server{
		svc:     svc,
		metrics: metrics,
		pool:    pool,
		apiKey:  apiKey,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.routes(corsOrigin),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

func (s *Server) routes(corsOrigin string) http.Handler {
	mux := http.NewServeMux()

	// Strength routes
	mux.HandleFunc("GET /v1/strength", s.handleStrength)
	mux.HandleFunc("GET /v1/strength/ranking", s.handleRanking)
	mux.HandleFunc("POST /v1/strength/compute", s.handleCompute)
	mux.HandleFunc("GET /v1/universe", s.handleUniverse)

	// Health check and metrics (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	return s.metricsMiddleware(s.authMiddleware(corsMiddleware(mux, corsOrigin)))
}

func (s *Server) Start() error {
	log.Printf("[INFO] REST API server started on http://localhost%s", s.httpServer.Addr)
	if s.apiKey != "" {
		log.Println("[INFO] API authentication: enabled (Bearer token)")
	} else {
		log.Println("[INFO] API authentication: disabled (no API_KEY configured)")
	}
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.URL.Path == "/health" || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware counts requests by matched route pattern so that
// unmatched paths collapse into a single label.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.RecordHTTP(route, rec.status)
	})
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode %d response: %v", status, err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// errorResponse keeps the chart shape so clients can render an empty state.
type errorResponse struct {
	Error  string `json:"error"`
	Series []any  `json:"series"`
}

// writeStrengthError maps calculation failures onto HTTP statuses.
func writeStrengthError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case calculator.IsConfigurationError(err):
		status = http.StatusBadRequest
	case calculator.IsComputationError(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, strength.ErrNoBasket):
		status = http.StatusServiceUnavailable
	default:
		log.Printf("[ERROR] strength request: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Series: []any{}})
}
