package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/logging"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/matching"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	svc         *matching.Service
	logger      *zap.Logger
	rateLimiter *ratelimit.Limiter
	onStop      []func()
}

// Config holds server configuration
type Config struct {
	Port int
	// RateLimit is the default number of requests per minute per client; zero disables limiting
	RateLimit int
}

// New creates a new server instance serving the given matching service
func New(svc *matching.Service, cfg Config, logger *zap.Logger) *Server {
	s := &Server{
		svc:    svc,
		logger: logging.ForComponent(logger, "server"),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			DefaultPerMinute: cfg.RateLimit,
			Rules:            ratelimit.DefaultRules(cfg.RateLimit),
		}),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Batch runs can be long
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// OnStop registers a function run after the server has shut down
func (s *Server) OnStop(fn func()) {
	s.onStop = append(s.onStop, fn)
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Matching runs and per-job analytics
	mux.HandleFunc("POST /jobs/{id}/matches", s.handleCalculateMatches)
	mux.HandleFunc("GET /jobs/{id}/matches", s.handleListMatches)
	mux.HandleFunc("GET /jobs/{id}/distribution", s.handleDistribution)
	mux.HandleFunc("GET /jobs/{id}/review-summary", s.handleReviewSummary)
	mux.HandleFunc("GET /jobs/{id}/skill-gaps", s.handleSkillGaps)
	mux.HandleFunc("POST /batch-match", s.handleBatchMatch)

	// Individual matches and review workflow
	mux.HandleFunc("GET /matches/{id}", s.handleGetMatch)
	mux.HandleFunc("GET /matches/{id}/explanation", s.handleExplain)
	mux.HandleFunc("POST /matches/{id}/review", s.handleReview)
	mux.HandleFunc("POST /matches/bulk-review", s.handleBulkReview)

	// Candidate pool
	mux.HandleFunc("POST /candidates/search", s.handleSearchCandidates)
	mux.HandleFunc("POST /candidates/bulk-status", s.handleBulkStatus)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sweep := time.NewTicker(5 * time.Minute)
	defer sweep.Stop()

loop:
	for {
		select {
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		case <-sweep.C:
			if n := s.rateLimiter.Sweep(); n > 0 {
				s.logger.Debug("removed idle rate limit buckets", zap.Int("buckets", n))
			}
		case <-stop:
			break loop
		}
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	for _, fn := range s.onStop {
		fn()
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects requests over the client's budget with 429
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := s.rateLimiter.Allow(s.extractClientID(r), r.Method, r.URL.Path)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		}
		if !info.Allowed {
			retry := int(info.RetryAfter.Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			s.logger.Warn("rate limit exceeded",
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
				zap.Int("limit", info.Limit),
			)
			s.errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// extractClientID extracts the client identifier from the request.
func (s *Server) extractClientID(r *http.Request) string {
	// Get IP from RemoteAddr (format: "IP:port")
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// response is the envelope of every reply
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

func (s *Server) success(w http.ResponseWriter, status int, data any) {
	s.jsonResponse(w, status, response{Success: true, Data: data})
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, response{Success: false, Message: message})
}

// fail maps err to a status and writes it. Internal errors are logged and not echoed.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
		s.errorResponse(w, status, "Internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
