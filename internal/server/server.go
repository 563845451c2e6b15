package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/profile-optimizer/internal/db"
	"github.com/jonathan/profile-optimizer/internal/logger"
	"github.com/jonathan/profile-optimizer/internal/queue"
	"github.com/jonathan/profile-optimizer/internal/server/middleware"
	"github.com/jonathan/profile-optimizer/internal/server/ratelimit"
	"github.com/jonathan/profile-optimizer/internal/types"
)

// Repository is the persistence used by the handlers. *db.DB implements it.
type Repository interface {
	Ping(ctx context.Context) error
	SaveProfile(ctx context.Context, userID uuid.UUID, profile *types.ProfileInput) (uuid.UUID, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*db.ProfileRecord, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) error
	SaveJob(ctx context.Context, userID uuid.UUID, job *types.JobContext) (uuid.UUID, error)
	GetJob(ctx context.Context, id uuid.UUID) (*db.JobRecord, error)
	SaveReport(ctx context.Context, input *db.ReportCreateInput) (*db.ReportRecord, error)
	GetReport(ctx context.Context, id uuid.UUID) (*db.ReportRecord, error)
	ListReports(ctx context.Context, userID *uuid.UUID, filters types.ReportFilters) (*db.ReportList, error)
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

// Analyzer scores profiles. *optimizer.Engine implements it.
type Analyzer interface {
	AnalyzeProfile(ctx context.Context, profile *types.ProfileInput, job *types.JobContext) (*types.AnalysisReport, error)
	Fingerprint(profile *types.ProfileInput, job *types.JobContext) (string, error)
	MatchJobToResume(jobText, resumeText string) (*types.JobMatchResult, error)
}

// ReportCache memoizes reports by input fingerprint. *reportcache.Cache implements it.
type ReportCache interface {
	Get(ctx context.Context, fingerprint string) (*types.AnalysisReport, bool, error)
	Put(ctx context.Context, fingerprint string, report *types.AnalysisReport) error
}

// ReportExporter uploads reports. *export.Exporter implements it.
type ReportExporter interface {
	ExportReport(ctx context.Context, reportID uuid.UUID, report *types.AnalysisReport) (string, error)
}

// Enqueuer submits analyses to the worker. *queue.Producer implements it.
type Enqueuer interface {
	Enqueue(ctx context.Context, req queue.AnalysisRequest) error
}

// Deps are the collaborators of a Server. Cache, Exporter and Queue are optional.
type Deps struct {
	Repo      Repository
	Analyzer  Analyzer
	Tokens    middleware.TokenValidator
	Admins    *AdminPolicy
	Cache     ReportCache
	Exporter  ReportExporter
	Queue     Enqueuer
	RateLimit *ratelimit.Config
	Logger    *zap.Logger
}

// Config holds server configuration
type Config struct {
	Port       int
	CORSOrigin string
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	repo        Repository
	analyzer    Analyzer
	tokens      middleware.TokenValidator
	admins      *AdminPolicy
	cache       ReportCache
	exporter    ReportExporter
	queue       Enqueuer
	rateLimiter *ratelimit.Limiter
	corsOrigin  string
	logger      *zap.Logger
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Repo == nil || deps.Analyzer == nil || deps.Tokens == nil {
		return nil, fmt.Errorf("server requires a repository, an analyzer and a token validator")
	}

	s := &Server{
		repo:        deps.Repo,
		analyzer:    deps.Analyzer,
		tokens:      deps.Tokens,
		admins:      deps.Admins,
		cache:       deps.Cache,
		exporter:    deps.Exporter,
		queue:       deps.Queue,
		rateLimiter: ratelimit.NewLimiter(deps.RateLimit),
		corsOrigin:  cfg.CORSOrigin,
		logger:      logger.OrNop(deps.Logger),
	}
	if s.admins == nil {
		s.admins = NewAdminPolicy(nil)
	}
	if s.corsOrigin == "" {
		s.corsOrigin = "*"
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler with every middleware applied.
func (s *Server) Handler() http.Handler {
	auth := middleware.AuthMiddleware(s.tokens)
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.Handle("POST /analyses", protected(s.handleAnalyze))
	mux.Handle("POST /analyses/async", protected(s.handleAnalyzeAsync))
	mux.Handle("GET /analyses", protected(s.handleListReports))
	mux.Handle("GET /analyses/{id}", protected(s.handleGetReport))
	mux.Handle("DELETE /analyses/{id}", protected(s.handleDeleteReport))
	mux.Handle("POST /analyses/{id}/export", protected(s.handleExportReport))

	mux.Handle("POST /jobs/analysis", protected(s.handleMatchJob))
	mux.Handle("POST /jobs", protected(s.handleCreateJob))

	mux.Handle("POST /profiles", protected(s.handleSaveProfile))
	mux.Handle("DELETE /profiles/{id}", protected(s.handleDeleteProfile))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start listens until ctx is cancelled or the process receives SIGINT or SIGTERM,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.rateLimiter.Stop()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.rateLimiter.Stop()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging assigns a request ID and logs each request on completion.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			zap.String(logger.FieldRequestID, requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// withRateLimit rejects clients that exceed their per-endpoint budget.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractClientID returns the client IP from RemoteAddr.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.UTC().Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(math.Ceil(info.RetryAfter.Seconds()))
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded", zap.Int("limit", info.Limit), zap.Duration("retry_after", info.RetryAfter))
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
