// Package server provides the HTTP API for the takeaways generator.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/takeaways/internal/config"
	"github.com/jonathan/takeaways/internal/llm"
	"github.com/jonathan/takeaways/internal/pipeline"
	"github.com/jonathan/takeaways/internal/server/middleware"
	"github.com/jonathan/takeaways/internal/server/ratelimit"
	"github.com/jonathan/takeaways/internal/session"
)

// Results are kept this long so the output can be downloaded after generation.
const (
	resultTTL  = time.Hour
	maxResults = 256
)

// Runner executes one generation.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request, creds llm.Credentials) (*pipeline.Result, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	cfg         *config.Config
	profile     *config.Profile
	runner      Runner
	sessions    *session.Manager
	rateLimiter *ratelimit.Limiter
	results     *expirable.LRU[string, *pipeline.Result]
	logger      *zap.Logger
}

// New creates a new server instance
func New(cfg *config.Config, runner Runner, sessions *session.Manager, logger *zap.Logger) (*Server, error) {
	profile, err := cfg.ActiveProfile()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:      cfg,
		profile:  profile,
		runner:   runner,
		sessions: sessions,
		rateLimiter: ratelimit.NewLimiter(ratelimit.NewConfig(
			cfg.Server.RateLimit.RequestsPerMinute,
			cfg.Server.RateLimit.Burst,
		)),
		results: expirable.NewLRU[string, *pipeline.Result](maxResults, nil, resultTTL),
		logger:  logger.Named("server"),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // long documents take one model call per chunk
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /catalog", s.handleCatalog)
	mux.HandleFunc("POST /session", s.handleStartSession)
	mux.HandleFunc("DELETE /session", s.handleEndSession)
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("POST /generate/stream", s.handleGenerateStream)
	mux.HandleFunc("GET /results/{id}", s.handleResult)
	mux.HandleFunc("GET /results/{id}/output.txt", s.handleDownload)

	var h http.Handler = mux
	if s.sessions != nil {
		h = middleware.Sessions(s.sessions, s.cfg.Session.CookieName)(h)
	}
	return s.withRateLimit(s.withLogging(s.withCORS(h)))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server starting", zap.String("addr", ln.Addr().String()), zap.String("profile", s.profile.Name))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		s.rateLimiter.Stop()
		s.logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}

// withCORS adds CORS headers for the configured origins
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.allowedOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if origin != "*" {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowedOrigin(origin string) string {
	origins := s.cfg.Server.AllowedOrigins
	switch {
	case slices.Contains(origins, "*"):
		return "*"
	case origin != "" && slices.Contains(origins, origin):
		return origin
	default:
		return ""
	}
}

// withRateLimit adds rate limiting middleware
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

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

// statusRecorder captures the response status for logging and keeps streaming working.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// extractClientID uses the IP address from RemoteAddr.
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
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())+1))
	}
	s.logger.Warn("rate limit exceeded",
		zap.Int("limit", info.Limit),
		zap.Time("reset", info.ResetTime))
	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":    "rate_limit_exceeded",
		"message":  "Rate limit exceeded. Please try again later.",
		"limit":    info.Limit,
		"reset_at": info.ResetTime.Format(time.RFC3339),
	})
}
