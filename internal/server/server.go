// Package server provides the HTTP REST API for the outreach agent.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jordan/outreach-agent/internal/config"
	"github.com/jordan/outreach-agent/internal/db"
	"github.com/jordan/outreach-agent/internal/outreach"
	"github.com/jordan/outreach-agent/internal/peoplesearch"
	"github.com/jordan/outreach-agent/internal/server/middleware"
	"github.com/jordan/outreach-agent/internal/server/ratelimit"
	"github.com/jordan/outreach-agent/internal/types"
)

// Agent is the orchestration surface the API exposes over HTTP.
type Agent interface {
	ScrapeProfile(ctx context.Context, profileURL string, opts outreach.ScrapeOptions) (*types.ProfileSnapshot, error)
	FindSimilar(ctx context.Context, contacted types.ContactedPerson) (*peoplesearch.SimilarResult, error)
	DraftEmail(ctx context.Context, snapshot *types.ProfileSnapshot, template types.EmailTemplate) (*types.DraftEmail, error)
	ClearResolutionCache()
}

// Config holds server configuration.
type Config struct {
	Addr string
	// APITokenHash is the bcrypt hash of the access token callers present as
	// a bearer token. Empty disables authentication, for local use.
	APITokenHash string
	Tokens       *config.TokenConfig
	RateLimit    *ratelimit.Config
	Logger       *zap.Logger
}

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	agent       Agent
	store       *db.DB
	rateLimiter *ratelimit.Limiter
	logger      *zap.Logger
	validate    *validator.Validate
}

// New creates a new server instance. store may be nil; the template and
// contact endpoints then report that persistence is not configured.
func New(cfg Config, agent Agent, store *db.DB) (*Server, error) {
	if agent == nil {
		return nil, fmt.Errorf("agent is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.APITokenHash != "" && cfg.Tokens == nil {
		tokens, err := config.NewTokenConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create token config: %w", err)
		}
		cfg.Tokens = tokens
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}

	s := &Server{
		agent:       agent,
		store:       store,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		logger:      cfg.Logger,
		validate:    validator.New(),
	}

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /resolve", s.handleResolve)
	mux.HandleFunc("POST /similar", s.handleSimilar)
	mux.HandleFunc("POST /draft", s.handleDraft)
	mux.HandleFunc("POST /cache/clear", s.handleClearCache)

	// Persistence endpoints
	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("POST /templates", s.handleSaveTemplate)
	mux.HandleFunc("GET /templates/{id}", s.handleGetTemplate)
	mux.HandleFunc("DELETE /templates/{id}", s.handleDeleteTemplate)
	mux.HandleFunc("GET /contacts", s.handleListContacts)
	mux.HandleFunc("GET /contacts/by-url", s.handleGetContactByURL)
	mux.HandleFunc("GET /resolutions", s.handleListResolutions)

	var handler http.Handler = s.withCORS(mux)
	if cfg.APITokenHash != "" {
		handler = middleware.Auth(cfg.Tokens, cfg.APITokenHash)(handler)
	}
	handler = s.withRateLimit(s.withLogging(handler))

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // scrapes may poll the contact overlay
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the composed handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until an interrupt or
// termination signal arrives, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	if s.store != nil {
		s.store.Close()
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers so the browser-extension UI can call the API.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request. This uses
// the IP address from RemoteAddr; X-Forwarded-For would only be trustworthy
// behind a known proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit
// information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.logger.Warn("rate limit exceeded",
		zap.Int("limit", info.Limit),
		zap.Int("remaining", info.Remaining),
		zap.Time("reset_at", info.ResetTime),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
