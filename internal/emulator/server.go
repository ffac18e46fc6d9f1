// Package emulator implements the service-properties endpoint of a storage
// account for local development and hermetic tests. It enforces the policies
// the real service checks on its side: retention day bounds, the CORS rule
// limit, and which configuration blocks each service kind supports.
package emulator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tidecraft/ballast/internal/client"
	"github.com/tidecraft/ballast/internal/config"
)

// Server serves the properties endpoints for the blob, queue and file
// services of any number of accounts.
type Server struct {
	cfg        *config.Config
	logger     *zap.Logger
	store      Store
	metrics    *Metrics
	limiters   *accountLimiters
	router     chi.Router
	httpServer *http.Server
	startTime  time.Time

	mu          sync.RWMutex
	creds       map[string]*client.SharedKeyCredential
	authEnabled bool
}

// NewServer wires the router, middleware and store together.
func NewServer(cfg *config.Config, logger *zap.Logger, store Store) (*Server, error) {
	s := &Server{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		metrics:   NewMetrics(),
		startTime: time.Now(),
	}

	if cfg.Limits.RequestsPerSecond > 0 {
		burst := cfg.Limits.Burst
		if burst <= 0 {
			burst = cfg.Limits.RequestsPerSecond
		}
		s.limiters = newAccountLimiters(cfg.Limits.RequestsPerSecond, burst)
	}

	if err := s.SetAccountKeys(cfg.Auth.Enabled, cfg.Auth.Accounts); err != nil {
		return nil, err
	}

	s.router = chi.NewRouter()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	s.router.Route("/{service}/{account}", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Use(s.rateLimitMiddleware)
		r.Get("/", s.handleGetProperties)
		r.Put("/", s.handleSetProperties)
	})
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetAccountKeys replaces the shared-key table. Called at startup and by the
// config watcher on reload.
func (s *Server) SetAccountKeys(enabled bool, accounts map[string]string) error {
	creds := make(map[string]*client.SharedKeyCredential, len(accounts))
	for account, key := range accounts {
		cred, err := client.NewSharedKeyCredential(account, key)
		if err != nil {
			return fmt.Errorf("account %s: %w", account, err)
		}
		creds[account] = cred
	}

	s.mu.Lock()
	s.creds = creds
	s.authEnabled = enabled
	s.mu.Unlock()
	return nil
}

// ApplyConfig picks up the reloadable parts of a changed configuration.
// Ports and the store driver need a restart.
func (s *Server) ApplyConfig(cfg *config.Config) {
	if err := s.SetAccountKeys(cfg.Auth.Enabled, cfg.Auth.Accounts); err != nil {
		s.logger.Warn("account key reload skipped", zap.Error(err))
	}
}

func (s *Server) credentialFor(account string) *client.SharedKeyCredential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds[account]
}

func (s *Server) authRequired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authEnabled
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	health := map[string]interface{}{
		"status": "healthy",
		"uptime": time.Since(s.startTime).Seconds(),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(health)
}

// Start blocks serving until Shutdown or failure.
func (s *Server) Start() error {
	s.logger.Info("starting emulator", zap.Int("port", s.cfg.Server.Port))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
