package emulator

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tidecraft/ballast/internal/client"
)

type contextKey string

const contextKeyRequestID = contextKey("request_id")

// RequestIDFromContext returns the request id stamped by the middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("x-ms-request-id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKeyRequestID, id)))
	})
}

// statusWriter captures the response status for logging and metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		service := chi.URLParam(r, "service")
		s.metrics.IncrementRequest(service, r.Method, sw.status)
		s.metrics.RecordLatency(service, r.Method, time.Since(start).Seconds())

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Duration("latency", time.Since(start)),
		)
	})
}

// accountLimiters hands out one token bucket per account.
type accountLimiters struct {
	mu       sync.Mutex
	rps      int
	burst    int
	limiters map[string]*rate.Limiter
}

func newAccountLimiters(rps, burst int) *accountLimiters {
	return &accountLimiters{rps: rps, burst: burst, limiters: make(map[string]*rate.Limiter)}
}

func (a *accountLimiters) allow(account string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	l, ok := a.limiters[account]
	if !ok {
		l = rate.NewLimiter(rate.Limit(a.rps), a.burst)
		a.limiters[account] = l
	}
	return l.Allow()
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiters == nil {
			next.ServeHTTP(w, r)
			return
		}

		account := chi.URLParam(r, "account")
		if !s.limiters.allow(account) {
			s.metrics.IncrementRejected(ErrServerBusy)
			WriteError(w, ErrServerBusy, RequestIDFromContext(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authMiddleware verifies shared-key signatures when the server carries
// account keys. Requests without an Authorization header are rejected in
// that mode; with no keys configured every request passes (emulator default).
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cred := s.credentialFor(chi.URLParam(r, "account"))
		if cred == nil && !s.authRequired() {
			next.ServeHTTP(w, r)
			return
		}

		if cred == nil || !verifySharedKey(cred, r) {
			s.metrics.IncrementRejected(ErrAuthenticationFailed)
			WriteError(w, ErrAuthenticationFailed, RequestIDFromContext(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func verifySharedKey(cred *client.SharedKeyCredential, r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	prefix := client.AuthScheme + " " + cred.Account + ":"
	if !strings.HasPrefix(auth, prefix) {
		return false
	}

	date := r.Header.Get("x-ms-date")
	if date == "" {
		return false
	}

	sig := strings.TrimPrefix(auth, prefix)
	return cred.Verify(r.Method, date, r.URL.Path, sig)
}
