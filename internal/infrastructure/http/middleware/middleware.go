// Package middleware provides HTTP middleware components
// following the Chain of Responsibility pattern
package middleware

import (
	"context"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pantrychef/v2/internal/infrastructure/config"
	"github.com/pantrychef/v2/internal/infrastructure/monitoring"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type contextKey string

// RequestIDKey carries the request ID through the request context
const RequestIDKey contextKey = "request_id"

// maxTrackedClients bounds the limiter map; stale entries are pruned once
// the map grows past it.
const maxTrackedClients = 1024

// visitor tracks one client's token bucket
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Middleware provides all middleware functions
type Middleware struct {
	config  *config.Config
	logger  *zap.Logger
	metrics *monitoring.MetricsCollector

	mu       sync.Mutex
	visitors map[string]*visitor
}

// New creates a new middleware instance
func New(cfg *config.Config, logger *zap.Logger, metrics *monitoring.MetricsCollector) *Middleware {
	return &Middleware{
		config:   cfg,
		logger:   logger,
		metrics:  metrics,
		visitors: make(map[string]*visitor),
	}
}

// RequestID adds a unique request ID to the context and response headers
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logger provides structured logging for requests
func (m *Middleware) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		// Skip logging for health checks
		if r.URL.Path == m.config.Monitoring.HealthCheckPath {
			return
		}

		latency := time.Since(start)
		m.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("latency", latency),
			zap.String("request_id", RequestIDFromContext(r.Context())),
		)

		if m.metrics != nil {
			m.metrics.ObserveHTTPRequest(r.Method, r.URL.Path, strconv.Itoa(rec.status), latency)
		}
	})
}

// Recovery converts panics into 500 responses instead of dropped connections
func (m *Middleware) Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				m.logger.Error("Panic recovered in HTTP handler",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// RateLimit enforces the configured request rate per client, keyed by the
// remote host. Each client gets its own token bucket.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	if !m.config.RateLimit.Enable {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.clientLimiter(r).Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientLimiter returns the token bucket for the request's remote host,
// creating it on first sight and pruning idle clients when the map is full.
func (m *Middleware) clientLimiter(r *http.Request) *rate.Limiter {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if v, ok := m.visitors[host]; ok {
		v.lastSeen = now
		return v.limiter
	}

	if len(m.visitors) >= maxTrackedClients {
		for k, v := range m.visitors {
			if now.Sub(v.lastSeen) > 10*time.Minute {
				delete(m.visitors, k)
			}
		}
	}

	v := &visitor{
		limiter: rate.NewLimiter(
			rate.Limit(m.config.RateLimit.RequestsPerMin)/60,
			m.config.RateLimit.BurstSize,
		),
		lastSeen: now,
	}
	m.visitors[host] = v
	return v.limiter
}

// RequestIDFromContext returns the request ID, or "" when absent
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
