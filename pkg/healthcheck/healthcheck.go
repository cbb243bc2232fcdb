// Package healthcheck provides health and readiness check functionality
// following the Health Check API pattern for cloud-native applications.
package healthcheck

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// Check represents the result of one health check
type Check struct {
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"duration_ms"`
}

// Response represents the aggregated health check response
type Response struct {
	Status        Status        `json:"status"`
	Version       string        `json:"version"`
	Timestamp     time.Time     `json:"timestamp"`
	Checks        []Check       `json:"checks"`
	TotalDuration time.Duration `json:"total_duration_ms"`
}

// Checker defines the interface for health checks
type Checker interface {
	Check(ctx context.Context) Check
}

// CheckFunc adapts a function to the Checker interface. The function
// returns an error for unhealthy, nil for healthy.
type CheckFunc func(ctx context.Context) error

// NamedCheck binds a CheckFunc to a name
type NamedCheck struct {
	Name string
	Fn   CheckFunc
}

// Check implements Checker
func (c NamedCheck) Check(ctx context.Context) Check {
	start := time.Now()
	result := Check{
		Name:        c.Name,
		Status:      StatusHealthy,
		LastChecked: start,
	}
	if err := c.Fn(ctx); err != nil {
		result.Status = StatusUnhealthy
		result.Message = err.Error()
	}
	result.Duration = time.Since(start)
	return result
}

// HealthCheck manages registered checks and caches the aggregate result
type HealthCheck struct {
	version  string
	logger   *zap.Logger
	timeout  time.Duration
	cacheTTL time.Duration

	mu       sync.Mutex
	names    []string
	checkers map[string]Checker
	cached   *Response
	cachedAt time.Time
}

// New creates a new health check instance
func New(version string, logger *zap.Logger) *HealthCheck {
	return &HealthCheck{
		version:  version,
		logger:   logger.Named("healthcheck"),
		timeout:  5 * time.Second,
		cacheTTL: 5 * time.Second,
		checkers: make(map[string]Checker),
	}
}

// Register adds a checker under name. Registration order is the report order.
func (h *HealthCheck) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.checkers[name]; !ok {
		h.names = append(h.names, name)
	}
	h.checkers[name] = checker
}

// RegisterFunc adds a function-based checker
func (h *HealthCheck) RegisterFunc(name string, fn CheckFunc) {
	h.Register(name, NamedCheck{Name: name, Fn: fn})
}

// SetCacheTTL sets how long an aggregate result is reused
func (h *HealthCheck) SetCacheTTL(ttl time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cacheTTL = ttl
}

// Check runs every registered checker and aggregates the result. A recent
// result is served from cache so probe storms do not hammer dependencies.
func (h *HealthCheck) Check(ctx context.Context) Response {
	h.mu.Lock()
	if h.cached != nil && time.Since(h.cachedAt) < h.cacheTTL {
		cached := *h.cached
		h.mu.Unlock()
		return cached
	}
	names := append([]string(nil), h.names...)
	checkers := make(map[string]Checker, len(h.checkers))
	for name, c := range h.checkers {
		checkers[name] = c
	}
	timeout := h.timeout
	h.mu.Unlock()

	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	response := Response{
		Status:    StatusHealthy,
		Version:   h.version,
		Timestamp: start,
		Checks:    make([]Check, 0, len(names)),
	}

	unhealthy := 0
	for _, name := range names {
		result := checkers[name].Check(checkCtx)
		if result.Status == StatusUnhealthy {
			unhealthy++
			h.logger.Warn("Health check failed",
				zap.String("check", result.Name),
				zap.String("message", result.Message),
			)
		}
		response.Checks = append(response.Checks, result)
	}

	switch {
	case unhealthy == 0:
	case unhealthy == len(names):
		response.Status = StatusUnhealthy
	default:
		response.Status = StatusDegraded
	}
	response.TotalDuration = time.Since(start)

	h.mu.Lock()
	h.cached = &response
	h.cachedAt = time.Now()
	h.mu.Unlock()

	return response
}
