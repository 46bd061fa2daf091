package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selivandex/tadawul-sentiment/pkg/logger"
)

// Checker reports dependency health
type Checker interface {
	Health() error
}

// Health serves liveness and readiness probes
type Health struct {
	checks    map[string]Checker
	ready     bool
	readyMu   sync.RWMutex
	startTime time.Time
}

// HealthStatus represents system health
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ReadinessStatus represents system readiness
type ReadinessStatus struct {
	Ready     bool              `json:"ready"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// NewHealth creates probe handlers; nil checkers are skipped
func NewHealth(checks map[string]Checker) *Health {
	active := make(map[string]Checker, len(checks))
	for name, c := range checks {
		if c != nil {
			active[name] = c
		}
	}

	return &Health{
		checks:    active,
		startTime: time.Now(),
	}
}

// SetReady marks the service as ready
func (h *Health) SetReady(ready bool) {
	h.readyMu.Lock()
	defer h.readyMu.Unlock()
	h.ready = ready

	if ready {
		logger.Info("✅ service marked as READY")
	} else {
		logger.Warn("⚠️ service marked as NOT READY")
	}
}

// handleHealth handles liveness probe - /health
// Returns 200 if process is alive (even if dependencies are down)
func (h *Health) handleHealth(c *gin.Context) {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	if c.Query("verbose") == "true" {
		status.Checks, _ = h.runChecks()
	}

	c.JSON(http.StatusOK, status)
}

// handleReadiness handles readiness probe - /ready
// Returns 200 only if startup completed and dependencies are healthy
func (h *Health) handleReadiness(c *gin.Context) {
	h.readyMu.RLock()
	ready := h.ready
	h.readyMu.RUnlock()

	checks, allHealthy := h.runChecks()
	isReady := ready && allHealthy

	status := ReadinessStatus{
		Ready:     isReady,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if isReady {
		c.JSON(http.StatusOK, status)
		return
	}
	c.JSON(http.StatusServiceUnavailable, status)
}

func (h *Health) runChecks() (map[string]string, bool) {
	results := make(map[string]string, len(h.checks))
	allHealthy := true
	for name, checker := range h.checks {
		if err := checker.Health(); err != nil {
			results[name] = "unhealthy: " + err.Error()
			allHealthy = false
			continue
		}
		results[name] = "healthy"
	}

	return results, allHealthy
}
