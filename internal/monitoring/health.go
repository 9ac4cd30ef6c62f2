// internal/monitoring/health.go
package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusDegraded  HealthStatus = "degraded"
)

// HealthCheckFunc reports the state of one component.
type HealthCheckFunc func(ctx context.Context) HealthCheckResult

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status   HealthStatus           `json:"status"`
	Message  string                 `json:"message,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type healthCheck struct {
	name     string
	fn       HealthCheckFunc
	critical bool
}

// SystemHealth is the /health response body.
type SystemHealth struct {
	Status    HealthStatus                 `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Version   string                       `json:"version,omitempty"`
	Uptime    string                       `json:"uptime"`
	Checks    map[string]HealthCheckResult `json:"checks,omitempty"`
	System    SystemMetrics                `json:"system"`
}

// SystemMetrics provides process-level figures.
type SystemMetrics struct {
	GoroutineCount int    `json:"goroutine_count"`
	AllocatedBytes uint64 `json:"allocated_bytes"`
	SystemBytes    uint64 `json:"system_bytes"`
	NumGC          uint32 `json:"num_gc"`
}

// HealthManager runs registered checks on demand. It has no background
// goroutines; every call to GetHealth evaluates the checks afresh.
type HealthManager struct {
	mu      sync.RWMutex
	checks  []healthCheck
	version string
	started time.Time
	timeout time.Duration
}

// NewHealthManager creates a new health manager
func NewHealthManager(version string) *HealthManager {
	return &HealthManager{
		version: version,
		started: time.Now(),
		timeout: 5 * time.Second,
	}
}

// RegisterCheck adds a named check. A failing critical check makes the whole
// service unhealthy; a failing non-critical one only degrades it.
func (hm *HealthManager) RegisterCheck(name string, critical bool, fn HealthCheckFunc) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	hm.checks = append(hm.checks, healthCheck{name: name, fn: fn, critical: critical})
}

// GetHealth returns the overall health status
func (hm *HealthManager) GetHealth(ctx context.Context) SystemHealth {
	hm.mu.RLock()
	checks := make([]healthCheck, len(hm.checks))
	copy(checks, hm.checks)
	hm.mu.RUnlock()

	sort.Slice(checks, func(i, j int) bool { return checks[i].name < checks[j].name })

	ctx, cancel := context.WithTimeout(ctx, hm.timeout)
	defer cancel()

	health := SystemHealth{
		Status:    HealthStatusHealthy,
		Timestamp: time.Now(),
		Version:   hm.version,
		Uptime:    time.Since(hm.started).Round(time.Second).String(),
		Checks:    make(map[string]HealthCheckResult, len(checks)),
		System:    systemMetrics(),
	}

	for _, c := range checks {
		result := c.fn(ctx)
		health.Checks[c.name] = result

		switch result.Status {
		case HealthStatusHealthy:
		case HealthStatusUnhealthy:
			if c.critical {
				health.Status = HealthStatusUnhealthy
			} else if health.Status == HealthStatusHealthy {
				health.Status = HealthStatusDegraded
			}
		default:
			if health.Status == HealthStatusHealthy {
				health.Status = HealthStatusDegraded
			}
		}
	}

	return health
}

func systemMetrics() SystemMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SystemMetrics{
		GoroutineCount: runtime.NumGoroutine(),
		AllocatedBytes: m.Alloc,
		SystemBytes:    m.Sys,
		NumGC:          m.NumGC,
	}
}

// HealthHandler serves GetHealth as JSON; unhealthy maps to 503.
func (hm *HealthManager) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := hm.GetHealth(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if health.Status == HealthStatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		json.NewEncoder(w).Encode(health)
	}
}
