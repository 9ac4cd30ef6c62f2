// internal/monitoring/health_test.go
package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func staticCheck(status HealthStatus) HealthCheckFunc {
	return func(context.Context) HealthCheckResult {
		return HealthCheckResult{Status: status}
	}
}

func TestHealthManager_GetHealth(t *testing.T) {
	tests := []struct {
		name     string
		critical bool
		status   HealthStatus
		want     HealthStatus
	}{
		{"healthy", true, HealthStatusHealthy, HealthStatusHealthy},
		{"critical failure", true, HealthStatusUnhealthy, HealthStatusUnhealthy},
		{"non-critical failure", false, HealthStatusUnhealthy, HealthStatusDegraded},
		{"degraded", true, HealthStatusDegraded, HealthStatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hm := NewHealthManager("test")
			hm.RegisterCheck("ok", true, staticCheck(HealthStatusHealthy))
			hm.RegisterCheck("subject", tt.critical, staticCheck(tt.status))

			health := hm.GetHealth(context.Background())
			if health.Status != tt.want {
				t.Errorf("expected status %s, got %s", tt.want, health.Status)
			}
			if len(health.Checks) != 2 {
				t.Errorf("expected 2 check results, got %d", len(health.Checks))
			}
			if health.Version != "test" {
				t.Errorf("expected version 'test', got %q", health.Version)
			}
		})
	}
}

func TestHealthManager_HealthHandler(t *testing.T) {
	hm := NewHealthManager("test")
	hm.RegisterCheck("cache", true, func(context.Context) HealthCheckResult {
		return HealthCheckResult{
			Status:   HealthStatusHealthy,
			Metadata: map[string]interface{}{"entries": 3},
		}
	})

	rec := httptest.NewRecorder()
	hm.HealthHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body SystemHealth
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Checks["cache"].Metadata["entries"] != float64(3) {
		t.Errorf("expected cache entries 3, got %v", body.Checks["cache"].Metadata["entries"])
	}
}

func TestHealthManager_HealthHandler_Unhealthy(t *testing.T) {
	hm := NewHealthManager("test")
	hm.RegisterCheck("broken", true, staticCheck(HealthStatusUnhealthy))

	rec := httptest.NewRecorder()
	hm.HealthHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}
