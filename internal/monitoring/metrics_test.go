// internal/monitoring/metrics_test.go
package monitoring

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsManager_Counters(t *testing.T) {
	mm := NewMetricsManager(MetricsConfig{})

	mm.RecordCacheLookup("movie", "fresh")
	mm.RecordCacheLookup("movie", "cached")
	mm.RecordCacheLookup("movie", "cached")
	mm.RecordFetch("movie", 20*time.Millisecond, nil)
	mm.RecordFetch("movie", 5*time.Millisecond, errors.New("timeout"))
	mm.RecordFailure("movie", "fetch")

	if got := testutil.ToFloat64(mm.cacheLookups.WithLabelValues("movie", "cached")); got != 2 {
		t.Errorf("expected 2 cached lookups, got %v", got)
	}
	if got := testutil.ToFloat64(mm.fetchErrors.WithLabelValues("movie")); got != 1 {
		t.Errorf("expected 1 fetch error, got %v", got)
	}
	if got := testutil.ToFloat64(mm.extractionErrors.WithLabelValues("movie", "fetch")); got != 1 {
		t.Errorf("expected 1 failure, got %v", got)
	}
}

func TestMetricsManager_IndependentRegistries(t *testing.T) {
	// Two managers must not collide on registration.
	a := NewMetricsManager(MetricsConfig{})
	b := NewMetricsManager(MetricsConfig{EnableGoMetrics: true})
	a.RecordHTTPRequest("/movie/{id}", "200")
	b.RecordHTTPRequest("/movie/{id}", "200")
}

func TestMetricsManager_NilSafe(t *testing.T) {
	var mm *MetricsManager
	mm.RecordCacheLookup("movie", "fresh")
	mm.RecordFetch("movie", time.Second, nil)
	mm.RecordExtractionTime("movie", time.Millisecond)
	mm.RecordFailure("movie", "parse")
	mm.RecordHTTPRequest("/", "200")
	if mm.Registry() != nil {
		t.Error("nil manager should have no registry")
	}
}

func TestMetricsHandler(t *testing.T) {
	mm := NewMetricsManager(MetricsConfig{})
	mm.RecordCacheLookup("person", "fresh")

	rec := httptest.NewRecorder()
	mm.MetricsHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `scrapecache_engine_cache_lookups_total{provenance="fresh",resource="person"} 1`) {
		t.Errorf("exposition missing cache counter:\n%s", body)
	}
}
