package metrics

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)

	metrics.Observe(http.MethodGet, "/cards", http.StatusOK, 30*time.Millisecond)
	metrics.Observe(http.MethodGet, "/cards", http.StatusOK, 45*time.Millisecond)
	metrics.Observe(http.MethodPost, "/users/login", http.StatusUnauthorized, 5*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	got, err := counterValue(mfs, "http_requests_total", map[string]string{
		"method": "GET", "route": "/cards", "status": "200",
	})
	if err != nil {
		t.Fatalf("fetch counter: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected 2 GET /cards requests, got %f", got)
	}

	got, err = counterValue(mfs, "http_requests_total", map[string]string{
		"method": "POST", "route": "/users/login", "status": "401",
	})
	if err != nil {
		t.Fatalf("fetch counter: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected 1 failed login observation, got %f", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *HTTPMetrics
	metrics.Observe(http.MethodGet, "/cards", http.StatusOK, time.Millisecond)

	empty := NewHTTPMetrics(nil)
	empty.Observe(http.MethodGet, "/cards", http.StatusOK, time.Millisecond)
}

func counterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metric
				}
			}
			return m.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %s with labels %v not found", name, labels)
}
