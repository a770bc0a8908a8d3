package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	APIRequests.Reset()

	ObserveRequest("GET", 200, 10*time.Millisecond)
	ObserveRequest("GET", 200, 20*time.Millisecond)
	ObserveRequest("POST", 0, time.Millisecond)

	if got := testutil.ToFloat64(APIRequests.WithLabelValues("GET", "200")); got != 2 {
		t.Errorf("Expected 2 GET/200 requests, got %f", got)
	}
	if got := testutil.ToFloat64(APIRequests.WithLabelValues("POST", "error")); got != 1 {
		t.Errorf("Expected 1 POST/error request, got %f", got)
	}
}

func TestOrderCounters(t *testing.T) {
	StatusChecks.Reset()
	OrdersPlaced.Reset()
	OrdersTerminal.Reset()

	var rec OrderRecorder
	rec.StatusChecked("PLACED")
	rec.StatusChecked("PLACED")
	rec.OrderPlaced("oneatlas")
	rec.Terminal("FULFILLED")

	if got := testutil.ToFloat64(StatusChecks.WithLabelValues("PLACED")); got != 2 {
		t.Errorf("Expected StatusChecks[PLACED] to be 2, got %f", got)
	}
	if got := testutil.ToFloat64(OrdersPlaced.WithLabelValues("oneatlas")); got != 1 {
		t.Errorf("Expected OrdersPlaced[oneatlas] to be 1, got %f", got)
	}
	if got := testutil.ToFloat64(OrdersTerminal.WithLabelValues("FULFILLED")); got != 1 {
		t.Errorf("Expected OrdersTerminal[FULFILLED] to be 1, got %f", got)
	}
}

func TestRouter(t *testing.T) {
	OrderRecorder{}.StatusChecked("BEING_FULFILLED")
	ts := httptest.NewServer(NewRouter())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected healthz status %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "geo_order_status_checks_total") {
		t.Fatalf("metrics output missing status checks counter")
	}
}

func TestStartMetricsServerDisabled(t *testing.T) {
	if srv := StartMetricsServer(""); srv != nil {
		t.Fatalf("expected nil server for empty addr")
	}
}
