package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMiddleware(t *testing.T) {
	reg := NewRegistry()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	req := httptest.NewRequest("GET", "/api/v1/studies", nil)
	w := httptest.NewRecorder()
	HTTPMiddleware(reg)(handler).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if got := testutil.ToFloat64(reg.httpRequestsTotal.WithLabelValues("GET", "/api/v1/studies", "2xx")); got != 1 {
		t.Errorf("expected one recorded request, got %v", got)
	}
	if n := testutil.CollectAndCount(reg.httpRequestDuration, "http_request_duration_seconds"); n != 1 {
		t.Errorf("expected one duration series, got %d", n)
	}
}

func TestHTTPMiddleware_UsesRoutePattern(t *testing.T) {
	reg := NewRegistry()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	// the mux sets the pattern on match, so the middleware sits below it
	wrapped := http.NewServeMux()
	wrapped.Handle("POST /api/v1/studies/{name}", HTTPMiddleware(reg)(handler))

	for _, name := range []string{"psar", "atr"} {
		req := httptest.NewRequest("POST", "/api/v1/studies/"+name, nil)
		wrapped.ServeHTTP(httptest.NewRecorder(), req)
	}

	if got := testutil.ToFloat64(reg.httpRequestsTotal.WithLabelValues("POST", "/api/v1/studies/{name}", "2xx")); got != 2 {
		t.Errorf("expected both requests under the route pattern, got %v", got)
	}
}

func TestHTTPMiddleware_TracksInFlight(t *testing.T) {
	reg := NewRegistry()

	inFlightDuringRequest := float64(-1)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inFlightDuringRequest = testutil.ToFloat64(reg.httpRequestsInFlight)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	HTTPMiddleware(reg)(handler).ServeHTTP(httptest.NewRecorder(), req)

	if inFlightDuringRequest != 1 {
		t.Errorf("expected in-flight to be 1 during request, got %v", inFlightDuringRequest)
	}
	if got := testutil.ToFloat64(reg.httpRequestsInFlight); got != 0 {
		t.Errorf("expected in-flight to be 0 after request, got %v", got)
	}
}

func TestHTTPMiddleware_CapturesStatusCode(t *testing.T) {
	reg := NewRegistry()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest("GET", "/not-found", nil)
	w := httptest.NewRecorder()
	HTTPMiddleware(reg)(handler).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if got := testutil.ToFloat64(reg.httpRequestsTotal.WithLabelValues("GET", "/not-found", "4xx")); got != 1 {
		t.Errorf("expected a 4xx request, got %v", got)
	}
}
