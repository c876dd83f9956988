package metrics

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// serveLogged runs req through LoggingMiddleware and returns the decoded log line
func serveLogged(t *testing.T, req *http.Request, status int) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	logger := zap.New(zapcore.NewCore(encoder, zapcore.AddSync(&buf), zapcore.InfoLevel))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})

	w := httptest.NewRecorder()
	LoggingMiddleware(logger)(handler).ServeHTTP(w, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log: %v, log: %s", err, buf.String())
	}
	return entry, w
}

func TestLoggingMiddleware(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/v1/studies/psar", nil)
	req.RemoteAddr = "192.168.1.1:12345"

	entry, _ := serveLogged(t, req, http.StatusBadRequest)

	if entry["method"] != "POST" {
		t.Errorf("expected method POST, got %v", entry["method"])
	}
	if entry["path"] != "/api/v1/studies/psar" {
		t.Errorf("expected path /api/v1/studies/psar, got %v", entry["path"])
	}
	if entry["status"].(float64) != 400 {
		t.Errorf("expected status 400, got %v", entry["status"])
	}
	if _, ok := entry["duration_ms"]; !ok {
		t.Error("expected duration_ms in log entry")
	}
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/health", nil)
	entry, w := serveLogged(t, req, http.StatusOK)

	requestID := w.Header().Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("expected X-Request-ID header")
	}
	if entry["request_id"] != requestID {
		t.Errorf("expected request_id %s, got %v", requestID, entry["request_id"])
	}

	req = httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("X-Request-ID", "upstream-42")
	entry, w = serveLogged(t, req, http.StatusOK)
	if w.Header().Get("X-Request-ID") != "upstream-42" || entry["request_id"] != "upstream-42" {
		t.Errorf("expected incoming request id to be reused, got header %q log %v",
			w.Header().Get("X-Request-ID"), entry["request_id"])
	}
}

func TestLoggingMiddleware_ClientIP(t *testing.T) {
	tests := []struct {
		name      string
		forwarded string
		want      string
	}{
		{"remote addr", "", "10.0.0.1:54321"},
		{"forwarded", "203.0.113.50", "203.0.113.50"},
		{"forwarded chain", "203.0.113.50, 10.0.0.2", "203.0.113.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/health", nil)
			req.RemoteAddr = "10.0.0.1:54321"
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			entry, _ := serveLogged(t, req, http.StatusOK)
			if entry["client_ip"] != tt.want {
				t.Errorf("expected client_ip %s, got %v", tt.want, entry["client_ip"])
			}
		})
	}
}
