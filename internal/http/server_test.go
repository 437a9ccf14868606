package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"sidekick/internal/core"
)

var (
	testServerOnce sync.Once
	testServer     *Server
)

// Metrics register against the default Prometheus registry, so the
// server is built once for the whole test package.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	testServerOnce.Do(func() {
		cfg := &core.ServerConfig{Host: "127.0.0.1", Port: 0}
		testServer = NewServer(cfg, zap.NewNop())
	})
	return testServer
}

func TestEndpoints(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/healthz", http.StatusOK, `"status":"ok"`},
		{"/readyz", http.StatusOK, `"status":"ready"`},
		{"/", http.StatusOK, "Sidekick"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("GET %s body missing %q", tt.path, tt.wantBody)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	srv.RecordConversation("ok")
	srv.RecordVendorCall("spotify", "ok")
	srv.SetHistorySize(3)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, metric := range []string{
		"sidekick_conversations_total",
		"sidekick_vendor_calls_total",
		"sidekick_playback_history_size",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("metrics output missing %s", metric)
		}
	}
}
