// Package http serves the operational endpoints: Prometheus metrics,
// health and readiness checks.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sidekick/internal/core"
)

type Server struct {
	config  *core.ServerConfig
	logger  *zap.Logger
	server  *http.Server
	metrics *Metrics
}

type Metrics struct {
	ConversationsTotal *prometheus.CounterVec
	VendorCallsTotal   *prometheus.CounterVec
	ErrorsTotal        *prometheus.CounterVec
	HistorySize        prometheus.Gauge
}

func NewServer(config *core.ServerConfig, logger *zap.Logger) *Server {
	metrics := &Metrics{
		ConversationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidekick_conversations_total",
				Help: "Total number of user turns processed",
			},
			[]string{"status"},
		),
		VendorCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidekick_vendor_calls_total",
				Help: "Total number of upstream API calls",
			},
			[]string{"vendor", "status"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidekick_errors_total",
				Help: "Total number of errors",
			},
			[]string{"component", "type"},
		),
		HistorySize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sidekick_playback_history_size",
				Help: "Number of distinct tracks played this session",
			},
		),
	}

	prometheus.MustRegister(
		metrics.ConversationsTotal,
		metrics.VendorCallsTotal,
		metrics.ErrorsTotal,
		metrics.HistorySize,
	)

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"sidekick"}`))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready","service":"sidekick"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Sidekick</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .endpoint { margin: 10px 0; }
        .endpoint a { text-decoration: none; color: #0066cc; }
    </style>
</head>
<body>
    <h1>Sidekick</h1>
    <p>Personal assistant bridging Spotify, Gmail, Google Calendar and weather.</p>

    <h2>Endpoints</h2>
    <div class="endpoint"><a href="/metrics">Metrics</a> - Prometheus metrics</div>
    <div class="endpoint"><a href="/healthz">Health</a> - Health check</div>
    <div class="endpoint"><a href="/readyz">Ready</a> - Readiness check</div>
</body>
</html>`))
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return &Server{
		config:  config,
		logger:  logger,
		server:  server,
		metrics: metrics,
	}
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) RecordConversation(status string) {
	s.metrics.ConversationsTotal.WithLabelValues(status).Inc()
}

func (s *Server) RecordVendorCall(vendor, status string) {
	s.metrics.VendorCallsTotal.WithLabelValues(vendor, status).Inc()
}

func (s *Server) RecordError(component, errorType string) {
	s.metrics.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

func (s *Server) SetHistorySize(size int) {
	s.metrics.HistorySize.Set(float64(size))
}
