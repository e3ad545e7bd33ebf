// Package promexporter exposes the watcher and client statistics as
// Prometheus metrics.
package promexporter

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pior/sentinel"
)

// Exporter manages Prometheus metrics export
type Exporter struct {
	registry *prometheus.Registry
	watch    *WatchMetrics
}

// NewExporter creates a new Prometheus exporter
func NewExporter() *Exporter {
	registry := prometheus.NewRegistry()

	return &Exporter{
		registry: registry,
		watch:    NewWatchMetrics(registry),
	}
}

// WatchMetrics returns the watch loop metrics
func (e *Exporter) WatchMetrics() *WatchMetrics {
	return e.watch
}

// RegisterClient exports the statistics of a client
func (e *Exporter) RegisterClient(stats func() sentinel.ClientStats) error {
	return e.registry.Register(NewClientCollector(stats))
}

// Registry returns the underlying registry
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler returns an HTTP handler for the /metrics endpoint
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// ListenAndServe serves /metrics on addr until ctx is done
func (e *Exporter) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	})
	defer stop()

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
