// Package metrics exposes Prometheus metrics through the OpenTelemetry
// SDK: HTTP traffic per route, content operation outcomes and page cache
// effectiveness. A nil *Metrics is valid and records nothing.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"inkwell/internal/content"
)

// Metrics holds the instruments and the registry they are exported from.
type Metrics struct {
	provider *sdkmetric.MeterProvider
	handler  http.Handler

	httpRequests metric.Int64Counter
	httpDuration metric.Float64Histogram
	operations   metric.Int64Counter
	cacheHits    metric.Int64Counter
	cacheMisses  metric.Int64Counter
}

// Setup builds a meter provider exporting into a private Prometheus
// registry, alongside the Go runtime and process collectors.
func Setup(serviceName string) (*Metrics, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("metrics exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	m := &Metrics{
		provider: provider,
		handler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}

	if m.httpRequests, err = meter.Int64Counter(
		"inkwell_http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.httpDuration, err = meter.Float64Histogram(
		"inkwell_http_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
	); err != nil {
		return nil, err
	}
	if m.operations, err = meter.Int64Counter(
		"inkwell_content_operations_total",
		metric.WithDescription("Content service operations by outcome"),
	); err != nil {
		return nil, err
	}
	if m.cacheHits, err = meter.Int64Counter(
		"inkwell_cache_hits_total",
		metric.WithDescription("Total number of page cache hits"),
	); err != nil {
		return nil, err
	}
	if m.cacheMisses, err = meter.Int64Counter(
		"inkwell_cache_misses_total",
		metric.WithDescription("Total number of page cache misses"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// Handler serves the Prometheus exposition format. A nil receiver answers
// 404 so the route can be mounted unconditionally.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return m.handler
}

// Shutdown flushes and stops the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}

// Middleware records one request count and duration per response, labelled
// with the chi route pattern rather than the raw path so ids do not
// explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.RecordHTTPRequest(r.Context(), r.Method, route, status, time.Since(start))
		}()

		next.ServeHTTP(ww, r)
	})
}

// RecordHTTPRequest counts one request and its duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	labels := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.httpRequests.Add(ctx, 1, labels)
	m.httpDuration.Record(ctx, d.Seconds(), labels)
}

// RecordOperation counts a content operation under the outcome err maps to.
func (m *Metrics) RecordOperation(ctx context.Context, op string, err error) {
	if m == nil {
		return
	}
	m.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", Outcome(err)),
	))
}

// RecordCacheHit counts a page cache hit for the given cache key family.
func (m *Metrics) RecordCacheHit(ctx context.Context, key string) {
	if m == nil {
		return
	}
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("key", key)))
}

// RecordCacheMiss counts a page cache miss for the given cache key family.
func (m *Metrics) RecordCacheMiss(ctx context.Context, key string) {
	if m == nil {
		return
	}
	m.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("key", key)))
}

// Outcome names the result class of a content operation.
func Outcome(err error) string {
	var (
		v *content.ValidationError
		n *content.NotFoundError
		c *content.ConflictError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &v):
		return "invalid"
	case errors.As(err, &n):
		return "not_found"
	case errors.As(err, &c):
		return "conflict"
	}
	return "error"
}
