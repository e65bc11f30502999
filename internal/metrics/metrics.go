// Package metrics exposes dataset load and HTTP metrics to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/sigem/internal/core"
	"github.com/JonMunkholm/sigem/internal/web/middleware"
)

const namespace = "sigem"

// Metrics holds all Prometheus metrics for the dashboard.
type Metrics struct {
	registry *prometheus.Registry

	DatasetLoads        *prometheus.CounterVec
	DatasetLoadDuration prometheus.Histogram
	DatasetRecords      prometheus.Gauge
	DatasetSkipped      prometheus.Gauge
	DatasetLastSuccess  prometheus.Gauge
	RegionLocalities    *prometheus.GaugeVec
	MapAvailable        prometheus.Gauge

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RateLimited         *prometheus.CounterVec
}

// New creates the metrics on a fresh registry that also carries the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		DatasetLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts by result and error code",
		}, []string{"result", "code"}),
		DatasetLoadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Time to fetch, parse and aggregate the dataset",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		DatasetRecords: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Municipalities in the published snapshot",
		}),
		DatasetSkipped: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_skipped_rows",
			Help:      "Data lines dropped for an empty department or municipality",
		}),
		DatasetLastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful load",
		}),
		RegionLocalities: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "region_localities",
			Help:      "Municipalities per department and compliance status",
		}, []string{"region", "status"}),
		MapAvailable: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "map_available",
			Help:      "1 when the departments map graphic is loaded",
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		RateLimited: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-IP rate limiter",
		}, []string{"route"}),
	}
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the exposition format for m's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry: m.registry,
	})
}

// ObserveLoad records one dataset load attempt. It satisfies
// core.LoadObserver.
func (m *Metrics) ObserveLoad(err error, duration time.Duration, snap *core.Snapshot) {
	m.DatasetLoadDuration.Observe(duration.Seconds())

	if err != nil {
		m.DatasetLoads.WithLabelValues("failure", core.MapError(err).Code).Inc()
		return
	}
	m.DatasetLoads.WithLabelValues("success", "").Inc()

	if snap == nil {
		return
	}
	m.DatasetRecords.Set(float64(len(snap.Records)))
	m.DatasetSkipped.Set(float64(snap.Skipped))
	m.DatasetLastSuccess.Set(float64(snap.LoadedAt.Unix()))

	// Departments can disappear between loads.
	m.RegionLocalities.Reset()
	for region, agg := range snap.Aggregates {
		m.RegionLocalities.WithLabelValues(region, string(core.StatusCompliant)).Set(float64(agg.CompliantCount))
		m.RegionLocalities.WithLabelValues(region, string(core.StatusNonCompliant)).Set(float64(agg.NonCompliantCount))
	}
}

// ObserveMap records whether the map graphic loaded.
func (m *Metrics) ObserveMap(err error) {
	if err != nil {
		m.MapAvailable.Set(0)
		return
	}
	m.MapAvailable.Set(1)
}

// IncrementRateLimited counts a request rejected by the rate limiter.
func (m *Metrics) IncrementRateLimited(route string) {
	m.RateLimited.WithLabelValues(route).Inc()
}

// Middleware counts and times every request by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := middleware.RoutePattern(r)

		m.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
